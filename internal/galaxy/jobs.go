// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package galaxy

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// CopiedCount summarizes how many of an invocation's jobs were served from
// the Galaxy job cache instead of being recomputed.
type CopiedCount struct {
	InvocationID string
	Copied       int
	Total        int
}

// InvocationJobs fetches the full detail document of every job belonging to
// the invocation, in the order the jobs API lists them.
func (c *Client) InvocationJobs(ctx context.Context, invocationID string) ([][]byte, error) {
	params := url.Values{}
	params.Set("invocation_id", invocationID)

	listing, err := c.Jobs(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for invocation %s: %w", invocationID, err)
	}

	var jobs [][]byte
	for _, item := range gjson.ParseBytes(listing).Array() {
		id := item.Get("id").String()
		if id == "" {
			continue
		}
		detail, err := c.Job(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch job %s: %w", id, err)
		}
		jobs = append(jobs, detail)
	}
	return jobs, nil
}

// CountCopied counts the invocation's jobs whose copied_from_job_id is set,
// against the total job count. A job counts as copied when the field is
// present and non-null.
func (c *Client) CountCopied(ctx context.Context, invocationID string) (CopiedCount, error) {
	jobs, err := c.InvocationJobs(ctx, invocationID)
	if err != nil {
		return CopiedCount{}, err
	}

	cnt := CopiedCount{InvocationID: invocationID, Total: len(jobs)}
	for _, job := range jobs {
		from := gjson.GetBytes(job, "copied_from_job_id")
		if from.Exists() && from.Type != gjson.Null {
			cnt.Copied++
		}
	}
	return cnt, nil
}
