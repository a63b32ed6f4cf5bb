// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// Package checker drives the rerun-cache verification: run a workflow once,
// rerun it with the Galaxy job cache enabled, and verify that every job of
// the rerun was copied from a cached execution.
package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	gojsondiff "github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/urdvr/galaxy-rerun-testing/internal/galaxy"
)

// Runner is the slice of the planemo runner the checker needs.
type Runner interface {
	RunArgs(workflowFile, jobFile string) []string
	RerunArgs(invocationID string) []string
	RunAndExtractID(ctx context.Context, args []string) (string, error)
}

// JobAPI is the slice of the Galaxy client the checker needs.
type JobAPI interface {
	CountCopied(ctx context.Context, invocationID string) (galaxy.CopiedCount, error)
	InvocationJobs(ctx context.Context, invocationID string) ([][]byte, error)
}

// Result is the outcome of one verification.
type Result struct {
	InvocationID      string
	RerunInvocationID string
	Copied            int
	Total             int
	// Success means every rerun job was copied and there was at least one.
	Success bool
}

// Checker wires a workflow runner to a Galaxy jobs API.
type Checker struct {
	Runner Runner
	Galaxy JobAPI
}

// Run executes the initial workflow run, the cache-enabled rerun, and the
// copied-job count. It raises errors rather than exiting; the command layer
// owns exit codes.
func (c *Checker) Run(ctx context.Context, workflowFile, jobFile string) (Result, error) {
	invocationID, err := c.Runner.RunAndExtractID(ctx, c.Runner.RunArgs(workflowFile, jobFile))
	if err != nil {
		return Result{}, fmt.Errorf("could not get invocation ID from the initial run: %w", err)
	}
	log.Debugf("initial invocation: %s", invocationID)

	rerunID, err := c.Runner.RunAndExtractID(ctx, c.Runner.RerunArgs(invocationID))
	if err != nil {
		return Result{InvocationID: invocationID},
			fmt.Errorf("could not get invocation ID from the rerun: %w", err)
	}
	log.Debugf("rerun invocation: %s", rerunID)

	cnt, err := c.Galaxy.CountCopied(ctx, rerunID)
	if err != nil {
		return Result{InvocationID: invocationID, RerunInvocationID: rerunID}, err
	}

	return Result{
		InvocationID:      invocationID,
		RerunInvocationID: rerunID,
		Copied:            cnt.Copied,
		Total:             cnt.Total,
		Success:           cnt.Copied == cnt.Total && cnt.Total > 0,
	}, nil
}

// DiffJobs renders an ASCII JSON diff of the two invocations' job documents,
// a debugging aid for reruns that were not fully served from cache.
func (c *Checker) DiffJobs(ctx context.Context, initialID, rerunID string) (string, error) {
	left, err := c.jobsDocument(ctx, initialID)
	if err != nil {
		return "", err
	}
	right, err := c.jobsDocument(ctx, rerunID)
	if err != nil {
		return "", err
	}

	diff, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return "", fmt.Errorf("failed to diff job documents: %w", err)
	}
	if !diff.Modified() {
		return "", nil
	}

	var leftObj map[string]interface{}
	if err := json.Unmarshal(left, &leftObj); err != nil {
		return "", fmt.Errorf("failed to decode job document: %w", err)
	}

	out, err := formatter.NewAsciiFormatter(leftObj, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
	}).Format(diff)
	if err != nil {
		return "", fmt.Errorf("failed to format job diff: %w", err)
	}
	return out, nil
}

// jobsDocument wraps an invocation's job details into a single JSON object,
// the root shape the diff library expects.
func (c *Checker) jobsDocument(ctx context.Context, invocationID string) ([]byte, error) {
	jobs, err := c.Galaxy.InvocationJobs(ctx, invocationID)
	if err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	doc.WriteString(`{"jobs":[`)
	for i, job := range jobs {
		if i > 0 {
			doc.WriteByte(',')
		}
		doc.Write(bytes.TrimSpace(job))
	}
	doc.WriteString(`]}`)
	return doc.Bytes(), nil
}
