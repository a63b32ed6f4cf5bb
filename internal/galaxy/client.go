// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// Package galaxy is a thin client for the slice of the Galaxy jobs API this
// tool needs: listing the jobs of an invocation and fetching job details.
package galaxy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// APIError is a non-200 response from the Galaxy API, carrying the server's
// err_msg when the body provides one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("galaxy API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("galaxy API error (HTTP %d)", e.Status)
}

// Client talks to one Galaxy instance. The API key rides along as the "key"
// query parameter on every request.
type Client struct {
	URL  string
	Key  string
	HTTP *http.Client
}

// New builds a Client for the given base URL and user API key.
func New(baseURL, key string) *Client {
	return &Client{
		URL:  strings.TrimRight(baseURL, "/") + "/",
		Key:  key,
		HTTP: &http.Client{},
	}
}

// get issues a GET against endpoint (relative to the base URL) and returns
// the raw response body. Non-200 responses become *APIError.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := c.URL + strings.TrimLeft(endpoint, "/")

	// Copy before adding the key so the caller's params stay untouched.
	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("key", c.Key)
	u += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debugf("GET %s", endpoint)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: gjson.GetBytes(doc.Bytes(), "err_msg").String(),
		}
	}

	return doc.Bytes(), nil
}

// Jobs lists jobs filtered by the given query parameters (api/jobs).
func (c *Client) Jobs(ctx context.Context, params url.Values) ([]byte, error) {
	return c.get(ctx, "api/jobs", params)
}

// Job fetches the full detail of a single job (api/jobs/{id}).
func (c *Client) Job(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, "api/jobs/"+url.PathEscape(id), nil)
}
