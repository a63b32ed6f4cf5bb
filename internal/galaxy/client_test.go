// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package galaxy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJobsServer serves a minimal slice of the Galaxy jobs API: a listing for
// one invocation and per-job detail documents.
func newJobsServer(t *testing.T, invocationID string, jobs map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"err_msg": "Provide a valid API key"}`)
			return
		}
		if r.URL.Query().Get("invocation_id") != invocationID {
			fmt.Fprint(w, `[]`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[`)
		first := true
		for id := range jobs {
			if !first {
				fmt.Fprint(w, `,`)
			}
			fmt.Fprintf(w, `{"id": %q, "state": "ok"}`, id)
			first = false
		}
		fmt.Fprint(w, `]`)
	})
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/api/jobs/"):]
		detail, ok := jobs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"err_msg": "Job not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, detail)
	})

	return httptest.NewServer(mux)
}

func TestCountCopied(t *testing.T) {
	tests := []struct {
		name       string
		jobs       map[string]string
		wantCopied int
		wantTotal  int
	}{
		{
			name: "all copied",
			jobs: map[string]string{
				"j1": `{"id": "j1", "copied_from_job_id": "orig1"}`,
				"j2": `{"id": "j2", "copied_from_job_id": "orig2"}`,
			},
			wantCopied: 2,
			wantTotal:  2,
		},
		{
			name: "null field does not count",
			jobs: map[string]string{
				"j1": `{"id": "j1", "copied_from_job_id": null}`,
				"j2": `{"id": "j2", "copied_from_job_id": "orig2"}`,
			},
			wantCopied: 1,
			wantTotal:  2,
		},
		{
			name: "missing field does not count",
			jobs: map[string]string{
				"j1": `{"id": "j1"}`,
			},
			wantCopied: 0,
			wantTotal:  1,
		},
		{
			name:       "no jobs",
			jobs:       map[string]string{},
			wantCopied: 0,
			wantTotal:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newJobsServer(t, "inv1", tt.jobs)
			defer srv.Close()

			c := New(srv.URL, "testkey")
			cnt, err := c.CountCopied(context.Background(), "inv1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantCopied, cnt.Copied)
			assert.Equal(t, tt.wantTotal, cnt.Total)
			assert.Equal(t, "inv1", cnt.InvocationID)
		})
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := newJobsServer(t, "inv1", nil)
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.InvocationJobs(context.Background(), "inv1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Provide a valid API key", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "Provide a valid API key")
}

func TestNewNormalizesBaseURL(t *testing.T) {
	assert.Equal(t, "http://g/", New("http://g", "k").URL)
	assert.Equal(t, "http://g/", New("http://g///", "k").URL)
}

func TestJobsLeavesCallerParamsUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	params := url.Values{}
	params.Set("invocation_id", "inv1")

	c := New(srv.URL, "sekrit")
	_, err := c.Jobs(context.Background(), params)
	require.NoError(t, err)

	assert.NotContains(t, params, "key")
	assert.Equal(t, url.Values{"invocation_id": []string{"inv1"}}, params)
}

func TestJobSendsKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, `{"id": "j1"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit")
	_, err := c.Job(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, "sekrit", gotKey)
}
