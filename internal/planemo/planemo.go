// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// Package planemo shells out to the planemo workflow runner and extracts the
// invocation ID it prints for a run.
package planemo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/apex/log"
)

// planemo reports the invocation it started as "Invocation <id>" on either
// stream.
var invocationRe = regexp.MustCompile(`Invocation <([^>]+)>`)

// ErrNoInvocation is returned when a planemo run completed but its output
// carried no invocation ID.
var ErrNoInvocation = errors.New("invocation ID not found in planemo output")

// Runner invokes planemo against one Galaxy instance.
type Runner struct {
	// Executable defaults to "planemo"; override via config (check.planemo)
	// or for tests.
	Executable string
	GalaxyURL  string
	GalaxyKey  string
}

// RunArgs builds the argument vector for the initial workflow run.
func (r *Runner) RunArgs(workflowFile, jobFile string) []string {
	return []string{
		"run",
		workflowFile,
		jobFile,
		"--galaxy_url", r.GalaxyURL,
		"--galaxy_user_key", r.GalaxyKey,
	}
}

// RerunArgs builds the argument vector for the cache-enabled rerun of a
// previous invocation.
func (r *Runner) RerunArgs(invocationID string) []string {
	return []string{
		"rerun",
		"--use_cache",
		"--invocation", invocationID,
		"--galaxy_url", r.GalaxyURL,
		"--galaxy_user_key", r.GalaxyKey,
	}
}

// Invoke runs planemo with the given args and returns its combined
// stdout+stderr. The subprocess sees a sanitized environment: PYTHONPATH is
// stripped so a surrounding virtualenv cannot leak into planemo's own.
// A missing executable is reported distinctly from a non-zero exit.
func (r *Runner) Invoke(ctx context.Context, args []string) (string, error) {
	exe := r.Executable
	if exe == "" {
		exe = "planemo"
	}

	log.Debugf("running %s %s", exe, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Env = sanitizedEnv()

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("command %q was not found, ensure planemo is on PATH: %w", exe, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("command failed with exit code %d:\n%s", exitErr.ExitCode(), output)
		}
		return "", fmt.Errorf("failed to execute %s: %w", exe, err)
	}

	return output, nil
}

// RunAndExtractID invokes planemo and pulls the invocation ID out of its
// output.
func (r *Runner) RunAndExtractID(ctx context.Context, args []string) (string, error) {
	output, err := r.Invoke(ctx, args)
	if err != nil {
		return "", err
	}
	return ExtractInvocationID(output)
}

// ExtractInvocationID finds the first "Invocation <id>" marker in output and
// returns the literal captured ID.
func ExtractInvocationID(output string) (string, error) {
	if m := invocationRe.FindStringSubmatch(output); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w; full output:\n%s", ErrNoInvocation, output)
}

// sanitizedEnv is the current environment minus PYTHONPATH.
func sanitizedEnv() []string {
	env := os.Environ()
	out := env[:0]
	for _, kv := range env {
		if strings.HasPrefix(kv, "PYTHONPATH=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}
