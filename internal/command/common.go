// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/urdvr/galaxy-rerun-testing/internal/meta"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr gxwf <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "gxwf", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// PromptGalaxyKey reads the Galaxy API key interactively without echo. Only
// usable when stdin is a terminal.
func PromptGalaxyKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--galaxy_user_key is required")
	}

	fmt.Fprint(os.Stderr, "Galaxy API key: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("--galaxy_user_key is required")
	}
	return string(raw), nil
}
