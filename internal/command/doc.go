// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// Package command wires the gxwf CLI: the command tree, per-command flags
// with their env and config-file sources, and the action handlers.
package command
