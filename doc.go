// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// gxwf is the main package for the gxwf command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
