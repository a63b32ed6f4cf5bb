// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// Package collector replicates an IWC-style workflows tree into an output
// directory, carrying over the canonical artifacts of each workflow folder:
// the README, the .ga workflow definitions, the test data directory, and a
// simplified job YAML derived from the workflow's test description file.
package collector
