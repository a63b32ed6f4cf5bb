// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

// Package version holds the build version stamped in via ldflags.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/urdvr/galaxy-rerun-testing/internal/version.Version=vX.Y.Z".
var Version = "dev"
