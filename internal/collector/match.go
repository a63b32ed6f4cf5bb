// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package collector

import (
	"path/filepath"
	"strings"
)

// Suffixes that mark a YAML file as a workflow test description.
var testsSuffixes = []string{"-test.yml", "-tests.yml"}

// isTestsFileName reports whether name looks like a test description file.
// Extension and suffix are matched case-insensitively.
func isTestsFileName(name string) bool {
	lower := strings.ToLower(name)
	if filepath.Ext(lower) != ".yml" {
		return false
	}
	for _, suf := range testsSuffixes {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	return false
}

// SimilarityScore is a simple similarity metric for filename stems: higher is
// better. Stems are normalized (case folded, hyphens unified to underscores)
// before comparison. An exact match earns a flat bonus on top of the shared
// prefix length, so "foo" vs "foo" always beats "foo" vs "foo-extra".
func SimilarityScore(a, b string) int {
	norm := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	}

	an, bn := norm(a), norm(b)
	score := 0
	if an == bn {
		score += 10
	}
	score += commonPrefixLen(an, bn)
	return score
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// PickMatchingTests picks the tests file whose stem best matches the .ga
// file's stem. A single candidate is returned as-is. Ties keep the first
// candidate in the given order, which makes the choice deterministic for a
// fixed collection order. Returns "" when there are no candidates.
func PickMatchingTests(ga string, testsFiles []string) string {
	if len(testsFiles) == 0 {
		return ""
	}
	if len(testsFiles) == 1 {
		return testsFiles[0]
	}

	gaStem := stem(ga)
	best := testsFiles[0]
	bestScore := SimilarityScore(gaStem, stem(best))
	for _, t := range testsFiles[1:] {
		if s := SimilarityScore(gaStem, stem(t)); s > bestScore {
			best, bestScore = t, s
		}
	}
	return best
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
