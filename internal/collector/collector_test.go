// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeFile creates path (and parents) with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const testsYAML = `- doc: smoke test
  job:
    input:
      class: File
      path: test_data/in.txt
  outputs: {}
`

// buildWorkflowTree lays out a small IWC-style source tree:
//
//	src/
//	  genomics/
//	    rnaseq/
//	      README.md
//	      rnaseq.ga
//	      rnaseq-tests.yml
//	      test_data/in.txt
//	    empty/
func buildWorkflowTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	wf := filepath.Join(src, "genomics", "rnaseq")
	writeFile(t, filepath.Join(wf, "README.md"), "# rnaseq\n")
	writeFile(t, filepath.Join(wf, "rnaseq.ga"), `{"a_galaxy_workflow": "true"}`)
	writeFile(t, filepath.Join(wf, "rnaseq-tests.yml"), testsYAML)
	writeFile(t, filepath.Join(wf, "test_data", "in.txt"), "ACGT\n")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "genomics", "empty"), 0o755))
	return src
}

func TestRunMirrorsTree(t *testing.T) {
	src := buildWorkflowTree(t)
	out := t.TempDir()

	c := &Collector{WorkflowsDir: src, OutputDir: out}
	require.NoError(t, c.Run())

	// Every source directory has a counterpart, artifacts included.
	wf := filepath.Join(out, "genomics", "rnaseq")
	assert.DirExists(t, filepath.Join(out, "genomics"))
	assert.DirExists(t, filepath.Join(out, "genomics", "empty"))
	assert.FileExists(t, filepath.Join(wf, "README.md"))
	assert.FileExists(t, filepath.Join(wf, "rnaseq.ga"))
	assert.FileExists(t, filepath.Join(wf, "test_data", "in.txt"))

	// The job file holds exactly the mapping under the tests file's job key.
	raw, err := os.ReadFile(filepath.Join(wf, "rnaseq.yml"))
	require.NoError(t, err)
	var job map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &job))
	assert.Equal(t, map[string]interface{}{
		"input": map[string]interface{}{
			"class": "File",
			"path":  "test_data/in.txt",
		},
	}, job)

	assert.GreaterOrEqual(t, c.Stats.Dirs, 4)
	assert.Equal(t, 1, c.Stats.JobFiles)
}

func TestRunCopyPreservesContentAndMode(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	ga := filepath.Join(src, "wf.ga")
	writeFile(t, ga, "workflow body")
	require.NoError(t, os.Chmod(ga, 0o755))

	c := &Collector{WorkflowsDir: src, OutputDir: out}
	require.NoError(t, c.Run())

	copied := filepath.Join(out, "wf.ga")
	raw, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "workflow body", string(raw))

	info, err := os.Stat(copied)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestRunNoWorkflowFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "sub", "notes.txt"), "nothing to see")

	c := &Collector{WorkflowsDir: src, OutputDir: out}
	require.NoError(t, c.Run())

	// Structure mirrored, no job files produced, nothing fatal.
	assert.DirExists(t, filepath.Join(out, "sub"))
	assert.Equal(t, 0, c.Stats.JobFiles)
	entries, err := os.ReadDir(filepath.Join(out, "sub"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunUnrelatedTestsFilePicksFirst(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "zzz.ga"), "{}")
	// Neither stem relates to zzz; the scores tie and os.ReadDir order keeps aaa.
	writeFile(t, filepath.Join(src, "aaa-tests.yml"), testsYAML)
	writeFile(t, filepath.Join(src, "bbb-tests.yml"), `- doc: other
  job:
    marker: bbb
`)

	c := &Collector{WorkflowsDir: src, OutputDir: out}
	require.NoError(t, c.Run())

	raw, err := os.ReadFile(filepath.Join(out, "zzz.yml"))
	require.NoError(t, err)
	var job map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &job))
	assert.Contains(t, job, "input")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	src := buildWorkflowTree(t)
	out := filepath.Join(t.TempDir(), "out")

	c := &Collector{WorkflowsDir: src, OutputDir: out, DryRun: true}
	require.NoError(t, c.Run())

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "dry run must not create the output tree")
}

func TestRunDryRunCountsLikeRealRun(t *testing.T) {
	src := buildWorkflowTree(t)

	dry := &Collector{WorkflowsDir: src, OutputDir: filepath.Join(t.TempDir(), "out"), DryRun: true}
	require.NoError(t, dry.Run())

	live := &Collector{WorkflowsDir: src, OutputDir: t.TempDir()}
	require.NoError(t, live.Run())

	assert.Equal(t, live.Stats.Files, dry.Stats.Files)
	assert.Equal(t, live.Stats.Bytes, dry.Stats.Bytes)
	assert.Equal(t, live.Stats.JobFiles, dry.Stats.JobFiles)
}

func TestRunMissingSource(t *testing.T) {
	c := &Collector{
		WorkflowsDir: filepath.Join(t.TempDir(), "nope"),
		OutputDir:    t.TempDir(),
	}
	err := c.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoWorkflowsDir)
}

func TestRunEmptyJobMappingWritesNoJobFile(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "wf.ga"), "{}")
	writeFile(t, filepath.Join(src, "wf-test.yml"), "doc: empty\njob: {}\n")

	c := &Collector{WorkflowsDir: src, OutputDir: out}
	require.NoError(t, c.Run())

	_, err := os.Stat(filepath.Join(out, "wf.yml"))
	assert.True(t, os.IsNotExist(err), "an empty job mapping must not produce a job file")
	assert.Equal(t, 0, c.Stats.JobFiles)
}

func TestRunSkipsBrokenTestsFile(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "wf.ga"), "{}")
	writeFile(t, filepath.Join(src, "wf-tests.yml"), "job: [unclosed")

	c := &Collector{WorkflowsDir: src, OutputDir: out}
	require.NoError(t, c.Run(), "YAML errors are warnings, not failures")

	_, err := os.Stat(filepath.Join(out, "wf.yml"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(out, "wf.ga"))
	assert.Equal(t, 1, c.Stats.Skipped)
}
