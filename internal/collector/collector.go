// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package collector

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// Directories holding workflow test inputs. Both spellings occur in the wild.
var testDataDirNames = []string{"test_data", "test-data"}

// ErrNoWorkflowsDir is returned by Run when the source root is missing or
// not a directory.
var ErrNoWorkflowsDir = errors.New("workflows directory does not exist or is not a directory")

// Stats accumulates what a run did (or, under DryRun, would have done).
type Stats struct {
	Dirs     int
	Files    int
	Bytes    int64
	JobFiles int
	Skipped  int
}

// Collector mirrors WorkflowsDir into OutputDir. With DryRun set, nothing is
// written and every action is logged instead.
type Collector struct {
	WorkflowsDir string
	OutputDir    string
	DryRun       bool

	Stats Stats
}

// Run walks the source tree depth-first and processes every directory.
// Per-artifact failures are logged as warnings and skipped; only a missing
// source root is fatal.
func (c *Collector) Run() error {
	src, err := filepath.Abs(c.WorkflowsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve workflows dir: %w", err)
	}
	dst, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output dir: %w", err)
	}

	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNoWorkflowsDir, src)
	}

	log.Infof("replicating structure from %s -> %s", src, dst)

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Warnf("failed to walk %s: %v", path, walkErr)
			c.Stats.Skipped++
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			log.Warnf("failed to relativize %s: %v", path, relErr)
			c.Stats.Skipped++
			return nil
		}

		c.processDirectory(path, filepath.Join(dst, rel))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk workflows dir: %w", err)
	}

	log.Info("done")
	return nil
}

// processDirectory mirrors a single source directory into the output tree:
// creates the directory, copies README.md, the test data subtree and every
// .ga file, and derives a job YAML per .ga from the matching tests file.
func (c *Collector) processDirectory(srcDir, dstDir string) {
	if err := c.ensureDir(dstDir); err != nil {
		log.Warnf("failed to create %s: %v", dstDir, err)
		c.Stats.Skipped++
		return
	}
	c.Stats.Dirs++

	readme := filepath.Join(srcDir, "README.md")
	if info, err := os.Stat(readme); err == nil && !info.IsDir() {
		if err := c.copyFile(readme, filepath.Join(dstDir, "README.md")); err != nil {
			log.Warnf("failed to copy %s: %v", readme, err)
			c.Stats.Skipped++
		}
	}

	for _, name := range testDataDirNames {
		td := filepath.Join(srcDir, name)
		if info, err := os.Stat(td); err == nil && info.IsDir() {
			if err := c.copyTree(td, filepath.Join(dstDir, name)); err != nil {
				log.Warnf("failed to copy directory %s: %v", td, err)
				c.Stats.Skipped++
			}
		}
	}

	gaFiles, err := findWorkflowFiles(srcDir)
	if err != nil {
		log.Warnf("failed to list %s: %v", srcDir, err)
		c.Stats.Skipped++
		return
	}
	testsFiles, err := findTestsFiles(srcDir)
	if err != nil {
		log.Warnf("failed to list %s: %v", srcDir, err)
		c.Stats.Skipped++
		return
	}

	for _, ga := range gaFiles {
		if err := c.copyFile(ga, filepath.Join(dstDir, filepath.Base(ga))); err != nil {
			log.Warnf("failed to copy %s: %v", ga, err)
			c.Stats.Skipped++
		}
	}

	for _, ga := range gaFiles {
		c.deriveJobFile(ga, testsFiles, dstDir)
	}
}

// deriveJobFile extracts the job mapping for one .ga file and writes it as
// <stem>.yml in dstDir. Absence of a tests file or of a job mapping is an
// expected condition, logged and skipped.
func (c *Collector) deriveJobFile(ga string, testsFiles []string, dstDir string) {
	matched := PickMatchingTests(ga, testsFiles)
	if matched == "" {
		if len(testsFiles) > 0 {
			// There are tests files but none matched well; pick the first to
			// be helpful. os.ReadDir sorts by name, so "first" is the
			// lexicographically first candidate.
			matched = testsFiles[0]
		} else {
			log.Debugf("no tests YAML found for %s", ga)
			return
		}
	}

	job, err := ReadTestsJobMapping(matched)
	if err != nil {
		log.Warnf("failed to read tests YAML %s: %v", matched, err)
		c.Stats.Skipped++
		return
	}
	if job == nil {
		log.Debugf("no 'job' mapping found in %s", matched)
		return
	}

	stem := strings.TrimSuffix(filepath.Base(ga), filepath.Ext(ga))
	out := filepath.Join(dstDir, stem+".yml")
	if err := c.writeJobYAML(job, out); err != nil {
		log.Warnf("failed to write job YAML %s: %v", out, err)
		c.Stats.Skipped++
		return
	}
	c.Stats.JobFiles++
}

func (c *Collector) ensureDir(path string) error {
	if c.DryRun {
		log.Debugf("would create directory: %s", path)
		return nil
	}
	return os.MkdirAll(path, 0o755) //nolint:mnd
}

// copyFile copies src to dst preserving mode bits and modtime.
func (c *Collector) copyFile(src, dst string) error {
	if c.DryRun {
		log.Infof("would copy %s -> %s", src, dst)
		c.Stats.Files++
		if info, err := os.Stat(src); err == nil {
			c.Stats.Bytes += info.Size()
		}
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:mnd
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	// Match the source's mode and modtime, the way shutil.copy2 would.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	c.Stats.Files++
	c.Stats.Bytes += n
	log.Debugf("copied %s -> %s", src, dst)
	return nil
}

// copyTree copies srcDir into dstDir recursively. Existing destination files
// are overwritten.
func (c *Collector) copyTree(srcDir, dstDir string) error {
	if c.DryRun {
		log.Infof("would copy directory %s -> %s", srcDir, dstDir)
		// Count the subtree so the dry-run summary matches a real run.
		return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return walkErr
			}
			c.Stats.Files++
			if info, err := d.Info(); err == nil {
				c.Stats.Bytes += info.Size()
			}
			return nil
		})
	}

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dstDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755) //nolint:mnd
		}
		return c.copyFile(path, target)
	})
	if err != nil {
		return err
	}

	log.Debugf("copied directory %s -> %s", srcDir, dstDir)
	return nil
}

// findWorkflowFiles returns the .ga files directly inside dir, sorted by name.
func findWorkflowFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".ga" {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// findTestsFiles returns the test description YAMLs directly inside dir,
// sorted by name.
func findTestsFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isTestsFileName(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
