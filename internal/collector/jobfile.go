// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package collector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// ReadTestsJobMapping extracts the 'job' mapping from an IWC tests YAML file.
// Both root shapes are supported: a list of test case documents (the common
// format: doc, job, outputs, ...) where the first element carrying a
// non-empty job wins, and a single mapping with a top-level job key.
// A (nil, nil) return means the file parsed but holds no usable job mapping.
func ReadTestsJobMapping(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tests YAML: %w", err)
	}

	var data interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse tests YAML: %w", err)
	}

	var job interface{}
	switch root := data.(type) {
	case []interface{}:
		for _, item := range root {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if j, exists := m["job"]; exists && !isEmptyValue(j) {
				job = j
				break
			}
		}
	case map[string]interface{}:
		job = root["job"]
	}

	mapping, ok := job.(map[string]interface{})
	if !ok || len(mapping) == 0 {
		return nil, nil
	}
	return mapping, nil
}

// isEmptyValue mirrors Python falsiness for the values a job key can hold.
func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	default:
		return false
	}
}

// writeJobYAML writes the extracted job mapping as a standalone YAML file.
func (c *Collector) writeJobYAML(job map[string]interface{}, path string) error {
	if c.DryRun {
		log.Infof("would write job YAML to %s", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return err
	}

	raw, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job mapping: %w", err)
	}

	if err := os.WriteFile(path, raw, os.FileMode(0o644)); err != nil { //nolint:mnd
		return err
	}

	log.Debugf("wrote job YAML: %s", path)
	return nil
}
