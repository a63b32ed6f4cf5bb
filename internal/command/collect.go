// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/urdvr/galaxy-rerun-testing/internal/collector"
	mylog "github.com/urdvr/galaxy-rerun-testing/internal/log"
	"github.com/urdvr/galaxy-rerun-testing/internal/meta"
)

// CollectCommandAction is the action handler for the "collect" subcommand.
// It mirrors a workflows tree into the output directory, copying the
// canonical artifacts and deriving job YAMLs.
func CollectCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "collect") {
		return nil
	}

	mylog.SetVerbosity(verbosity)

	col := &collector.Collector{
		WorkflowsDir: cmd.String("workflows-dir"),
		OutputDir:    cmd.String("output-dir"),
		DryRun:       cmd.Bool("dry-run"),
	}

	if err := col.Run(); err != nil {
		if errors.Is(err, collector.ErrNoWorkflowsDir) {
			return cli.Exit(err.Error(), 2)
		}
		return err
	}

	printCollectSummary(col)
	return nil
}

// CollectCommandBuilder constructs the cli.Command for "collect", wiring
// metadata, flags, and action/validator handlers.
func CollectCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "collect",
		Usage:     "collect workflow artifacts into a mirrored tree",
		UsageText: `gxwf collect --workflows-dir DIR --output-dir DIR [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workflows-dir",
				Usage: "path to the source workflows directory",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("collect.workflows_dir", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "path to the output directory",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("collect.output_dir", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "show what would be done without writing files",
				Value: false,
			},
			tldrFlag,
			verboseFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := CollectCommandValidator(ctx, cmd); err != nil {
				return err
			}
			return CollectCommandAction(ctx, cmd)
		},
	}
}

// CollectCommandValidator checks the required directory flags. Both may come
// from the config file instead of the command line.
func CollectCommandValidator(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("tldr") {
		return nil
	}
	if cmd.String("workflows-dir") == "" {
		return errors.New("--workflows-dir is required")
	}
	if cmd.String("output-dir") == "" {
		return errors.New("--output-dir is required")
	}
	return nil
}

// printCollectSummary renders the run's counters as a small borderless table.
func printCollectSummary(col *collector.Collector) {
	title := "Collected"
	if col.DryRun {
		title = "Would collect (dry run)"
	}

	rows := [][]string{
		{"directories mirrored", strconv.Itoa(col.Stats.Dirs)},
		{"files copied", strconv.Itoa(col.Stats.Files)},
		{"bytes copied", humanize.Bytes(uint64(col.Stats.Bytes))},
		{"job files written", strconv.Itoa(col.Stats.JobFiles)},
		{"artifacts skipped", strconv.Itoa(col.Stats.Skipped)},
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers(title, "").
		BorderHeader(false).
		Rows(rows...)

	fmt.Println(t)
}
