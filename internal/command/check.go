// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/urdvr/galaxy-rerun-testing/internal/checker"
	"github.com/urdvr/galaxy-rerun-testing/internal/galaxy"
	mylog "github.com/urdvr/galaxy-rerun-testing/internal/log"
	"github.com/urdvr/galaxy-rerun-testing/internal/meta"
	"github.com/urdvr/galaxy-rerun-testing/internal/planemo"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// CheckCommandAction is the action handler for the "check" subcommand. It
// runs the workflow via planemo, reruns it with the Galaxy job cache
// enabled, and verifies the rerun's jobs were copied from cache.
func CheckCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "check") {
		return nil
	}

	mylog.SetVerbosity(verbosity)

	workflowFile := cmd.Args().Get(0)
	jobFile := cmd.Args().Get(1)

	key := cmd.String("galaxy_user_key")
	if key == "" {
		var err error
		if key, err = PromptGalaxyKey(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	chk := &checker.Checker{
		Runner: &planemo.Runner{
			Executable: cmd.String("planemo"),
			GalaxyURL:  cmd.String("galaxy_url"),
			GalaxyKey:  key,
		},
		Galaxy: galaxy.New(cmd.String("galaxy_url"), key),
	}

	fmt.Println("--- Running initial workflow ---")
	result, err := chk.Run(ctx, workflowFile, jobFile)
	if err != nil {
		var apiErr *galaxy.APIError
		if errors.As(err, &apiErr) {
			return cli.Exit(fmt.Sprintf("An API error occurred: %v", apiErr), 1)
		}
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("Successfully extracted Invocation ID: %s\n", result.InvocationID)
	fmt.Println("\n--- Rerunning workflow from cache ---")
	fmt.Printf("Successfully extracted Rerun Invocation ID: %s\n", result.RerunInvocationID)

	fmt.Println("\n--- Verifying cached jobs ---")
	fmt.Printf("Copied jobs: %d / %d\n", result.Copied, result.Total)

	if result.Success {
		fmt.Println(successStyle.Render(
			"Success: The rerun invocation consists of copied (cached) jobs."))
		return nil
	}

	fmt.Println(failureStyle.Render(
		"Failure: The rerun invocation does not consist of entirely copied jobs."))

	if cmd.Bool("diff") {
		diff, diffErr := chk.DiffJobs(ctx, result.InvocationID, result.RerunInvocationID)
		if diffErr != nil {
			log.Warnf("failed to diff invocation jobs: %v", diffErr)
		} else if diff != "" {
			fmt.Println("\n--- Job diff (initial vs rerun) ---")
			fmt.Print(diff)
		}
	}

	return nil
}

// CheckCommandBuilder constructs the cli.Command for "check", wiring
// metadata, flags, and action/validator handlers.
func CheckCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "verify a workflow rerun is served from the job cache",
		UsageText: `gxwf check WORKFLOW_FILE JOB_FILE [options]`,
		ArgsUsage: "WORKFLOW_FILE JOB_FILE",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewGalaxyURLFlag("check", meta.Config.Source),
			NewGalaxyKeyFlag("check", meta.Config.Source),
			&cli.StringFlag{
				Name:   "planemo",
				Hidden: true,
				Usage:  "planemo executable to invoke",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("check.planemo", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: "planemo",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "on failure, diff the initial and rerun job documents",
				Value: false,
			},
			tldrFlag,
			verboseFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := CheckCommandValidator(ctx, cmd); err != nil {
				return err
			}
			return CheckCommandAction(ctx, cmd)
		},
	}
}

// CheckCommandValidator verifies the two positional file arguments.
func CheckCommandValidator(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("tldr") {
		return nil
	}
	if cmd.Args().Len() != 2 {
		return errors.New("expected exactly two arguments: WORKFLOW_FILE JOB_FILE")
	}
	return nil
}
