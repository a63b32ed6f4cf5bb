// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/urdvr/galaxy-rerun-testing/internal/command"
	"github.com/urdvr/galaxy-rerun-testing/internal/config"
	mylog "github.com/urdvr/galaxy-rerun-testing/internal/log"
	"github.com/urdvr/galaxy-rerun-testing/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-V.
	for _, a := range args {
		if a == "--version" || a == "-V" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			fmt.Fprintln(os.Stderr, err)
			return coder.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

// mangleArguments expands an @set argument into the strings stored under
// <command>.<set> in gxwf.yaml. With no explicit @set, @defaults is implied.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the
	// preamble and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	// A flag in the command position means there is nothing to expand.
	if strings.HasPrefix(args[1], "-") {
		return args
	}

	idx := 2
	set := "defaults"
	// See if there is a @set specified. If so, that becomes our insertion
	// point and the @set entry is removed from args.
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			args = append(args[:idx], args[idx+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		args = append(args[:idx], append(parts, args[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, args)
	return args
}
