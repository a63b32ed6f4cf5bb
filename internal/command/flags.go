// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var (
	// verbosity counts repeated --verbose/-v flags.
	verbosity int

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}

	verboseFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "verbose",
		Aliases:     []string{"v"},
		Usage:       "increase log detail (repeatable)",
		HideDefault: true,
		Config: cli.BoolConfig{
			Count: &verbosity,
		},
	}
)

// NewGalaxyURLFlag constructs the "galaxy_url" flag with env and config file
// sources. params[0] is the command namespace, params[1] the config file.
func NewGalaxyURLFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "galaxy_url",
		Usage: "URL of the Galaxy instance",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GXWF_GALAXY_URL"),
			cli.EnvVar("GALAXY_URL"),
		),
		Value: "http://127.0.0.1:8080/",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewGalaxyKeyFlag constructs the "galaxy_user_key" flag with env and config
// file sources. The key is effectively required; when every source comes up
// empty the check command prompts for it on a terminal before failing.
func NewGalaxyKeyFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "galaxy_user_key",
		Usage: "API key for the Galaxy user",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GXWF_GALAXY_KEY"),
			cli.EnvVar("GALAXY_API_KEY"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given executable exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
