// Copyright 2025 FixLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/fixlabs/compdbfix/internal/errors"
	"github.com/fixlabs/compdbfix/internal/ui"
)

// runInit executes the 'init' CLI command, writing a default
// .compdbfix.yaml to the current directory.
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: compdbfix init [options]

Description:
  Write a default .compdbfix.yaml to the current directory. The file
  configures the recognized include-flag spellings and policy defaults;
  compdbfix runs fine without one.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		), globals.JSON)
	}

	path := filepath.Join(cwd, defaultConfigFile)
	if _, err := os.Stat(path); err == nil && !*force {
		errors.FatalError(errors.NewConfigError(
			"Configuration already exists",
			fmt.Sprintf("%s is already present", path),
			"Pass --force to overwrite it",
			nil,
		), globals.JSON)
	}

	if err := SaveConfig(DefaultConfig(), path); err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if !globals.Quiet {
		ui.Successf("Wrote %s", path)
	}
}
