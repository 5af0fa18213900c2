// Copyright 2025 FixLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fixlabs/compdbfix/internal/errors"
	"github.com/fixlabs/compdbfix/internal/ui"
)

// runConfigCmd executes the 'config' CLI command, printing the effective
// configuration after defaults, file values, and environment overrides
// are merged.
func runConfigCmd(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: compdbfix config

Description:
  Show the effective configuration: built-in defaults merged with
  .compdbfix.yaml (if found) and environment overrides.

`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		type jsonFlag struct {
			Prefix string `json:"prefix"`
		}
		out := struct {
			Version      string       `json:"version"`
			Database     string       `json:"database"`
			IncludeFlags []jsonFlag   `json:"include_flags"`
			Policy       PolicyConfig `json:"policy"`
		}{
			Version:  cfg.Version,
			Database: cfg.DatabasePath(),
			Policy:   cfg.Policy,
		}
		for _, spec := range cfg.FlagTable() {
			out.IncludeFlags = append(out.IncludeFlags, jsonFlag{Prefix: spec.Prefix})
		}
		data, merr := json.MarshalIndent(out, "", "  ")
		if merr != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode configuration",
				"JSON marshaling failed unexpectedly",
				"This is a bug. Please report it",
				merr,
			), true)
		}
		fmt.Println(string(data))
		return
	}

	ui.Header("Effective Configuration")
	data, merr := yaml.Marshal(cfg)
	if merr != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug. Please report it",
			merr,
		), false)
	}
	fmt.Print(string(data))
}
