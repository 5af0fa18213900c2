// Copyright 2025 FixLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/fixlabs/compdbfix/internal/errors"
	"github.com/fixlabs/compdbfix/internal/ui"
	"github.com/fixlabs/compdbfix/pkg/compdb"
	"github.com/fixlabs/compdbfix/pkg/rewrite"
)

// CheckResult is the 'check' command output for JSON mode.
type CheckResult struct {
	Database string     `json:"database"`
	Entries  int        `json:"entries"`
	OK       int        `json:"ok"`
	Failed   int        `json:"failed"`
	Errors   []FixError `json:"errors,omitempty"`
}

// runCheck executes the 'check' CLI command, verifying that every
// entry's command tokenizes cleanly and its include flags classify
// unambiguously. Problems are reported with the entry's file and the
// byte offset or token index of the defect.
func runCheck(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	input := fs.StringP("input", "i", "", "Input compilation database (default: from config, else compile_commands.json)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: compdbfix check [options]

Description:
  Tokenize every entry of the database and classify its include flags
  without changing anything. Reports malformed commands (unterminated
  quotes, trailing escapes) and ambiguous flags (a bare -I with no path)
  that would make a fix run skip the entry.

  Exits 0 when every entry is clean, 1 otherwise.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  compdbfix check
  compdbfix check -i build/compile_commands.json --json

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	inPath := *input
	if inPath == "" {
		inPath = cfg.DatabasePath()
	}

	db, err := compdb.Load(inPath)
	if err != nil {
		errors.FatalError(loadError(inPath, err), globals.JSON)
	}

	table := cfg.FlagTable()
	checkResult := &CheckResult{Database: inPath, Entries: len(db.Entries)}

	for i := range db.Entries {
		entry := &db.Entries[i]
		tokens, err := rewrite.EntryTokens(entry)
		if err == nil {
			_, err = rewrite.Classify(tokens, table)
		}
		if err != nil {
			checkResult.Errors = append(checkResult.Errors, FixError{
				File:  entry.File,
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		checkResult.OK++
	}
	checkResult.Failed = len(checkResult.Errors)

	if globals.JSON {
		data, merr := json.MarshalIndent(checkResult, "", "  ")
		if merr != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode result",
				"JSON marshaling failed unexpectedly",
				"This is a bug. Please report it",
				merr,
			), true)
		}
		fmt.Println(string(data))
		if checkResult.Failed > 0 {
			os.Exit(1)
		}
		return
	}

	ui.Header("Database Check")
	fmt.Printf("%s %s\n", ui.Label("Database:"), inPath)
	fmt.Printf("Entries: %s\n", ui.CountText(checkResult.Entries))
	fmt.Printf("OK: %s\n", ui.CountText(checkResult.OK))

	if checkResult.Failed > 0 {
		fmt.Println()
		ui.SubHeader("Problems:")
		for _, e := range checkResult.Errors {
			_, _ = ui.Yellow.Printf("  %s: %s\n", e.File, e.Error)
		}
		fmt.Println()
		_, _ = ui.Red.Printf("%d of %d entries have problems.\n", checkResult.Failed, checkResult.Entries)
		os.Exit(1)
	}

	fmt.Println()
	ui.Successf("All entries tokenize cleanly.")
}
