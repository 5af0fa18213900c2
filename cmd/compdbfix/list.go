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
	"sort"

	flag "github.com/spf13/pflag"

	"github.com/fixlabs/compdbfix/internal/errors"
	"github.com/fixlabs/compdbfix/internal/ui"
	"github.com/fixlabs/compdbfix/pkg/compdb"
	"github.com/fixlabs/compdbfix/pkg/rewrite"
)

// IncludeUsage aggregates one include directory across the database.
type IncludeUsage struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// ListResult is the 'list' command output for JSON mode.
type ListResult struct {
	Database string         `json:"database"`
	Entries  int            `json:"entries"`
	Skipped  int            `json:"skipped"`
	Includes []IncludeUsage `json:"includes"`
}

// runList executes the 'list' CLI command, aggregating the include
// directories referenced across the database.
//
// Paths are normalized (trailing slashes trimmed) before aggregation,
// so -I/usr/include and -I /usr/include/ count as one directory.
// Entries that fail to tokenize are skipped and counted, not fatal.
func runList(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	input := fs.StringP("input", "i", "", "Input compilation database (default: from config, else compile_commands.json)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: compdbfix list [options]

Description:
  Show every include directory referenced by the database and how many
  entries use it. Useful for spotting the wrong path before removing it.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  compdbfix list
  compdbfix list -i build/compile_commands.json
  compdbfix list --json | jq '.includes[].path'

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
	counts := make(map[string]int)
	skipped := 0

	for i := range db.Entries {
		entry := &db.Entries[i]
		tokens, err := rewrite.EntryTokens(entry)
		if err != nil {
			logDebug(globals, "skipping %s: %v", entry.File, err)
			skipped++
			continue
		}
		flags, err := rewrite.Classify(tokens, table)
		if err != nil {
			logDebug(globals, "skipping %s: %v", entry.File, err)
			skipped++
			continue
		}

		seen := make(map[string]bool)
		for _, f := range flags {
			path := rewrite.NormalizePath(f.Path)
			if !seen[path] {
				seen[path] = true
				counts[path]++
			}
		}
	}

	listResult := &ListResult{
		Database: inPath,
		Entries:  len(db.Entries),
		Skipped:  skipped,
	}
	for path, n := range counts {
		listResult.Includes = append(listResult.Includes, IncludeUsage{Path: path, Entries: n})
	}
	sort.Slice(listResult.Includes, func(i, j int) bool {
		a, b := listResult.Includes[i], listResult.Includes[j]
		if a.Entries != b.Entries {
			return a.Entries > b.Entries
		}
		return a.Path < b.Path
	})

	if globals.JSON {
		data, merr := json.MarshalIndent(listResult, "", "  ")
		if merr != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode result",
				"JSON marshaling failed unexpectedly",
				"This is a bug. Please report it",
				merr,
			), true)
		}
		fmt.Println(string(data))
		return
	}

	ui.Header("Include Directories")
	fmt.Printf("%s %s\n", ui.Label("Database:"), inPath)
	fmt.Printf("Entries: %s\n", ui.CountText(len(db.Entries)))
	if skipped > 0 {
		_, _ = ui.Yellow.Printf("Skipped: %d (run 'compdbfix check' for details)\n", skipped)
	}
	fmt.Println()

	if len(listResult.Includes) == 0 {
		ui.Infof("No include directories found.")
		return
	}
	for _, inc := range listResult.Includes {
		fmt.Printf("  %s  %s\n", ui.CountText(inc.Entries), inc.Path)
	}
}
