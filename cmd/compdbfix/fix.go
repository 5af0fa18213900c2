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

// FixError is one per-entry failure, for JSON output.
type FixError struct {
	File  string `json:"file"`
	Index int    `json:"index"`
	Error string `json:"error"`
}

// FixResult summarizes a fix run, for JSON output.
type FixResult struct {
	Database  string     `json:"database"`
	Output    string     `json:"output"`
	Entries   int        `json:"entries"`
	Modified  int        `json:"modified"`
	Unchanged int        `json:"unchanged"`
	Failed    int        `json:"failed"`
	DryRun    bool       `json:"dry_run"`
	Written   bool       `json:"written"`
	Errors    []FixError `json:"errors,omitempty"`
}

// runFix executes the 'fix' CLI command, applying add/remove operations
// to every entry of a compilation database.
//
// Operations apply in a fixed order: added includes, removed includes,
// added arguments, removed arguments. Adds are idempotent and removes of
// absent values are no-ops, so re-running a fix is always safe.
//
// By default the run is all-or-nothing: if any entry fails (malformed
// command, ambiguous flag), nothing is written. --best-effort writes the
// entries that succeeded and leaves failing entries byte-for-byte as
// they were.
func runFix(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("fix", flag.ExitOnError)
	input := fs.StringP("input", "i", "", "Input compilation database (default: from config, else compile_commands.json)")
	output := fs.StringP("output", "o", "", "Output path (default: rewrite the input in place)")
	addIncludes := fs.StringArray("add-include", nil, "Include directory to add to every entry (repeatable)")
	removeIncludes := fs.StringArray("remove-include", nil, "Include directory to remove from every entry (repeatable)")
	addArgs := fs.StringArray("add-arg", nil, "Compile argument to add to every entry (repeatable)")
	removeArgs := fs.StringArray("remove-arg", nil, "Compile argument to remove from every entry (repeatable)")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	bestEffort := fs.Bool("best-effort", false, "Write entries that succeeded even if others failed")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: compdbfix fix [options]

Description:
  Apply include-directory and argument edits to every entry of a
  compilation database. Each entry's command string is tokenized with
  shell quoting rules, edited at the token level, and re-serialized, so
  paths with spaces and unrelated flags come through intact.

  Adding an include that an entry already has (in either -Ipath or
  -I path form, trailing slashes ignored) changes nothing. Removing an
  include or argument that is absent is a no-op, not an error.

  The output is written atomically: the original database is replaced
  only after the new content is fully serialized.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Add a vendor include directory to all entries, in place
  compdbfix fix --add-include /opt/vendor/include

  # Remove a bad include path, even one with spaces
  compdbfix fix --remove-include "/opt/bad path"

  # Several edits in one pass, writing to a new file
  compdbfix fix -i build/compile_commands.json -o fixed.json \
      --add-include /opt/inc --remove-arg -Werror

  # Preview without writing
  compdbfix fix --add-include /opt/inc --dry-run

  # Keep going past malformed entries
  compdbfix fix --remove-include /bad --best-effort

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ops := buildOps(*addIncludes, *removeIncludes, *addArgs, *removeArgs)
	if len(ops) == 0 {
		if !globals.Quiet {
			ui.Infof("No modifications requested, exiting.")
		}
		return
	}

	inPath := *input
	if inPath == "" {
		inPath = cfg.DatabasePath()
	}
	outPath := *output
	if outPath == "" {
		outPath = inPath
	}

	logInfo(globals, "loading %s", inPath)
	db, err := compdb.Load(inPath)
	if err != nil {
		errors.FatalError(loadError(inPath, err), globals.JSON)
	}
	logDebug(globals, "loaded %d entries", len(db.Entries))

	rewriter := &rewrite.Rewriter{Table: cfg.FlagTable(), Ops: ops}

	progressCfg := NewProgressConfig(globals)
	bar := NewProgressBar(progressCfg, int64(len(db.Entries)), "Rewriting entries")

	result := rewriter.RewriteDatabase(db, func(done, total int) {
		if bar != nil {
			_ = bar.Set64(int64(done))
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}

	useBestEffort := *bestEffort || cfg.Policy.BestEffort
	abort := len(result.Errors) > 0 && !useBestEffort

	// An in-place run with nothing modified skips the write entirely; an
	// explicit -o always produces its output file.
	written := false
	if !*dryRun && !abort && (result.Modified > 0 || outPath != inPath) {
		if err := db.Save(outPath); err != nil {
			errors.FatalError(errors.NewIOError(
				"Cannot write database",
				fmt.Sprintf("Failed to replace %s", outPath),
				"Check directory permissions and disk space",
				err,
			), globals.JSON)
		}
		written = true
	}

	fixResult := &FixResult{
		Database:  inPath,
		Output:    outPath,
		Entries:   result.Entries,
		Modified:  result.Modified,
		Unchanged: result.Unchanged,
		Failed:    len(result.Errors),
		DryRun:    *dryRun,
		Written:   written,
	}
	for _, e := range result.Errors {
		fixResult.Errors = append(fixResult.Errors, FixError{
			File:  e.File,
			Index: e.Index,
			Error: e.Err.Error(),
		})
	}

	if globals.JSON {
		data, merr := json.MarshalIndent(fixResult, "", "  ")
		if merr != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode result",
				"JSON marshaling failed unexpectedly",
				"This is a bug. Please report it",
				merr,
			), true)
		}
		fmt.Println(string(data))
		if abort {
			os.Exit(1)
		}
		return
	}

	printFixResult(fixResult, result, abort)
	if abort {
		os.Exit(1)
	}
}

// buildOps assembles the operation list in the documented order.
func buildOps(addIncludes, removeIncludes, addArgs, removeArgs []string) []rewrite.Op {
	var ops []rewrite.Op
	for _, p := range addIncludes {
		ops = append(ops, rewrite.Op{Kind: rewrite.AddInclude, Value: p})
	}
	for _, p := range removeIncludes {
		ops = append(ops, rewrite.Op{Kind: rewrite.RemoveInclude, Value: p})
	}
	for _, a := range addArgs {
		ops = append(ops, rewrite.Op{Kind: rewrite.AddArg, Value: a})
	}
	for _, a := range removeArgs {
		ops = append(ops, rewrite.Op{Kind: rewrite.RemoveArg, Value: a})
	}
	return ops
}

// loadError maps a database load failure to a user-facing error.
func loadError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.NewIOError(
			"Compilation database not found",
			fmt.Sprintf("%s does not exist", path),
			"Point -i at your compile_commands.json, or generate one (e.g. cmake -DCMAKE_EXPORT_COMPILE_COMMANDS=ON)",
			err,
		)
	}
	return errors.NewParseError(
		"Cannot parse compilation database",
		fmt.Sprintf("%s is not a valid compilation database", path),
		"The file must be a JSON array of entry objects",
		err,
	)
}

func printFixResult(fixResult *FixResult, result *rewrite.Result, abort bool) {
	fmt.Println()
	if fixResult.DryRun {
		ui.Header("Dry Run")
	} else {
		ui.Header("Fix Complete")
	}
	fmt.Printf("%s %s\n", ui.Label("Database:"), fixResult.Database)
	if fixResult.Output != fixResult.Database {
		fmt.Printf("%s %s\n", ui.Label("Output:"), fixResult.Output)
	}
	fmt.Printf("Entries: %s\n", ui.CountText(fixResult.Entries))
	fmt.Printf("Modified: %s\n", ui.CountText(fixResult.Modified))
	fmt.Printf("Unchanged: %s\n", ui.CountText(fixResult.Unchanged))

	if len(result.Errors) > 0 {
		fmt.Println()
		ui.SubHeader("Failed Entries:")
		for _, e := range result.Errors {
			_, _ = ui.Yellow.Printf("  %s: %v\n", e.File, e.Err)
		}
	}

	fmt.Println()
	switch {
	case abort:
		_, _ = ui.Red.Println("Aborted: nothing was written. Fix the entries above or pass --best-effort.")
	case fixResult.DryRun:
		ui.Infof("Dry run: nothing was written.")
	case !fixResult.Written:
		ui.Infof("No entries needed changes; database left untouched.")
	default:
		ui.Successf("Wrote %s", fixResult.Output)
	}
}
