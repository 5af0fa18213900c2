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
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/fixlabs/compdbfix/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags holds the global CLI flags that apply to all commands.
type GlobalFlags struct {
	JSON    bool // Output in JSON format (for applicable commands)
	NoColor bool // Disable color output
	Verbose int  // Verbosity level: 0=normal, 1=-v (info), 2=-vv (debug)
	Quiet   bool // Suppress non-essential output (progress, info messages)
}

// logInfo outputs an informational message to stderr if verbose mode is
// enabled. Messages are suppressed in quiet mode.
func logInfo(globals GlobalFlags, format string, args ...interface{}) {
	if !globals.Quiet && globals.Verbose >= 1 {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

// logDebug outputs a debug message to stderr if debug verbosity (-vv) is
// enabled. Debug messages are shown regardless of quiet mode.
func logDebug(globals GlobalFlags, format string, args ...interface{}) {
	if globals.Verbose >= 2 {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

func main() {
	// Global flags with short forms
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to .compdbfix.yaml (default: search upward from cwd)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output (progress, info messages)")
	)

	// Stop parsing at the first non-flag argument (the command name) so
	// subcommand flags like "fix --dry-run" reach the subcommand parser.
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `compdbfix - compilation database fixer

compdbfix edits clang-style compilation databases, inserting or removing
include-directory flags and compile arguments that build systems got
wrong. Commands are rewritten through a shell-accurate tokenizer, so
quoting and unrelated flags survive every edit.

Usage:
  compdbfix <command> [options]

Commands:
  fix       Apply add/remove operations to all entries
  list      Show include directories in use across the database
  check     Verify every entry's command tokenizes cleanly
  init      Write a default .compdbfix.yaml configuration
  config    Show the effective configuration

Global Options:
  --json            Output in JSON format (for applicable commands)
  --no-color        Disable color output (respects NO_COLOR env var)
  -v, --verbose     Increase verbosity (-v for info, -vv for debug)
  -q, --quiet       Suppress non-essential output
  -c, --config      Path to .compdbfix.yaml
  -V, --version     Show version and exit

Examples:
  compdbfix fix --add-include /opt/vendor/include
  compdbfix fix --remove-include "/opt/bad path" --dry-run
  compdbfix fix -i build/compile_commands.json -o fixed.json --add-arg -Wall
  compdbfix list --json
  compdbfix check

For detailed command help: compdbfix <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("compdbfix version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	// Check NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}

	// Validate conflicting flags
	if *quiet && *verbose > 0 {
		fmt.Fprintf(os.Stderr, "Error: cannot use --quiet and --verbose together\n")
		os.Exit(1)
	}

	// JSON mode auto-enables quiet to keep machine output clean
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{
		JSON:    *jsonOutput,
		NoColor: *noColor,
		Verbose: *verbose,
		Quiet:   *quiet,
	}

	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fix":
		runFix(cmdArgs, *configPath, globals)
	case "list":
		runList(cmdArgs, *configPath, globals)
	case "check":
		runCheck(cmdArgs, *configPath, globals)
	case "init":
		runInit(cmdArgs, globals)
	case "config":
		runConfigCmd(cmdArgs, *configPath, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
