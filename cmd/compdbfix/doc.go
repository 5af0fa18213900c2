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

// Package main implements the compdbfix CLI.
//
// compdbfix edits clang-style compilation databases
// (compile_commands.json): it adds or removes include-directory flags
// and other compile arguments across every entry, using a shell-accurate
// tokenizer instead of string splicing, so quoting and unrelated flags
// are never corrupted.
//
// # Quick Start
//
// Add an include directory to every compilation unit:
//
//	compdbfix fix --add-include /opt/vendor/include
//
// Remove an include directory the build system got wrong:
//
//	compdbfix fix --remove-include "/opt/bad path"
//
// Preview without writing:
//
//	compdbfix fix --add-include /opt/inc --dry-run
//
// # Commands
//
//	fix      Apply add/remove operations to all entries
//	list     Show the include directories in use across the database
//	check    Verify every entry's command tokenizes cleanly
//	init     Write a default .compdbfix.yaml configuration
//	config   Show the effective configuration
//
// Global flags:
//
//	--json         Output in JSON format (for applicable commands)
//	--no-color     Disable color output (respects NO_COLOR env var)
//	-v, --verbose  Increase verbosity
//	-q, --quiet    Suppress non-essential output
//	-c, --config   Path to .compdbfix.yaml
//	-V, --version  Show version and exit
//
// # Configuration
//
// An optional .compdbfix.yaml in the current or a parent directory
// configures the recognized include-flag spellings and policy defaults.
// The defaults recognize -I and -isystem; adding another compiler's
// spelling (say MSVC's /I) is a config change, not a code change:
//
//	version: "1"
//	include_flags:
//	  - prefix: "-I"
//	  - prefix: "-isystem"
//	  - prefix: "/I"
//
// Environment variables:
//
//	COMPDBFIX_CONFIG_PATH  Explicit path to .compdbfix.yaml
//	COMPDBFIX_DATABASE     Default database path (overrides config)
//
// # Write Discipline
//
// Databases are rewritten atomically: the new content is staged to a
// temp file next to the target and renamed into place only after it is
// fully serialized. By default a run that hit per-entry errors aborts
// without writing; pass --best-effort to write the entries that did
// succeed and leave the failing ones untouched.
package main
