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

// Package rewrite classifies and edits include-directory flags in
// tokenized compiler command lines, and runs those edits over whole
// compilation databases.
package rewrite

import (
	"fmt"

	"github.com/fixlabs/compdbfix/pkg/shellwords"
)

// FlagSpec describes one include-flag spelling. Recognition is driven by
// this table rather than hard-coded conditionals, so a new compiler
// dialect is a data change.
type FlagSpec struct {
	// Prefix is the flag spelling, e.g. "-I" or "-isystem". Both the
	// concatenated form (prefix immediately followed by the path in one
	// token) and the split form (bare prefix token, then a path token)
	// are recognized.
	Prefix string `yaml:"prefix"`
}

// FlagTable is the ordered set of recognized include-flag spellings.
// The first entry is the canonical spelling used when a new flag is
// appended.
type FlagTable []FlagSpec

// DefaultTable recognizes the canonical include flag and the
// system-include variant that shares its path semantics.
func DefaultTable() FlagTable {
	return FlagTable{
		{Prefix: "-I"},
		{Prefix: "-isystem"},
	}
}

// Canonical returns the spelling used for appended flags.
func (t FlagTable) Canonical() string {
	if len(t) == 0 {
		return "-I"
	}
	return t[0].Prefix
}

// match returns the longest table prefix that token starts with, or ""
// when the token is not an include flag.
func (t FlagTable) match(token string) string {
	best := ""
	for _, spec := range t {
		if spec.Prefix == "" {
			continue
		}
		if len(spec.Prefix) <= len(best) {
			continue
		}
		if len(token) >= len(spec.Prefix) && token[:len(spec.Prefix)] == spec.Prefix {
			best = spec.Prefix
		}
	}
	return best
}

// IncludeFlag is a classified include-directory option occupying the
// token span [Start, End).
type IncludeFlag struct {
	// Prefix is the matched flag spelling.
	Prefix string

	// Path is the include directory value, without the prefix.
	Path string

	// Start and End delimit the token span: length 1 for the
	// concatenated form, 2 for the split form.
	Start, End int
}

// Split reports whether the flag uses the two-token form.
func (f IncludeFlag) Split() bool {
	return f.End-f.Start == 2
}

// AmbiguousFlagError reports an include flag the classifier cannot
// safely interpret: a bare prefix token with no path token after it.
type AmbiguousFlagError struct {
	// Flag is the offending token text.
	Flag string

	// Index is the token index of the flag.
	Index int
}

func (e *AmbiguousFlagError) Error() string {
	return fmt.Sprintf("ambiguous flag: %q at token %d has no path value", e.Flag, e.Index)
}

// Classify locates every include-directory flag in tokens.
//
// A token is a flag only when it starts with a table prefix: the
// concatenated form requires a non-empty remainder after the prefix, the
// split form takes the entire following token as the path. A prefix
// occurring mid-token is never a match. A bare prefix at the end of the
// sequence is an AmbiguousFlagError.
func Classify(tokens []shellwords.Token, table FlagTable) ([]IncludeFlag, error) {
	var flags []IncludeFlag
	for i := 0; i < len(tokens); i++ {
		prefix := table.match(tokens[i].Value)
		if prefix == "" {
			continue
		}

		if tokens[i].Value == prefix {
			// Split form: the path is the next token, whatever it is.
			if i+1 >= len(tokens) {
				return nil, &AmbiguousFlagError{Flag: prefix, Index: i}
			}
			flags = append(flags, IncludeFlag{
				Prefix: prefix,
				Path:   tokens[i+1].Value,
				Start:  i,
				End:    i + 2,
			})
			i++
			continue
		}

		flags = append(flags, IncludeFlag{
			Prefix: prefix,
			Path:   tokens[i].Value[len(prefix):],
			Start:  i,
			End:    i + 1,
		})
	}
	return flags, nil
}

// NormalizePath prepares an include path for equality comparison.
// Trailing separators are trimmed so "/usr/include/" matches
// "/usr/include". Comparison stays case-sensitive and does not resolve
// symlinks or relative paths; that simplification is deliberate.
func NormalizePath(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
