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

package rewrite

import (
	"fmt"

	"github.com/fixlabs/compdbfix/pkg/shellwords"
)

// OpKind enumerates the edit operations.
type OpKind int

const (
	// AddInclude appends an include directory unless an equivalent one
	// is already present.
	AddInclude OpKind = iota

	// RemoveInclude removes every include flag whose path matches.
	RemoveInclude

	// AddArg appends a literal argument token unless already present.
	AddArg

	// RemoveArg removes every token equal to the literal argument.
	RemoveArg
)

func (k OpKind) String() string {
	switch k {
	case AddInclude:
		return "add-include"
	case RemoveInclude:
		return "remove-include"
	case AddArg:
		return "add-arg"
	case RemoveArg:
		return "remove-arg"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is one edit operation against a token sequence.
type Op struct {
	Kind  OpKind
	Value string
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s", o.Kind, o.Value)
}

// Apply runs ops in order, each on the result of the previous, and
// returns the resulting token sequence. The input slice is never
// modified. Apart from the spans it adds or removes, token order is
// preserved exactly.
func Apply(tokens []shellwords.Token, ops []Op, table FlagTable) ([]shellwords.Token, error) {
	out := make([]shellwords.Token, len(tokens))
	copy(out, tokens)

	var err error
	for _, op := range ops {
		out, err = applyOne(out, op, table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.Kind, err)
		}
	}
	return out, nil
}

func applyOne(tokens []shellwords.Token, op Op, table FlagTable) ([]shellwords.Token, error) {
	switch op.Kind {
	case AddInclude:
		return addInclude(tokens, op.Value, table)
	case RemoveInclude:
		return removeInclude(tokens, op.Value, table)
	case AddArg:
		return addArg(tokens, op.Value), nil
	case RemoveArg:
		return removeArg(tokens, op.Value), nil
	default:
		return nil, fmt.Errorf("unknown operation kind %d", int(op.Kind))
	}
}

// addInclude appends the path in split form ("-I" "path") at the end of
// the sequence. Appending rather than inserting means the relative order
// of pre-existing flags is never disturbed. The add is idempotent: an
// existing flag with a normalized-equal path, in either form, leaves the
// sequence unchanged.
func addInclude(tokens []shellwords.Token, path string, table FlagTable) ([]shellwords.Token, error) {
	flags, err := Classify(tokens, table)
	if err != nil {
		return nil, err
	}

	want := NormalizePath(path)
	for _, f := range flags {
		if NormalizePath(f.Path) == want {
			return tokens, nil
		}
	}

	return append(tokens,
		shellwords.Token{Value: table.Canonical()},
		shellwords.Token{Value: path},
	), nil
}

// removeInclude deletes every include-flag span whose path matches under
// normalization. An absent path is a no-op, not an error.
func removeInclude(tokens []shellwords.Token, path string, table FlagTable) ([]shellwords.Token, error) {
	flags, err := Classify(tokens, table)
	if err != nil {
		return nil, err
	}

	want := NormalizePath(path)
	drop := make(map[int]bool)
	for _, f := range flags {
		if NormalizePath(f.Path) != want {
			continue
		}
		for i := f.Start; i < f.End; i++ {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return tokens, nil
	}

	out := tokens[:0:0]
	for i, t := range tokens {
		if !drop[i] {
			out = append(out, t)
		}
	}
	return out, nil
}

func addArg(tokens []shellwords.Token, arg string) []shellwords.Token {
	for _, t := range tokens {
		if t.Value == arg {
			return tokens
		}
	}
	return append(tokens, shellwords.Token{Value: arg})
}

// removeArg drops exact-match tokens. The first token is the compiler
// itself and is never removed.
func removeArg(tokens []shellwords.Token, arg string) []shellwords.Token {
	out := tokens[:0:0]
	for i, t := range tokens {
		if i > 0 && t.Value == arg {
			continue
		}
		out = append(out, t)
	}
	return out
}
