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

	"github.com/fixlabs/compdbfix/pkg/compdb"
	"github.com/fixlabs/compdbfix/pkg/shellwords"
)

// EntryError attaches a per-entry failure to the entry's source file so
// the report names the offending translation unit, not an internal
// index.
type EntryError struct {
	// File is the entry's source path.
	File string

	// Index is the entry's position in the database.
	Index int

	// Err is the underlying failure, typically a
	// *shellwords.MalformedCommandError or *AmbiguousFlagError.
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Result summarizes one database rewrite pass.
type Result struct {
	// Entries is the number of entries examined.
	Entries int

	// Modified is the number of entries whose argument vector changed.
	Modified int

	// Unchanged is the number of entries the operations left alone.
	Unchanged int

	// Errors holds the entries that could not be processed. Those
	// entries are left exactly as loaded.
	Errors []*EntryError
}

// Rewriter applies a fixed operation list to compilation entries.
type Rewriter struct {
	// Table drives include-flag recognition. Defaults to DefaultTable
	// when empty.
	Table FlagTable

	// Ops are applied in order to every entry.
	Ops []Op
}

func (r *Rewriter) table() FlagTable {
	if len(r.Table) == 0 {
		return DefaultTable()
	}
	return r.Table
}

// EntryTokens normalizes an entry to its token sequence: the arguments
// vector verbatim, or the tokenized command string.
func EntryTokens(entry *compdb.Entry) ([]shellwords.Token, error) {
	if entry.UsesArguments {
		return shellwords.FromValues(entry.Arguments), nil
	}
	return shellwords.Split(entry.Command)
}

// RewriteEntry applies the operations to one entry in place and reports
// whether its argument vector changed. The entry is written back in its
// original shape: arguments entries stay token vectors, command entries
// are re-serialized. An untouched entry keeps its original command
// string byte-for-byte, so requoting only ever happens to edited
// entries.
func (r *Rewriter) RewriteEntry(entry *compdb.Entry) (bool, error) {
	tokens, err := EntryTokens(entry)
	if err != nil {
		return false, err
	}

	edited, err := Apply(tokens, r.Ops, r.table())
	if err != nil {
		return false, err
	}

	if sameValues(tokens, edited) {
		return false, nil
	}

	if entry.UsesArguments {
		entry.Arguments = shellwords.Values(edited)
	} else {
		entry.Command = shellwords.Join(edited)
	}
	return true, nil
}

// RewriteDatabase runs the operations over every entry, collecting
// per-entry failures instead of aborting, so one malformed command does
// not block fixing the rest. Entry order is preserved. The optional
// progress callback fires after each entry.
func (r *Rewriter) RewriteDatabase(db *compdb.Database, progress func(done, total int)) *Result {
	result := &Result{Entries: len(db.Entries)}

	for i := range db.Entries {
		entry := &db.Entries[i]
		changed, err := r.RewriteEntry(entry)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, &EntryError{
				File:  entry.File,
				Index: i,
				Err:   err,
			})
		case changed:
			result.Modified++
		default:
			result.Unchanged++
		}

		if progress != nil {
			progress(i+1, len(db.Entries))
		}
	}
	return result
}

func sameValues(a, b []shellwords.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}
