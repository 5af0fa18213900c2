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

// Package compdb loads and saves clang-style compilation databases
// (compile_commands.json).
//
// Entries keep their on-disk shape: a "command" entry is written back as
// "command", an "arguments" entry as "arguments", and fields this tool
// does not understand (such as "output") pass through untouched. Saves
// are atomic: the new database is staged to a temp file in the target
// directory and renamed into place only after it is fully written.
package compdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one compilation unit from the database.
type Entry struct {
	// Directory is the working directory of the compilation.
	Directory string

	// File is the main translation unit source path.
	File string

	// Command is the raw shell-style compile command. Authoritative only
	// when UsesArguments is false.
	Command string

	// Arguments is the pre-tokenized argument vector. Authoritative only
	// when UsesArguments is true.
	Arguments []string

	// UsesArguments records which of Command/Arguments the on-disk entry
	// carried, so the entry is written back in its original shape.
	UsesArguments bool

	// Extra holds fields this tool does not interpret, keyed by JSON
	// field name, re-emitted verbatim on save.
	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes a database entry, splitting known fields from
// passthrough fields. When an entry carries both "command" and
// "arguments", arguments wins (clang's documented precedence) and the
// stale command string is dropped.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*e = Entry{}
	for key, raw := range fields {
		switch key {
		case "directory":
			if err := json.Unmarshal(raw, &e.Directory); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		case "file":
			if err := json.Unmarshal(raw, &e.File); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		case "command":
			if err := json.Unmarshal(raw, &e.Command); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		case "arguments":
			if err := json.Unmarshal(raw, &e.Arguments); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			e.UsesArguments = true
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[key] = raw
		}
	}

	if e.UsesArguments {
		e.Command = ""
	}
	return nil
}

// MarshalJSON encodes the entry with a stable field order: directory,
// file, then command or arguments, then passthrough fields sorted by
// name.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(name string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(val)
		return nil
	}

	if err := writeField("directory", e.Directory); err != nil {
		return nil, err
	}
	if err := writeField("file", e.File); err != nil {
		return nil, err
	}
	if e.UsesArguments {
		if err := writeField("arguments", e.Arguments); err != nil {
			return nil, err
		}
	} else {
		if err := writeField("command", e.Command); err != nil {
			return nil, err
		}
	}

	extraKeys := make([]string, 0, len(e.Extra))
	for key := range e.Extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		if err := writeField(key, e.Extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Database is an ordered sequence of compilation entries.
type Database struct {
	Entries []Entry
}

// Parse decodes a compilation database. The top level must be an array
// of entry objects; a bare entry object is accepted and wrapped in a
// one-element database.
func Parse(data []byte) (*Database, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty database")
	}

	switch trimmed[0] {
	case '[':
		var entries []Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		return &Database{Entries: entries}, nil
	case '{':
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, err
		}
		return &Database{Entries: []Entry{entry}}, nil
	default:
		return nil, fmt.Errorf("top-level value must be an array or object")
	}
}

// Load reads and parses the database at path.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user flags
	if err != nil {
		return nil, err
	}
	db, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return db, nil
}

// Marshal encodes the database as an indented JSON array. A database
// loaded from a bare object is still written as an array, matching what
// consumers of compile_commands.json expect.
func (db *Database) Marshal() ([]byte, error) {
	if db.Entries == nil {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(db.Entries, "", "  ")
}

// Save writes the database to path atomically. The content is staged to
// a temp file in the destination directory, synced, and renamed over the
// target, so a crash mid-write leaves the original file untouched.
func (db *Database) Save(path string) error {
	data, err := db.Marshal()
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".compdbfix-*.json")
	if err != nil {
		return fmt.Errorf("stage temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
