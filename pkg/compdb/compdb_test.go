// Copyright 2025 FixLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package compdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Array(t *testing.T) {
	data := []byte(`[
	  {"directory": "/build", "file": "foo.c", "command": "gcc -c foo.c"},
	  {"directory": "/build", "file": "bar.c", "arguments": ["gcc", "-c", "bar.c"]}
	]`)

	db, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, db.Entries, 2)

	assert.Equal(t, "/build", db.Entries[0].Directory)
	assert.Equal(t, "foo.c", db.Entries[0].File)
	assert.Equal(t, "gcc -c foo.c", db.Entries[0].Command)
	assert.False(t, db.Entries[0].UsesArguments)

	assert.Equal(t, []string{"gcc", "-c", "bar.c"}, db.Entries[1].Arguments)
	assert.True(t, db.Entries[1].UsesArguments)
}

func TestParse_BareObjectWrapped(t *testing.T) {
	db, err := Parse([]byte(`{"directory": "/b", "file": "f.c", "command": "cc -c f.c"}`))
	require.NoError(t, err)
	require.Len(t, db.Entries, 1)
	assert.Equal(t, "f.c", db.Entries[0].File)
}

func TestParse_RejectsScalars(t *testing.T) {
	_, err := Parse([]byte(`"not a database"`))
	assert.Error(t, err)

	_, err = Parse([]byte(``))
	assert.Error(t, err)
}

func TestEntry_ArgumentsWinOverCommand(t *testing.T) {
	db, err := Parse([]byte(`[{"directory": "/b", "file": "f.c",
	  "command": "stale", "arguments": ["gcc", "-c", "f.c"]}]`))
	require.NoError(t, err)

	entry := db.Entries[0]
	assert.True(t, entry.UsesArguments)
	assert.Empty(t, entry.Command)

	out, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"command"`)
	assert.Contains(t, string(out), `"arguments"`)
}

func TestEntry_ExtraFieldsPassThrough(t *testing.T) {
	in := []byte(`{"directory": "/b", "file": "f.c", "command": "cc -c f.c",
	  "output": "f.o", "custom": {"nested": [1, 2]}}`)

	var entry Entry
	require.NoError(t, json.Unmarshal(in, &entry))
	require.Contains(t, entry.Extra, "output")
	require.Contains(t, entry.Extra, "custom")

	out, err := json.Marshal(entry)
	require.NoError(t, err)

	var roundTripped map[string]any
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	assert.Equal(t, "f.o", roundTripped["output"])
	assert.Equal(t, map[string]any{"nested": []any{1.0, 2.0}}, roundTripped["custom"])
}

func TestEntry_FieldOrder(t *testing.T) {
	entry := Entry{
		Directory: "/b",
		File:      "f.c",
		Command:   "cc -c f.c",
		Extra: map[string]json.RawMessage{
			"output": json.RawMessage(`"f.o"`),
		},
	}

	out, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"directory":"/b","file":"f.c","command":"cc -c f.c","output":"f.o"}`, string(out))

	// directory first, command before passthrough fields
	s := string(out)
	assert.Less(t, strings.Index(s, `"directory"`), strings.Index(s, `"file"`))
	assert.Less(t, strings.Index(s, `"command"`), strings.Index(s, `"output"`))
}

func TestDatabase_SaveAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compile_commands.json")

	require.NoError(t, os.WriteFile(path, []byte(`[{"directory":"/b","file":"old.c","command":"cc -c old.c"}]`), 0o644))

	db := &Database{Entries: []Entry{
		{Directory: "/b", File: "new.c", Command: "cc -c new.c"},
	}}
	require.NoError(t, db.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "new.c", loaded.Entries[0].File)

	// No stray temp files left behind.
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDatabase_SavePreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")

	db := &Database{Entries: []Entry{
		{Directory: "/b", File: "c.c", Command: "cc -c c.c"},
		{Directory: "/b", File: "a.c", Command: "cc -c a.c"},
		{Directory: "/b", File: "b.c", Command: "cc -c b.c"},
	}}
	require.NoError(t, db.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 3)
	assert.Equal(t, "c.c", loaded.Entries[0].File)
	assert.Equal(t, "a.c", loaded.Entries[1].File)
	assert.Equal(t, "b.c", loaded.Entries[2].File)
}

func TestDatabase_MarshalEmpty(t *testing.T) {
	db := &Database{}
	out, err := db.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
