// Copyright 2025 FixLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package rewrite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlabs/compdbfix/pkg/shellwords"
)

func mustSplit(t *testing.T, command string) []shellwords.Token {
	t.Helper()
	tokens, err := shellwords.Split(command)
	require.NoError(t, err)
	return tokens
}

func TestClassify_ConcatenatedForm(t *testing.T) {
	tokens := mustSplit(t, "gcc -I/usr/include -c foo.c")

	flags, err := Classify(tokens, DefaultTable())
	require.NoError(t, err)
	require.Len(t, flags, 1)

	assert.Equal(t, "-I", flags[0].Prefix)
	assert.Equal(t, "/usr/include", flags[0].Path)
	assert.Equal(t, 1, flags[0].Start)
	assert.Equal(t, 2, flags[0].End)
	assert.False(t, flags[0].Split())
}

func TestClassify_SplitForm(t *testing.T) {
	tokens := mustSplit(t, "gcc -I /usr/include -c foo.c")

	flags, err := Classify(tokens, DefaultTable())
	require.NoError(t, err)
	require.Len(t, flags, 1)

	assert.Equal(t, "/usr/include", flags[0].Path)
	assert.Equal(t, 1, flags[0].Start)
	assert.Equal(t, 3, flags[0].End)
	assert.True(t, flags[0].Split())
}

func TestClassify_SystemIncludeVariant(t *testing.T) {
	tokens := mustSplit(t, "gcc -isystem /opt/sys -I/usr/include -c foo.c")

	flags, err := Classify(tokens, DefaultTable())
	require.NoError(t, err)
	require.Len(t, flags, 2)
	assert.Equal(t, "-isystem", flags[0].Prefix)
	assert.Equal(t, "/opt/sys", flags[0].Path)
	assert.Equal(t, "-I", flags[1].Prefix)
}

func TestClassify_PrefixMidTokenIsNotAFlag(t *testing.T) {
	// The prefix string inside a value must never classify.
	tokens := mustSplit(t, "gcc -o build/-Iout.o -c foo-I.c -W-I")

	flags, err := Classify(tokens, DefaultTable())
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestClassify_BareTrailingFlagIsAmbiguous(t *testing.T) {
	tokens := mustSplit(t, "gcc -c foo.c -I")

	_, err := Classify(tokens, DefaultTable())
	var aerr *AmbiguousFlagError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "-I", aerr.Flag)
	assert.Equal(t, 3, aerr.Index)
}

func TestClassify_SplitFormConsumesNextToken(t *testing.T) {
	// The path token of a split flag is not itself re-examined, even
	// when it looks like a flag.
	tokens := mustSplit(t, "gcc -I -Ifoo -c foo.c")

	flags, err := Classify(tokens, DefaultTable())
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "-Ifoo", flags[0].Path)
}

func TestClassify_CustomTable(t *testing.T) {
	table := FlagTable{{Prefix: "/I"}}
	tokens := mustSplit(t, `cl.exe /Ic:/include /c foo.c`)

	flags, err := Classify(tokens, table)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "c:/include", flags[0].Path)
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	table := FlagTable{{Prefix: "-I"}, {Prefix: "-Isys"}}
	tokens := mustSplit(t, "gcc -Isys/path -c foo.c")

	flags, err := Classify(tokens, table)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "-Isys", flags[0].Prefix)
	assert.Equal(t, "/path", flags[0].Path)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/usr/include", "/usr/include"},
		{"/usr/include/", "/usr/include"},
		{"/usr/include///", "/usr/include"},
		{"/", "/"},
		{"rel/path/", "rel/path"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "NormalizePath(%q)", tt.in)
	}
}
