// Copyright 2025 FixLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package shellwords

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Basic(t *testing.T) {
	tokens, err := Split("gcc -c foo.c -Wall")
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-c", "foo.c", "-Wall"}, Values(tokens))
}

func TestSplit_CollapsesWhitespace(t *testing.T) {
	tokens, err := Split("  gcc \t -c\t\tfoo.c  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-c", "foo.c"}, Values(tokens))
}

func TestSplit_Empty(t *testing.T) {
	tokens, err := Split("")
	require.NoError(t, err)
	assert.Nil(t, tokens)

	tokens, err = Split("   \t ")
	require.NoError(t, err)
	assert.Nil(t, tokens)
}

func TestSplit_SingleQuotes(t *testing.T) {
	tokens, err := Split(`gcc -I '/opt/bad path' -c foo.c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-I", "/opt/bad path", "-c", "foo.c"}, Values(tokens))
	assert.True(t, tokens[2].Quoted)
	assert.False(t, tokens[0].Quoted)
}

func TestSplit_SingleQuotesAreLiteral(t *testing.T) {
	// No escape processing inside single quotes.
	tokens, err := Split(`echo '\n\"$HOME'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", `\n\"$HOME`}, Values(tokens))
}

func TestSplit_DoubleQuotes(t *testing.T) {
	tokens, err := Split(`gcc -I "/opt/bad path" -c foo.c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-I", "/opt/bad path", "-c", "foo.c"}, Values(tokens))
}

func TestSplit_DoubleQuoteEscapes(t *testing.T) {
	// Backslash escapes '"' and '\' inside double quotes.
	tokens, err := Split(`gcc "-DMSG=\"hi\"" "a\\b"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", `-DMSG="hi"`, `a\b`}, Values(tokens))
}

func TestSplit_DoubleQuoteBackslashPassthrough(t *testing.T) {
	// Other backslash sequences keep the backslash literally.
	tokens, err := Split(`gcc "a\nb"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", `a\nb`}, Values(tokens))
}

func TestSplit_BareEscape(t *testing.T) {
	tokens, err := Split(`gcc -I /opt/bad\ path -c foo.c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-I", "/opt/bad path", "-c", "foo.c"}, Values(tokens))
	assert.True(t, tokens[2].Quoted)
}

func TestSplit_EmptyQuotedWord(t *testing.T) {
	tokens, err := Split(`gcc '' -c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "", "-c"}, Values(tokens))
	assert.True(t, tokens[1].Quoted)
}

func TestSplit_AdjacentQuotedSpans(t *testing.T) {
	tokens, err := Split(`gcc -I'/opt/a'"/b c"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-I/opt/a/b c"}, Values(tokens))
}

func TestSplit_UnterminatedSingleQuote(t *testing.T) {
	_, err := Split(`gcc -c 'foo.c`)
	var merr *MalformedCommandError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 7, merr.Offset)
}

func TestSplit_UnterminatedDoubleQuote(t *testing.T) {
	_, err := Split(`gcc -c "foo.c`)
	var merr *MalformedCommandError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 7, merr.Offset)
	assert.Contains(t, merr.Error(), "byte 7")
}

func TestSplit_TrailingEscape(t *testing.T) {
	_, err := Split(`gcc -c foo.c \`)
	var merr *MalformedCommandError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 13, merr.Offset)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo", "foo"},
		{"-I/usr/include", "-I/usr/include"},
		{"", "''"},
		{"a b", "'a b'"},
		{"it's", `'it'\''s'`},
		{"$HOME", "'$HOME'"},
		{"a;b", "'a;b'"},
		{"a*b", "'a*b'"},
		{"~user", "'~user'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in), "Quote(%q)", tt.in)
	}
}

func TestJoin_PreservesQuotedHint(t *testing.T) {
	// A token that was quoted in the source stays quoted even though its
	// value would be safe bare.
	tokens, err := Split(`gcc '/opt/plain' -c`)
	require.NoError(t, err)
	assert.Equal(t, `gcc '/opt/plain' -c`, Join(tokens))
}

func TestRoundTrip(t *testing.T) {
	commands := []string{
		"gcc -c foo.c -Wall",
		`gcc -I "/opt/bad path" -c foo.c`,
		`clang++ -std=c++17 -DNAME='weird value' -o out.o -c 'in put.cc'`,
		`cc -DMSG="\"quoted\"" -I/usr/include -c f.c`,
		`gcc '' -c f.c`,
		`gcc -I /a\ b -c f.c`,
	}
	for _, cmd := range commands {
		tokens, err := Split(cmd)
		require.NoError(t, err, "Split(%q)", cmd)

		again, err := Split(Join(tokens))
		require.NoError(t, err, "re-Split of %q", Join(tokens))
		assert.Equal(t, Values(tokens), Values(again), "round trip of %q", cmd)
	}
}

func TestRoundTrip_ArbitraryTokens(t *testing.T) {
	// Token sequences that never came from Split must still survive
	// Join → Split, including hostile values.
	sequences := [][]Token{
		FromValues([]string{"gcc", "-c", "foo.c"}),
		FromValues([]string{"a b", "c\td", "e'f", `g"h`, "", `i\j`}),
		FromValues([]string{"$(rm -rf /)", "`boom`", "a|b&c;d", "*", "?"}),
		FromValues([]string{"'", "''", `'\''`}),
	}
	for _, tokens := range sequences {
		again, err := Split(Join(tokens))
		require.NoError(t, err, "Join produced %q", Join(tokens))
		assert.Equal(t, Values(tokens), Values(again))
	}
}
