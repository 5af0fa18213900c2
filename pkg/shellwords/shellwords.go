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

// Package shellwords splits compiler command strings into argument tokens
// and joins tokens back into command strings.
//
// It implements the POSIX word-splitting subset that matters for compiler
// argument vectors: whitespace separation, single quotes, double quotes
// with backslash escapes for '"' and '\', and bare backslash escapes.
// It deliberately does not implement pipes, redirects, globbing, or
// variable expansion.
//
// The two halves are inverses: for any token sequence T produced by Split,
// Split(Join(T)) yields tokens with identical values.
package shellwords

import (
	"fmt"
	"strings"
)

// Token is one shell word extracted from a command string.
type Token struct {
	// Value is the literal argument text after quote and escape removal.
	Value string

	// Quoted records whether the original spelling used quoting or
	// escaping. It is a serialization hint only: Join keeps such tokens
	// quoted even when their value would be safe bare.
	Quoted bool
}

// MalformedCommandError reports a command string that cannot be split:
// an unterminated quote or a trailing backslash escape.
type MalformedCommandError struct {
	// Offset is the byte offset of the construct left open.
	Offset int

	// Reason describes what was left open.
	Reason string
}

func (e *MalformedCommandError) Error() string {
	return fmt.Sprintf("malformed command: %s at byte %d", e.Reason, e.Offset)
}

// Split tokenizes a command string into shell words.
//
// An empty or all-whitespace command yields a nil token slice, not an
// error. Unterminated quotes and trailing escapes return a
// *MalformedCommandError carrying the byte offset of the open construct;
// Split never guesses closure.
func Split(command string) ([]Token, error) {
	var (
		tokens []Token
		buf    strings.Builder
		inWord bool
		quoted bool

		quote      byte // active quote character, 0 when outside quotes
		quoteStart int  // offset of the opening quote
		escaped    bool // bare backslash pending outside quotes
		escStart   int  // offset of the pending backslash
	)

	flush := func() {
		if !inWord {
			return
		}
		tokens = append(tokens, Token{Value: buf.String(), Quoted: quoted})
		buf.Reset()
		inWord = false
		quoted = false
	}

	for i := 0; i < len(command); i++ {
		c := command[i]

		switch {
		case escaped:
			// A bare backslash makes the next character literal,
			// including whitespace.
			buf.WriteByte(c)
			inWord = true
			quoted = true
			escaped = false

		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				buf.WriteByte(c)
			}

		case quote == '"':
			switch c {
			case '\\':
				// Inside double quotes a backslash escapes only
				// '"' and '\'; anything else keeps the backslash.
				if i+1 < len(command) && (command[i+1] == '"' || command[i+1] == '\\') {
					buf.WriteByte(command[i+1])
					i++
				} else {
					buf.WriteByte('\\')
				}
			case '"':
				quote = 0
			default:
				buf.WriteByte(c)
			}

		case c == '\\':
			escaped = true
			escStart = i

		case c == '\'' || c == '"':
			quote = c
			quoteStart = i
			inWord = true
			quoted = true

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()

		default:
			buf.WriteByte(c)
			inWord = true
		}
	}

	if escaped {
		return nil, &MalformedCommandError{Offset: escStart, Reason: "trailing backslash escape"}
	}
	if quote != 0 {
		return nil, &MalformedCommandError{Offset: quoteStart, Reason: fmt.Sprintf("unterminated %c quote", quote)}
	}

	flush()
	return tokens, nil
}

// Values returns just the token values, in order.
func Values(tokens []Token) []string {
	if tokens == nil {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}

// FromValues wraps plain argument strings as unquoted tokens.
func FromValues(args []string) []Token {
	if args == nil {
		return nil
	}
	tokens := make([]Token, len(args))
	for i, a := range args {
		tokens[i] = Token{Value: a}
	}
	return tokens
}

// Join renders tokens into a single command string that Split would
// tokenize back to the same values. Tokens are joined with one space.
func Join(tokens []Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.Quoted {
			b.WriteString(quoteAlways(t.Value))
		} else {
			b.WriteString(Quote(t.Value))
		}
	}
	return b.String()
}

// Quote returns a shell-safe spelling of a single word. Words made only
// of safe characters pass through bare; everything else is wrapped in
// single quotes with embedded single quotes spelled as '\''.
func Quote(word string) string {
	if word == "" {
		return "''"
	}
	safe := true
	for i := 0; i < len(word); i++ {
		if !isSafeByte(word[i]) {
			safe = false
			break
		}
	}
	if safe {
		return word
	}
	return quoteAlways(word)
}

func quoteAlways(word string) string {
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}

// isSafeByte reports whether b never needs quoting in a word. The set is
// conservative: anything the shell could treat specially is unsafe.
func isSafeByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '/', '_', '-', '.', ',', ':', '=', '+', '@', '%':
		return true
	}
	return false
}
