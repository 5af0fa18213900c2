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

// Package ui provides colored terminal output helpers for the CLI.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Color styles shared by all commands.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Dim    = color.New(color.Faint)
	Bold   = color.New(color.Bold)
)

// InitColors enables or disables colored output. Colors are off when
// noColor is set or when stdout is not a terminal.
func InitColors(noColor bool) {
	if noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Header prints a bold section heading followed by an underline.
func Header(text string) {
	_, _ = Bold.Println(text)
	_, _ = Bold.Println(underline(len(text)))
}

// SubHeader prints a bold sub-heading.
func SubHeader(text string) {
	_, _ = Bold.Println(text)
}

// Label formats a field label.
func Label(text string) string {
	return Bold.Sprint(text)
}

// CountText formats a count for status output.
func CountText(n int) string {
	return Bold.Sprint(n)
}

// DimText formats secondary text.
func DimText(text string) string {
	return Dim.Sprint(text)
}

func underline(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '='
	}
	return string(out)
}

// Successf prints a green success line.
func Successf(format string, args ...any) {
	_, _ = Green.Printf(format+"\n", args...)
}

// Warnf prints a yellow warning line to stderr.
func Warnf(format string, args ...any) {
	_, _ = Yellow.Fprintf(os.Stderr, format+"\n", args...)
}

// Infof prints a plain informational line.
func Infof(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
