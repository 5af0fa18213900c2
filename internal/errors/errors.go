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

// Package errors provides user-facing error types for the CLI.
//
// A UserError carries a title, a detail line, and an actionable
// suggestion, so fatal output tells the user what happened and what to
// do about it instead of dumping internal state.
package errors

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Kind categorizes a UserError.
type Kind string

const (
	KindConfig     Kind = "config"
	KindParse      Kind = "parse"
	KindIO         Kind = "io"
	KindPermission Kind = "permission"
	KindInternal   Kind = "internal"
)

// UserError is an error meant to be shown to the user.
type UserError struct {
	Kind       Kind
	Title      string
	Detail     string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError reports a configuration problem.
func NewConfigError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindConfig, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewParseError reports input the tool could not interpret, such as a
// database that is not valid JSON.
func NewParseError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindParse, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewIOError reports a failed read or write.
func NewIOError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindIO, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewPermissionError reports an access problem.
func NewPermissionError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindPermission, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewInternalError reports a bug.
func NewInternalError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindInternal, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// FatalError prints the error and exits with status 1. In JSON mode the
// error is emitted as a machine-readable object on stdout; otherwise a
// human-readable block goes to stderr.
func FatalError(err error, jsonOutput bool) {
	PrintError(err, jsonOutput)
	os.Exit(1)
}

// PrintError renders an error without exiting.
func PrintError(err error, jsonOutput bool) {
	uerr, ok := err.(*UserError)
	if !ok {
		uerr = &UserError{Kind: KindInternal, Title: "Unexpected error", Detail: err.Error()}
	}

	if jsonOutput {
		out := struct {
			Error struct {
				Kind       Kind   `json:"kind"`
				Title      string `json:"title"`
				Detail     string `json:"detail"`
				Suggestion string `json:"suggestion,omitempty"`
				Cause      string `json:"cause,omitempty"`
			} `json:"error"`
		}{}
		out.Error.Kind = uerr.Kind
		out.Error.Title = uerr.Title
		out.Error.Detail = uerr.Detail
		out.Error.Suggestion = uerr.Suggestion
		if uerr.Err != nil {
			out.Error.Cause = uerr.Err.Error()
		}
		data, merr := json.Marshal(out)
		if merr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(os.Stderr, "Error: %s\n", uerr.Title)
	if uerr.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", uerr.Detail)
	}
	if uerr.Err != nil {
		fmt.Fprintf(os.Stderr, "  Cause: %v\n", uerr.Err)
	}
	if uerr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", uerr.Suggestion)
	}
}
