// Copyright 2025 FixLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/fixlabs/compdbfix/internal/ui"
)

// ProgressConfig controls whether progress bars are rendered.
type ProgressConfig struct {
	Enabled bool
}

// NewProgressConfig derives progress settings from the global flags.
// Bars are suppressed in quiet and JSON modes and when stderr is not a
// terminal, so machine output never gets corrupted.
func NewProgressConfig(globals GlobalFlags) ProgressConfig {
	return ProgressConfig{
		Enabled: !globals.Quiet && !globals.JSON && ui.IsTerminal(os.Stderr),
	}
}

// NewProgressBar creates a progress bar, or returns nil when progress is
// disabled. Callers must tolerate a nil bar.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}
