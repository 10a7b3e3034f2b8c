package config

import (
	"fmt"
	"path/filepath"

	"github.com/mfenwick/vigil/internal/errors"
)

// Normalize clamps numeric settings into their supported ranges and returns
// a note for each value that was adjusted. Callers surface the notes (the
// doctor warns about them); the config itself always ends up usable.
func (c *Config) Normalize() []string {
	var notes []string

	if c.RefreshMS < MinRefreshMS || c.RefreshMS > MaxRefreshMS {
		clamped := clampInt(c.RefreshMS, MinRefreshMS, MaxRefreshMS)
		notes = append(notes, fmt.Sprintf("refresh_ms %d clamped to %d", c.RefreshMS, clamped))
		c.RefreshMS = clamped
	}

	if c.History < MinHistory || c.History > MaxHistory {
		clamped := clampInt(c.History, MinHistory, MaxHistory)
		notes = append(notes, fmt.Sprintf("history %d clamped to %d", c.History, clamped))
		c.History = clamped
	}

	if c.JournalLines < MinJournalLines || c.JournalLines > MaxJournalLines {
		clamped := clampInt(c.JournalLines, MinJournalLines, MaxJournalLines)
		notes = append(notes, fmt.Sprintf("journal_lines %d clamped to %d", c.JournalLines, clamped))
		c.JournalLines = clamped
	}

	if c.GrubPath == "" {
		notes = append(notes, "grub_path empty, using "+DefaultGrubPath)
		c.GrubPath = DefaultGrubPath
	}

	return notes
}

// Validate checks settings that clamping cannot repair.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.GrubPath) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("grub_path must be absolute, got %q", c.GrubPath),
			"Use a full path like /etc/default/grub")
	}

	return nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
