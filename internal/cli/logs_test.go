package cli

import (
	"testing"
	"time"

	"github.com/mfenwick/vigil/internal/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePriority(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "empty is unfiltered", in: "", wantErr: false},
		{name: "severity name", in: "err", wantErr: false},
		{name: "lowest severity name", in: "debug", wantErr: false},
		{name: "highest severity name", in: "emerg", wantErr: false},
		{name: "numeric level", in: "3", wantErr: false},
		{name: "numeric level upper bound", in: "7", wantErr: false},
		{name: "unknown name", in: "verbose", wantErr: true},
		{name: "level out of range", in: "8", wantErr: true},
		{name: "negative level", in: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePriority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalQueryFromFlags(t *testing.T) {
	oldUnit, oldPriority := logsUnit, logsPriority
	oldBoot, oldLines := logsBoot, logsLines
	t.Cleanup(func() {
		logsUnit, logsPriority = oldUnit, oldPriority
		logsBoot, logsLines = oldBoot, oldLines
	})

	logsUnit = "nginx.service"
	logsPriority = "warning"
	logsBoot = "-1"
	logsLines = 50

	q := journalQueryFromFlags()
	assert.Equal(t, control.JournalQuery{
		Unit:     "nginx.service",
		Priority: "warning",
		Boot:     "-1",
		Lines:    50,
	}, q)
}

func TestJournalQueryFromFlags_Defaults(t *testing.T) {
	oldUnit, oldPriority := logsUnit, logsPriority
	oldBoot, oldLines := logsBoot, logsLines
	t.Cleanup(func() {
		logsUnit, logsPriority = oldUnit, oldPriority
		logsBoot, logsLines = oldBoot, oldLines
	})

	logsUnit, logsPriority, logsBoot, logsLines = "", "", "", 0

	// The zero query makes the controller fall back to the configured
	// line count and no filters.
	assert.Equal(t, control.JournalQuery{}, journalQueryFromFlags())
}

func TestFormatJournalEntry(t *testing.T) {
	entry := control.JournalEntry{
		Time:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Priority: "warning",
		Unit:     "nginx.service",
		Message:  "worker process exited on signal 9",
	}

	line := formatJournalEntry(entry)
	assert.Contains(t, line, "Mar 14 09:30:00")
	assert.Contains(t, line, "warning")
	assert.Contains(t, line, "nginx.service")
	assert.Contains(t, line, "worker process exited on signal 9")
}

func TestFormatJournalEntry_NoUnit(t *testing.T) {
	entry := control.JournalEntry{
		Time:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Priority: "info",
		Message:  "kernel: something happened",
	}

	line := formatJournalEntry(entry)
	require.Contains(t, line, "-", "missing unit should render as a dash")
	assert.Contains(t, line, "kernel: something happened")
}

func TestLogsCmd_FlagRegistration(t *testing.T) {
	for _, name := range []string{"unit", "priority", "boot", "lines", "json"} {
		assert.NotNil(t, logsCmd.Flags().Lookup(name), "flag %q", name)
	}
}
