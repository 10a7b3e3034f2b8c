package control

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
)

const journalFixture = `{"__REALTIME_TIMESTAMP":"1692624000000000","PRIORITY":"6","_SYSTEMD_UNIT":"cron.service","MESSAGE":"job started"}
{"__REALTIME_TIMESTAMP":"1692624001000000","PRIORITY":"3","_SYSTEMD_UNIT":"nginx.service","MESSAGE":"worker exited"}
{"__REALTIME_TIMESTAMP":"1692624002000000","PRIORITY":"4","SYSLOG_IDENTIFIER":"kernel","MESSAGE":"thermal throttling"}
{"__REALTIME_TIMESTAMP":"1692624003000000","PRIORITY":"6","_SYSTEMD_UNIT":"app.service","MESSAGE":[104,101,108,108,111]}
this line is not json
`

func TestJournalParsesEntries(t *testing.T) {
	c, runner := newTestController(t, readOnlyGate())
	runner.Respond("journalctl", exec.Result{Stdout: journalFixture})

	entries, err := c.Journal(context.Background(), JournalQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	first := entries[0]
	assert.Equal(t, time.UnixMicro(1692624000000000), first.Time)
	assert.Equal(t, "info", first.Priority)
	assert.Equal(t, "cron.service", first.Unit)
	assert.Equal(t, "job started", first.Message)

	assert.Equal(t, "err", entries[1].Priority)

	// No _SYSTEMD_UNIT: falls back to the syslog identifier
	assert.Equal(t, "kernel", entries[2].Unit)
	assert.Equal(t, "warning", entries[2].Priority)

	// Non-UTF8 payloads arrive as byte arrays
	assert.Equal(t, "hello", entries[3].Message)
}

func TestJournalDefaultsConfiguredLines(t *testing.T) {
	c, runner := newTestController(t, readOnlyGate())

	_, err := c.Journal(context.Background(), JournalQuery{})
	require.NoError(t, err)

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "journalctl --output=json --no-pager -n 100", runner.Calls[0].Command())
}

func TestJournalBuildsFilterArgs(t *testing.T) {
	c, runner := newTestController(t, readOnlyGate())

	_, err := c.Journal(context.Background(), JournalQuery{
		Unit:     "nginx.service",
		Priority: "err",
		Boot:     "-1",
		Lines:    50,
	})
	require.NoError(t, err)

	require.Len(t, runner.Calls, 1)
	assert.Equal(t,
		"journalctl --output=json --no-pager -n 50 -u nginx.service -p err -b -1",
		runner.Calls[0].Command())
}

func TestJournalEmptyOutput(t *testing.T) {
	c, runner := newTestController(t, readOnlyGate())
	runner.Respond("journalctl", exec.Result{Stdout: ""})

	entries, err := c.Journal(context.Background(), JournalQuery{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalCommandFailure(t *testing.T) {
	c, runner := newTestController(t, readOnlyGate())
	runner.Respond("journalctl", exec.Result{ExitCode: 1, Stderr: "Failed to open journal"})

	_, err := c.Journal(context.Background(), JournalQuery{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExternal))
}

func TestPriorityLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "emerg"},
		{"2", "crit"},
		{"3", "err"},
		{"4", "warning"},
		{"6", "info"},
		{"7", "debug"},
		{"", ""},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, priorityLabel(tt.in))
	}
}

func TestBootsJSON(t *testing.T) {
	c, runner := newTestController(t, readOnlyGate())
	runner.Respond("journalctl --list-boots --output=json", exec.Result{
		Stdout: `[{"index":-1,"boot_id":"aaa111","first_entry":1692500000000000,"last_entry":1692550000000000},
		          {"index":0,"boot_id":"bbb222","first_entry":1692600000000000,"last_entry":1692650000000000}]`,
	})

	boots, err := c.Boots(context.Background())
	require.NoError(t, err)
	require.Len(t, boots, 2)

	// Current boot first
	assert.Equal(t, 0, boots[0].Index)
	assert.Equal(t, "bbb222", boots[0].ID)
	assert.Equal(t, time.UnixMicro(1692600000000000), boots[0].First)
	assert.Equal(t, -1, boots[1].Index)
}

func TestBootsTableFallback(t *testing.T) {
	table := `IDX BOOT ID                          FIRST ENTRY                 LAST ENTRY
 -1 aaa111bbb222ccc333ddd444eee555ff Thu 2023-08-17 09:21:02 UTC Thu 2023-08-17 17:00:11 UTC
  0 bbb222ccc333ddd444eee555fff666aa Fri 2023-08-18 08:00:00 UTC Fri 2023-08-18 09:30:00 UTC
`
	c, runner := newTestController(t, readOnlyGate())
	// Old journalctl ignores --output=json for --list-boots
	runner.Respond("journalctl --list-boots --output=json", exec.Result{Stdout: table})
	runner.Respond("journalctl --list-boots --no-pager", exec.Result{Stdout: table})

	boots, err := c.Boots(context.Background())
	require.NoError(t, err)
	require.Len(t, boots, 2)

	assert.Equal(t, 0, boots[0].Index)
	assert.Equal(t, "bbb222ccc333ddd444eee555fff666aa", boots[0].ID)
	assert.Equal(t, 2023, boots[0].First.Year())
	assert.Equal(t, -1, boots[1].Index)
	assert.False(t, boots[1].Last.IsZero())
}

func TestParseBootsTableSkipsHeader(t *testing.T) {
	boots := parseBootsTable("IDX BOOT ID FIRST ENTRY LAST ENTRY\n")
	assert.Empty(t, boots)
}
