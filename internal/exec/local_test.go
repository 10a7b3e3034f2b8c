package exec

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenwick/vigil/internal/errors"
)

func skipIfWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestLocalRunner_Run(t *testing.T) {
	skipIfWindows(t)

	tests := []struct {
		name       string
		cmd        string
		args       []string
		wantOut    string
		wantCode   int
		wantStderr string
	}{
		{
			name:     "captures stdout",
			cmd:      "sh",
			args:     []string{"-c", "echo hello"},
			wantOut:  "hello\n",
			wantCode: 0,
		},
		{
			name:     "non-zero exit is not an error",
			cmd:      "sh",
			args:     []string{"-c", "exit 3"},
			wantCode: 3,
		},
		{
			name:       "captures stderr separately",
			cmd:        "sh",
			args:       []string{"-c", "echo out; echo err >&2"},
			wantOut:    "out\n",
			wantStderr: "err\n",
			wantCode:   0,
		},
		{
			name:     "arguments are not shell-interpreted",
			cmd:      "echo",
			args:     []string{"$HOME"},
			wantOut:  "$HOME\n",
			wantCode: 0,
		},
	}

	r := NewLocalRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Run(context.Background(), tt.cmd, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, res.Stdout)
			assert.Equal(t, tt.wantCode, res.ExitCode)
			if tt.wantStderr != "" {
				assert.Equal(t, tt.wantStderr, res.Stderr)
			}
		})
	}
}

func TestLocalRunner_RunInput(t *testing.T) {
	skipIfWindows(t)

	r := NewLocalRunner()
	res, err := r.RunInput(context.Background(), "piped content\n", "cat")

	require.NoError(t, err)
	assert.Equal(t, "piped content\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestLocalRunner_MissingBinary(t *testing.T) {
	r := NewLocalRunner()
	_, err := r.Run(context.Background(), "definitely-not-a-real-binary-kqzx")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnavailable),
		"missing binary should map to UNAVAILABLE, got: %v", err)
}

func TestLocalRunner_Timeout(t *testing.T) {
	skipIfWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := NewLocalRunner()
	start := time.Now()
	_, err := r.Run(ctx, "sleep", "5")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTimeout),
		"deadline should map to TIMEOUT, got: %v", err)
	assert.Less(t, elapsed, 2*time.Second, "timeout should abandon the command promptly")
}

func TestLocalRunner_RecordsDuration(t *testing.T) {
	skipIfWindows(t)

	r := NewLocalRunner()
	res, err := r.Run(context.Background(), "sh", "-c", "true")

	require.NoError(t, err)
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestResult_Ok(t *testing.T) {
	assert.True(t, Result{ExitCode: 0}.Ok())
	assert.False(t, Result{ExitCode: 1}.Ok())
	assert.False(t, Result{ExitCode: -1}.Ok())
}

func TestAvailable(t *testing.T) {
	skipIfWindows(t)

	assert.True(t, Available("sh"))
	assert.False(t, Available("definitely-not-a-real-binary-kqzx"))
}
