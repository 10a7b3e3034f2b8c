package exec

import (
	"bytes"
	"context"
	stderrs "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mfenwick/vigil/internal/errors"
)

// LocalRunner executes commands on the local host via os/exec.
// Commands are invoked argv-style, never through a shell, so arguments
// carrying unit names or file content need no quoting.
type LocalRunner struct{}

// NewLocalRunner creates a runner for local command execution.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes the command and captures stdout and stderr.
func (r *LocalRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.run(ctx, "", name, args...)
}

// RunInput executes the command with the given string piped to stdin.
func (r *LocalRunner) RunInput(ctx context.Context, stdin string, name string, args ...string) (Result, error) {
	return r.run(ctx, stdin, name, args...)
}

func (r *LocalRunner) run(ctx context.Context, stdin string, name string, args ...string) (Result, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	runErr := cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		return res, nil
	}

	// The context deadline takes priority: CommandContext kills the process
	// and Run reports the kill, not the timeout.
	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		return res, errors.WrapWithCode(ctx.Err(), errors.ErrTimeout,
			fmt.Sprintf("'%s' did not finish in time", name),
			"The command was abandoned for this cycle and will be retried.")
	}

	var exitErr *exec.ExitError
	if stderrs.As(runErr, &exitErr) {
		// Command ran and returned non-zero. Not an execution failure;
		// the caller owns the interpretation.
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	res.ExitCode = -1
	if stderrs.Is(runErr, exec.ErrNotFound) {
		return res, errors.WrapWithCode(runErr, errors.ErrUnavailable,
			fmt.Sprintf("'%s' is not installed", name),
			"")
	}

	return res, errors.WrapWithCode(runErr, errors.ErrExternal,
		fmt.Sprintf("Couldn't run '%s'", name),
		"Make sure the command exists and is executable.")
}

// Available reports whether an executable can be found in PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
