// Package exec runs local commands for the control plane and telemetry
// adapters. Everything goes through the Runner interface so command-driven
// code can be tested against a fake without touching the host.
package exec

import (
	"context"
	"time"
)

// Result holds the outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Ok reports whether the command exited zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner abstracts local command execution.
//
// Run returns a nil error whenever the command actually ran, even with a
// non-zero exit code; callers inspect Result.ExitCode. A non-nil error means
// the command could not run at all: binary missing (UNAVAILABLE), context
// deadline exceeded (TIMEOUT), or another spawn failure (EXTERNAL).
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
	RunInput(ctx context.Context, stdin string, name string, args ...string) (Result, error)
}
