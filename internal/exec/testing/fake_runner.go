// Package testing provides test doubles for the exec package.
package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/mfenwick/vigil/internal/exec"
)

// Call records a single command invocation.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// Command returns the invocation as a single space-joined string, which is
// convenient for matching in assertions.
func (c Call) Command() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// response pairs a command prefix with its scripted outcome.
type response struct {
	prefix string
	result exec.Result
	err    error
}

// FakeRunner simulates command execution for testing. Responses are scripted
// by command prefix; unmatched commands succeed with empty output.
type FakeRunner struct {
	mu sync.Mutex

	responses []response

	// Call tracking
	Calls []Call
}

// NewFakeRunner creates a fake runner with no scripted responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Respond scripts a result for any command whose space-joined form starts
// with prefix. Later registrations win over earlier ones.
func (f *FakeRunner) Respond(prefix string, result exec.Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append([]response{{prefix: prefix, result: result}}, f.responses...)
	return f
}

// RespondError scripts an execution error (binary missing, timeout) for any
// command whose space-joined form starts with prefix.
func (f *FakeRunner) RespondError(prefix string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append([]response{{prefix: prefix, err: err}}, f.responses...)
	return f
}

// Run records the call and returns the scripted response.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (exec.Result, error) {
	return f.RunInput(ctx, "", name, args...)
}

// RunInput records the call, including stdin, and returns the scripted response.
func (f *FakeRunner) RunInput(ctx context.Context, stdin string, name string, args ...string) (exec.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: args, Stdin: stdin}
	f.Calls = append(f.Calls, call)

	if err := ctx.Err(); err != nil {
		return exec.Result{ExitCode: -1}, err
	}

	cmd := call.Command()
	for _, r := range f.responses {
		if strings.HasPrefix(cmd, r.prefix) {
			return r.result, r.err
		}
	}
	return exec.Result{}, nil
}

// CallCount returns the number of recorded invocations.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// CallsMatching returns all recorded calls whose command starts with prefix.
func (f *FakeRunner) CallsMatching(prefix string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Command(), prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears scripted responses and recorded calls.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = nil
	f.Calls = nil
}
