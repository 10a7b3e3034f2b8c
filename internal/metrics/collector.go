package metrics

import (
	"context"

	"github.com/mfenwick/vigil/internal/errors"
)

// Collector reads one section of the system snapshot.
//
// Collect returns a write step instead of mutating a snapshot directly: the
// scheduler applies the step to the snapshot under construction, and holds
// on to it so a failing cycle can carry the last good data forward for a
// bounded number of cycles.
//
// A collector is never invoked concurrently with itself; the scheduler skips
// a collector whose previous call has not returned. Internal delta state
// (previous counters) therefore needs no locking.
type Collector interface {
	// Name identifies the collector in snapshot source statuses.
	Name() string

	// Collect reads the source. The context carries the per-cycle deadline.
	Collect(ctx context.Context) (Apply, error)
}

// Apply writes one collector's result into a snapshot.
type Apply func(*SystemSnapshot)

// RetainCycles is how many cycles stale data is carried forward after a
// collector stops producing, before its section reverts to absent.
const RetainCycles = 2

// outcomeFor maps a collector error to the outcome recorded in the snapshot.
func outcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOk
	case errors.IsCode(err, errors.ErrTimeout) || err == context.DeadlineExceeded:
		return OutcomeTimedOut
	case errors.IsCode(err, errors.ErrUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}
