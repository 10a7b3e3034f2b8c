// Package doctor diagnoses the environment vigil runs in: privilege tier,
// systemd tooling, container and GPU telemetry sources, and configuration.
// Checks are read-only probes; nothing here mutates the system.
package doctor

import (
	"context"
	"fmt"
	"sync"
)

// CheckStatus represents the outcome of a diagnostic check.
type CheckStatus int

const (
	// StatusPass indicates the check passed.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue.
	StatusFail
)

// String returns a human-readable status.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// CheckResult holds the outcome of a single check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable"`
}

// Check is a diagnostic check that can be run.
type Check interface {
	// Name returns the check identifier (e.g., "systemctl").
	Name() string

	// Category returns the group this check belongs to (e.g., "SERVICES").
	Category() string

	// Run executes the check and returns a result. Checks that shell out
	// honor the context deadline.
	Run(ctx context.Context) CheckResult

	// Fix attempts to automatically fix the issue (if fixable).
	Fix() error
}

// RunAll executes all checks sequentially and returns results.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		results = append(results, check.Run(ctx))
	}
	return results
}

// RunAllParallel executes all checks concurrently and returns results
// in the original order.
func RunAllParallel(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func(idx int, c Check) {
			defer wg.Done()
			results[idx] = c.Run(ctx)
		}(i, check)
	}

	wg.Wait()
	return results
}

// GroupByCategory organizes checks by their category.
func GroupByCategory(checks []Check) map[string][]Check {
	grouped := make(map[string][]Check)
	for _, check := range checks {
		cat := check.Category()
		grouped[cat] = append(grouped[cat], check)
	}
	return grouped
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any check failed.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any check failed or warned.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail || r.Status == StatusWarn {
			return true
		}
	}
	return false
}

// FixableCount returns the number of fixable issues.
func FixableCount(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Fixable && r.Status != StatusPass {
			count++
		}
	}
	return count
}

// Summary generates a summary message for the results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	issues := counts[StatusWarn] + counts[StatusFail]

	if issues == 0 {
		return "Everything looks good"
	}

	return fmt.Sprintf("%d issue%s found", issues, pluralize(issues))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
