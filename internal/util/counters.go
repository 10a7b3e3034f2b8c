// Package util provides small shared helpers for rate math and display
// strings.
package util

import "time"

// SafePercent computes used/total as a percentage, returning 0 when total
// is zero so callers never divide by zero.
func SafePercent(used, total float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := used / total * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// CounterDelta computes the difference between two cumulative counter
// readings, treating a wrap or reset (current < previous) as zero.
func CounterDelta(current, previous uint64) uint64 {
	if current < previous {
		return 0
	}
	return current - previous
}

// RatePerSec converts a counter delta over an elapsed interval to a
// per-second rate. A non-positive interval yields 0.
func RatePerSec(delta uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(delta) / elapsed.Seconds()
}
