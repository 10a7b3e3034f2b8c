package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/util"
)

// MemoryCollector reads RAM and swap usage.
type MemoryCollector struct{}

// NewMemoryCollector creates a memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Name implements Collector.
func (c *MemoryCollector) Name() string { return "memory" }

// Collect implements Collector.
func (c *MemoryCollector) Collect(ctx context.Context) (Apply, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to read memory stats", "")
	}

	stats := &MemoryStats{
		Total:     vm.Total,
		Used:      vm.Used,
		Free:      vm.Free,
		Available: vm.Available,
		Cached:    vm.Cached,
		Buffers:   vm.Buffers,
		Percent:   util.SafePercent(float64(vm.Used), float64(vm.Total)),
	}

	// Swap may legitimately not exist, keep RAM stats either way
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		stats.SwapTotal = swap.Total
		stats.SwapUsed = swap.Used
		stats.SwapPercent = util.SafePercent(float64(swap.Used), float64(swap.Total))
	}

	return func(s *SystemSnapshot) { s.Memory = stats }, nil
}
