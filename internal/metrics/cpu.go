package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"

	"github.com/mfenwick/vigil/internal/errors"
)

// CPUCollector reads aggregate and per-core CPU usage from jiffies deltas.
// The first cycle has no previous sample and reports 0%.
type CPUCollector struct {
	prevTotal float64
	prevIdle  float64
	prevCore  []cpu.TimesStat

	// static identity, read once
	model    string
	logical  int
	physical int
	infoRead bool
}

// NewCPUCollector creates a CPU collector.
func NewCPUCollector() *CPUCollector {
	return &CPUCollector{}
}

// Name implements Collector.
func (c *CPUCollector) Name() string { return "cpu" }

// Collect implements Collector.
func (c *CPUCollector) Collect(ctx context.Context) (Apply, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to read CPU times", "")
	}
	if len(times) == 0 {
		return nil, errors.NewUnavailable("cpu", "no CPU times reported")
	}

	stats := &CPUStats{}

	cur := times[0]
	curTotal := cur.Total()
	curIdle := cur.Idle + cur.Iowait
	if c.prevTotal > 0 {
		dt := curTotal - c.prevTotal
		di := curIdle - c.prevIdle
		if dt > 0 {
			stats.Percent = 100 * (1 - di/dt)
		}
	}
	c.prevTotal, c.prevIdle = curTotal, curIdle

	coreTimes, err := cpu.TimesWithContext(ctx, true)
	if err == nil {
		stats.PerCore = make([]float64, len(coreTimes))
		for i, ct := range coreTimes {
			if i >= len(c.prevCore) {
				continue
			}
			prev := c.prevCore[i]
			dt := ct.Total() - prev.Total()
			di := (ct.Idle + ct.Iowait) - (prev.Idle + prev.Iowait)
			if dt > 0 {
				stats.PerCore[i] = 100 * (1 - di/dt)
			}
		}
		c.prevCore = coreTimes
	}

	if !c.infoRead {
		c.readInfo(ctx)
	}
	stats.Model = c.model
	stats.Cores = c.logical
	stats.Physical = c.physical

	// Current frequency changes with governor scaling, read every cycle
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		stats.FreqMHz = infos[0].Mhz
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		stats.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	}

	return func(s *SystemSnapshot) { s.CPU = stats }, nil
}

// readInfo caches the CPU identity fields that never change.
func (c *CPUCollector) readInfo(ctx context.Context) {
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		c.model = infos[0].ModelName
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		c.logical = n
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		c.physical = n
	}
	c.infoRead = true
}
