package metrics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/util"
)

// DiskCollector reads mounted filesystem usage and per-device throughput.
// Partitions are enumerated fresh every cycle so newly mounted filesystems
// appear without restart.
type DiskCollector struct {
	prevIO map[string]disk.IOCountersStat
	prevAt time.Time
}

// NewDiskCollector creates a disk collector.
func NewDiskCollector() *DiskCollector {
	return &DiskCollector{
		prevIO: make(map[string]disk.IOCountersStat),
	}
}

// Name implements Collector.
func (c *DiskCollector) Name() string { return "disk" }

// Collect implements Collector.
func (c *DiskCollector) Collect(ctx context.Context) (Apply, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to enumerate partitions", "")
	}

	var disks []DiskStats
	seen := make(map[string]bool)
	for _, p := range parts {
		// Bind mounts repeat the device, keep the first mountpoint
		if seen[p.Device+"\x00"+p.Mountpoint] {
			continue
		}
		seen[p.Device+"\x00"+p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		disks = append(disks, DiskStats{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    util.SafePercent(float64(usage.Used), float64(usage.Total)),
		})
	}
	sort.Slice(disks, func(i, j int) bool { return disks[i].Mountpoint < disks[j].Mountpoint })

	io := c.collectIO(ctx)

	return func(s *SystemSnapshot) {
		s.Disks = disks
		s.DiskIO = io
	}, nil
}

// collectIO computes per-device throughput from counter deltas. The first
// cycle has no baseline and reports zero rates.
func (c *DiskCollector) collectIO(ctx context.Context) *DiskIOStats {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return nil
	}

	now := time.Now()
	elapsed := now.Sub(c.prevAt)

	io := &DiskIOStats{}
	for name, st := range counters {
		if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") {
			continue
		}

		dev := DeviceIOStat{
			Name:       name,
			ReadBytes:  st.ReadBytes,
			WriteBytes: st.WriteBytes,
		}

		if prev, ok := c.prevIO[name]; ok {
			dev.ReadBytesPerSec = util.RatePerSec(util.CounterDelta(st.ReadBytes, prev.ReadBytes), elapsed)
			dev.WriteBytesPerSec = util.RatePerSec(util.CounterDelta(st.WriteBytes, prev.WriteBytes), elapsed)
			io.ReadBytesPerSec += dev.ReadBytesPerSec
			io.WriteBytesPerSec += dev.WriteBytesPerSec
		}

		io.Devices = append(io.Devices, dev)
	}
	sort.Slice(io.Devices, func(i, j int) bool { return io.Devices[i].Name < io.Devices[j].Name })

	c.prevIO = counters
	c.prevAt = now
	return io
}
