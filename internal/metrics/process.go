package metrics

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/util"
)

// ProcessCollector builds the full process table every cycle. Enumeration is
// always fresh so new and exited processes show up immediately; process
// handles are cached between cycles because CPU percent is a delta against
// the previous read on the same handle.
type ProcessCollector struct {
	procs  map[int32]*process.Process
	prevIO map[int32]ioSample
	prevAt time.Time
}

type ioSample struct {
	read  uint64
	write uint64
}

// NewProcessCollector creates a process collector.
func NewProcessCollector() *ProcessCollector {
	return &ProcessCollector{
		procs:  make(map[int32]*process.Process),
		prevIO: make(map[int32]ioSample),
	}
}

// Name implements Collector.
func (c *ProcessCollector) Name() string { return "process" }

// Collect implements Collector.
func (c *ProcessCollector) Collect(ctx context.Context) (Apply, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to enumerate processes", "")
	}

	now := time.Now()
	elapsed := now.Sub(c.prevAt)

	nextProcs := make(map[int32]*process.Process, len(pids))
	nextIO := make(map[int32]ioSample, len(pids))
	entries := make([]ProcessInfo, 0, len(pids))

	for _, pid := range pids {
		if ctx.Err() != nil {
			return nil, errors.WrapWithCode(ctx.Err(), errors.ErrTimeout,
				"Process scan exceeded the cycle deadline", "")
		}

		p, ok := c.procs[pid]
		if !ok {
			p, err = process.NewProcessWithContext(ctx, pid)
			if err != nil {
				// Exited between enumeration and read
				continue
			}
		}
		nextProcs[pid] = p

		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}

		entry := ProcessInfo{PID: pid, Name: name}

		if v, err := p.CPUPercentWithContext(ctx); err == nil {
			entry.CPUPercent = v
		}
		if v, err := p.MemoryPercentWithContext(ctx); err == nil {
			entry.MemPercent = float64(v)
		}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			entry.MemRSS = mi.RSS
		}
		if v, err := p.PpidWithContext(ctx); err == nil {
			entry.PPID = v
		}
		if v, err := p.UsernameWithContext(ctx); err == nil {
			entry.User = v
		}
		if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
			entry.Status = st[0]
		}
		if v, err := p.NumThreadsWithContext(ctx); err == nil {
			entry.Threads = v
		}
		if v, err := p.NiceWithContext(ctx); err == nil {
			entry.Nice = v
		}
		// Cached on the handle after the first read, so this is cheap
		if ms, err := p.CreateTimeWithContext(ctx); err == nil {
			entry.Started = time.UnixMilli(ms)
		}
		if v, err := p.CmdlineWithContext(ctx); err == nil {
			entry.Cmdline = v
		}

		// Reading other users' IO counters needs privileges, skip quietly
		if io, err := p.IOCountersWithContext(ctx); err == nil && io != nil {
			nextIO[pid] = ioSample{read: io.ReadBytes, write: io.WriteBytes}
			if prev, ok := c.prevIO[pid]; ok {
				entry.ReadBytesPerSec = util.RatePerSec(util.CounterDelta(io.ReadBytes, prev.read), elapsed)
				entry.WriteBytesPerSec = util.RatePerSec(util.CounterDelta(io.WriteBytes, prev.write), elapsed)
			}
		}

		entries = append(entries, entry)
	}

	c.procs = nextProcs
	c.prevIO = nextIO
	c.prevAt = now

	return func(s *SystemSnapshot) { s.Processes = entries }, nil
}

// Inspect reads the extended detail for one process. This is on-demand only;
// open files and connections are too expensive to scan for the whole table.
func Inspect(ctx context.Context, pid int32) (*ProcessDetail, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, errors.NewUnavailable("process", "process has exited")
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return nil, errors.NewUnavailable("process", "process has exited")
	}

	d := &ProcessDetail{ProcessInfo: ProcessInfo{PID: pid, Name: name}}

	if v, err := p.CPUPercentWithContext(ctx); err == nil {
		d.CPUPercent = v
	}
	if v, err := p.MemoryPercentWithContext(ctx); err == nil {
		d.MemPercent = float64(v)
	}
	if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
		d.MemRSS = mi.RSS
		d.MemVMS = mi.VMS
		d.MemSwap = mi.Swap
	}
	if v, err := p.PpidWithContext(ctx); err == nil {
		d.PPID = v
	}
	if v, err := p.UsernameWithContext(ctx); err == nil {
		d.User = v
	}
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
		d.Status = st[0]
	}
	if v, err := p.NumThreadsWithContext(ctx); err == nil {
		d.Threads = v
	}
	if v, err := p.NiceWithContext(ctx); err == nil {
		d.Nice = v
	}
	if v, err := p.CmdlineWithContext(ctx); err == nil {
		d.Cmdline = v
	}
	if v, err := p.ExeWithContext(ctx); err == nil {
		d.Exe = v
	}
	if v, err := p.CwdWithContext(ctx); err == nil {
		d.Cwd = v
	}
	if ms, err := p.CreateTimeWithContext(ctx); err == nil {
		d.CreateTime = time.UnixMilli(ms)
	}
	if files, err := p.OpenFilesWithContext(ctx); err == nil {
		d.OpenFiles = len(files)
	}
	if conns, err := p.ConnectionsWithContext(ctx); err == nil {
		d.Connections = len(conns)
	}
	if io, err := p.IOCountersWithContext(ctx); err == nil && io != nil {
		d.ReadBytes = io.ReadBytes
		d.WriteBytes = io.WriteBytes
	}
	if kids, err := p.ChildrenWithContext(ctx); err == nil {
		for _, k := range kids {
			d.Children = append(d.Children, k.Pid)
		}
	}

	return d, nil
}
