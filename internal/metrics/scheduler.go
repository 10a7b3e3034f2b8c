package metrics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
	"github.com/mfenwick/vigil/internal/util"
)

// Scheduler drives the refresh cycle: every interval it fans collectors out
// in parallel, joins them under a deadline, and publishes one immutable
// SystemSnapshot. Readers get snapshots through Latest or Subscribe and
// never contend with collection.
//
// When a collector fails, its last good data is carried into new snapshots
// for RetainCycles cycles before the section reverts to absent, so a single
// hiccup does not blank a panel.
type Scheduler struct {
	collectors []Collector
	history    *History
	log        logger.Logger

	mu       sync.Mutex
	interval time.Duration
	paused   bool
	enabled  map[string]bool
	inflight map[string]bool
	seq      uint64

	// degrade state, touched only by the run loop
	lastApply map[string]Apply
	staleFor  map[string]int

	cur atomic.Pointer[SystemSnapshot]

	subsMu sync.Mutex
	subs   []chan *SystemSnapshot
}

// NewScheduler creates a scheduler over the given collectors.
func NewScheduler(collectors []Collector, interval time.Duration, history *History, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	enabled := make(map[string]bool, len(collectors))
	for _, c := range collectors {
		enabled[c.Name()] = true
	}
	return &Scheduler{
		collectors: collectors,
		history:    history,
		log:        log,
		interval:   interval,
		enabled:    enabled,
		inflight:   make(map[string]bool),
		lastApply:  make(map[string]Apply),
		staleFor:   make(map[string]int),
	}
}

// BuildCollectors assembles the standard collector set. Callers disable
// individual collectors on the scheduler to honor config and privileges.
func BuildCollectors(runner exec.Runner) []Collector {
	return []Collector{
		NewCPUCollector(),
		NewMemoryCollector(),
		NewDiskCollector(),
		NewNetworkCollector(),
		NewHostCollector(),
		NewProcessCollector(),
		NewGPUCollector(runner),
		NewDockerCollector(),
	}
}

// Run collects immediately, then on every interval until the context is
// canceled. It is the only goroutine that builds snapshots.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !s.Paused() {
			snap := s.collectOnce(ctx)
			s.publish(snap)
		}

		timer.Reset(s.Interval())
	}
}

// CollectNow runs one cycle synchronously and publishes the result. The run
// loop owns the degrade state, so this must not be called concurrently with
// Run; it exists for one-shot readings before or instead of the loop.
func (s *Scheduler) CollectNow(ctx context.Context) *SystemSnapshot {
	snap := s.collectOnce(ctx)
	s.publish(snap)
	return snap
}

// Latest returns the most recently published snapshot, nil before the first
// cycle completes.
func (s *Scheduler) Latest() *SystemSnapshot {
	return s.cur.Load()
}

// Subscribe returns a channel receiving each published snapshot. A slow
// receiver only ever misses intermediate snapshots; the channel always holds
// the newest one.
func (s *Scheduler) Subscribe() <-chan *SystemSnapshot {
	ch := make(chan *SystemSnapshot, 1)
	s.subsMu.Lock()
	s.subs = append(s.subs, ch)
	s.subsMu.Unlock()
	return ch
}

// History returns the sample series fed by this scheduler.
func (s *Scheduler) History() *History {
	return s.history
}

// SetPaused stops or resumes collection. Paused cycles are skipped entirely;
// the last snapshot stays current.
func (s *Scheduler) SetPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()
}

// Paused reports whether collection is paused.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetEnabled switches one collector on or off. Disabled collectors are not
// polled and report a disabled status in snapshots.
func (s *Scheduler) SetEnabled(name string, on bool) {
	s.mu.Lock()
	s.enabled[name] = on
	s.mu.Unlock()
}

// Enabled reports whether a collector is enabled.
func (s *Scheduler) Enabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled[name]
}

// SetInterval changes the refresh interval, taking effect after the current
// cycle. Non-positive values are ignored.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// Interval returns the current refresh interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// result is one collector's report for a cycle.
type result struct {
	name  string
	apply Apply
	err   error
}

// collectOnce runs one full cycle and returns the assembled snapshot.
func (s *Scheduler) collectOnce(ctx context.Context) *SystemSnapshot {
	started := time.Now()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	timeout := s.interval / 2
	enabled := make(map[string]bool, len(s.enabled))
	for k, v := range s.enabled {
		enabled[k] = v
	}
	s.mu.Unlock()

	snap := &SystemSnapshot{
		Seq:     seq,
		Taken:   started,
		Sources: make(map[string]SourceStatus, len(s.collectors)),
	}

	// Buffered to collector count so a straggler finishing after the join
	// deadline never blocks.
	results := make(chan result, len(s.collectors))
	pending := make(map[string]bool)

	for _, col := range s.collectors {
		name := col.Name()

		if !enabled[name] {
			s.clearRetained(name)
			snap.Sources[name] = SourceStatus{Outcome: OutcomeDisabled}
			continue
		}

		s.mu.Lock()
		busy := s.inflight[name]
		if !busy {
			s.inflight[name] = true
		}
		s.mu.Unlock()

		if busy {
			// Previous cycle's call is still running, count this cycle
			// against it instead of stacking another
			s.degrade(snap, name, OutcomeTimedOut, "previous poll still running")
			continue
		}

		pending[name] = true
		go func(col Collector, name string) {
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			apply, err := col.Collect(cctx)

			s.mu.Lock()
			delete(s.inflight, name)
			s.mu.Unlock()

			results <- result{name: name, apply: apply, err: err}
		}(col, name)
	}

	// Join with a little grace past the per-collector deadline so a
	// collector that returns right at its limit still lands.
	join := time.NewTimer(timeout + timeout/4)
	defer join.Stop()

	for len(pending) > 0 {
		select {
		case r := <-results:
			delete(pending, r.name)
			if r.err == nil && r.apply != nil {
				r.apply(snap)
				s.lastApply[r.name] = r.apply
				s.staleFor[r.name] = 0
				snap.Sources[r.name] = SourceStatus{Outcome: OutcomeOk}
			} else {
				s.degrade(snap, r.name, outcomeFor(r.err), errText(r.err))
			}
		case <-join.C:
			for name := range pending {
				s.degrade(snap, name, OutcomeTimedOut, "poll missed the cycle deadline")
			}
			pending = nil
		case <-ctx.Done():
			for name := range pending {
				s.degrade(snap, name, OutcomeTimedOut, "collection canceled")
			}
			pending = nil
		}
	}

	snap.Elapsed = time.Since(started)
	if snap.Elapsed > s.Interval()/2 {
		s.log.Warn("slow collection cycle: %s (interval %s)", snap.Elapsed, s.Interval())
	}

	s.pushHistory(snap)
	return snap
}

// degrade records a failed poll, carrying the last good data forward while
// it is within the retention window.
func (s *Scheduler) degrade(snap *SystemSnapshot, name string, outcome Outcome, detail string) {
	s.staleFor[name]++

	st := SourceStatus{Outcome: outcome, Err: detail}
	if apply, ok := s.lastApply[name]; ok && s.staleFor[name] <= RetainCycles {
		apply(snap)
		st.Stale = s.staleFor[name]
	} else {
		delete(s.lastApply, name)
	}
	snap.Sources[name] = st

	s.log.Debug("collector %s: %s (stale %d): %s", name, outcome, s.staleFor[name], detail)
}

// clearRetained drops carry-forward state for a collector, used when it is
// disabled so re-enabling starts clean.
func (s *Scheduler) clearRetained(name string) {
	delete(s.lastApply, name)
	delete(s.staleFor, name)
}

// publish makes the snapshot current and notifies subscribers. Subscriber
// channels are replaced, not blocked on: the newest snapshot wins.
func (s *Scheduler) publish(snap *SystemSnapshot) {
	s.cur.Store(snap)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// pushHistory appends this cycle's headline values to the sample series.
func (s *Scheduler) pushHistory(snap *SystemSnapshot) {
	if s.history == nil {
		return
	}

	if snap.CPU != nil {
		s.history.Push("cpu", snap.CPU.Percent)
	}
	if snap.Memory != nil {
		s.history.Push("mem", snap.Memory.Percent)
		s.history.Push("swap", snap.Memory.SwapPercent)
	}
	if snap.DiskIO != nil {
		s.history.Push("disk.read", snap.DiskIO.ReadBytesPerSec)
		s.history.Push("disk.write", snap.DiskIO.WriteBytesPerSec)
	}
	for _, iface := range snap.Network {
		if iface.Loopback {
			continue
		}
		s.history.Push("net."+iface.Name+".rx", iface.RecvBytesPerSec)
		s.history.Push("net."+iface.Name+".tx", iface.SentBytesPerSec)
	}
	for _, gpu := range snap.GPUs {
		if gpu.UtilPercent != nil {
			s.history.Push(fmt.Sprintf("gpu%d", gpu.Index), *gpu.UtilPercent)
		}
		if gpu.MemoryUsed != nil && gpu.MemoryTotal != nil {
			s.history.Push(fmt.Sprintf("gpu%d.mem", gpu.Index),
				util.SafePercent(float64(*gpu.MemoryUsed), float64(*gpu.MemoryTotal)))
		}
	}
}

// errText renders an error for the source status, empty for nil.
func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
