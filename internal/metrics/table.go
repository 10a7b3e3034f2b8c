package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mfenwick/vigil/internal/util"
)

// SortMode selects the process table ordering.
type SortMode int

const (
	// SortGeneral ranks by a blend of CPU and memory pressure.
	SortGeneral SortMode = iota
	SortCPU
	SortMemory
	SortPID
	SortName
	SortDiskIO

	sortModeCount
)

// String returns the mode label shown in the table header.
func (m SortMode) String() string {
	switch m {
	case SortGeneral:
		return "general"
	case SortCPU:
		return "cpu"
	case SortMemory:
		return "memory"
	case SortPID:
		return "pid"
	case SortName:
		return "name"
	case SortDiskIO:
		return "disk"
	default:
		return "unknown"
	}
}

// Next cycles to the following sort mode.
func (m SortMode) Next() SortMode {
	return (m + 1) % sortModeCount
}

// generalWeights for the blended ranking: CPU matters more than memory, but
// a memory hog with idle CPU still surfaces.
const (
	generalCPUWeight = 0.6
	generalMemWeight = 0.4
)

// SortProcesses orders the slice in place. CPU, memory, disk and general
// modes rank hottest first; pid and name are ascending. Ties always break
// by ascending pid so the table is stable across refreshes.
func SortProcesses(procs []ProcessInfo, mode SortMode) {
	var less func(a, b ProcessInfo) bool

	switch mode {
	case SortCPU:
		less = func(a, b ProcessInfo) bool { return a.CPUPercent > b.CPUPercent }
	case SortMemory:
		less = func(a, b ProcessInfo) bool { return a.MemPercent > b.MemPercent }
	case SortPID:
		less = func(a, b ProcessInfo) bool { return a.PID < b.PID }
	case SortName:
		less = func(a, b ProcessInfo) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortDiskIO:
		less = func(a, b ProcessInfo) bool {
			return a.ReadBytesPerSec+a.WriteBytesPerSec > b.ReadBytesPerSec+b.WriteBytesPerSec
		}
	default:
		score := generalScorer(procs)
		less = func(a, b ProcessInfo) bool { return score(a) > score(b) }
	}

	sort.Slice(procs, func(i, j int) bool {
		a, b := procs[i], procs[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.PID < b.PID
	})
}

// generalScorer normalizes CPU and memory against the hottest entry in the
// table, so the blend is meaningful whether the machine is loaded or idle.
func generalScorer(procs []ProcessInfo) func(ProcessInfo) float64 {
	var maxCPU, maxMem float64
	for _, p := range procs {
		if p.CPUPercent > maxCPU {
			maxCPU = p.CPUPercent
		}
		if p.MemPercent > maxMem {
			maxMem = p.MemPercent
		}
	}

	return func(p ProcessInfo) float64 {
		var score float64
		if maxCPU > 0 {
			score += generalCPUWeight * p.CPUPercent / maxCPU
		}
		if maxMem > 0 {
			score += generalMemWeight * p.MemPercent / maxMem
		}
		return score
	}
}

// FilterProcesses returns the entries matching the query, a case-insensitive
// substring match against name, command line and pid. Kernel threads (no
// command line) are hidden unless showSystem is set. An empty query matches
// all.
func FilterProcesses(procs []ProcessInfo, query string, showSystem bool) []ProcessInfo {
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if !showSystem && p.Cmdline == "" {
			continue
		}
		if query != "" &&
			!util.ContainsFold(p.Name, query) &&
			!util.ContainsFold(p.Cmdline, query) &&
			!strings.Contains(strconv.Itoa(int(p.PID)), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
