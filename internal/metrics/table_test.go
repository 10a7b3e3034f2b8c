package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProcs() []ProcessInfo {
	return []ProcessInfo{
		{PID: 100, Name: "chrome", Cmdline: "/usr/bin/chrome", CPUPercent: 40, MemPercent: 20, ReadBytesPerSec: 100},
		{PID: 200, Name: "postgres", Cmdline: "/usr/bin/postgres -D /data", CPUPercent: 10, MemPercent: 50, WriteBytesPerSec: 5000},
		{PID: 50, Name: "idle-daemon", Cmdline: "/usr/sbin/idle-daemon", CPUPercent: 0, MemPercent: 1},
		{PID: 300, Name: "kworker/0:1", Cmdline: "", CPUPercent: 2, MemPercent: 0},
		{PID: 150, Name: "Chrome Helper", Cmdline: "/Applications/chrome --helper", CPUPercent: 40, MemPercent: 5},
	}
}

func pids(procs []ProcessInfo) []int32 {
	out := make([]int32, len(procs))
	for i, p := range procs {
		out[i] = p.PID
	}
	return out
}

func TestSortProcessesCPU(t *testing.T) {
	procs := sampleProcs()
	SortProcesses(procs, SortCPU)

	// Equal CPU (pids 100 and 150) break by ascending pid
	assert.Equal(t, []int32{100, 150, 200, 300, 50}, pids(procs))
}

func TestSortProcessesMemory(t *testing.T) {
	procs := sampleProcs()
	SortProcesses(procs, SortMemory)

	assert.Equal(t, []int32{200, 100, 150, 50, 300}, pids(procs))
}

func TestSortProcessesPID(t *testing.T) {
	procs := sampleProcs()
	SortProcesses(procs, SortPID)

	assert.Equal(t, []int32{50, 100, 150, 200, 300}, pids(procs))
}

func TestSortProcessesName(t *testing.T) {
	procs := sampleProcs()
	SortProcesses(procs, SortName)

	// Case-insensitive: "chrome" and "Chrome Helper" sort together
	assert.Equal(t, []int32{100, 150, 50, 300, 200}, pids(procs))
}

func TestSortProcessesDiskIO(t *testing.T) {
	procs := sampleProcs()
	SortProcesses(procs, SortDiskIO)

	require.Equal(t, int32(200), procs[0].PID)
	require.Equal(t, int32(100), procs[1].PID)
}

func TestSortProcessesGeneral(t *testing.T) {
	procs := sampleProcs()
	SortProcesses(procs, SortGeneral)

	// chrome: 0.6*40/40 + 0.4*20/50 = 0.76
	// postgres: 0.6*10/40 + 0.4*50/50 = 0.55
	// Chrome Helper: 0.6*1.0 + 0.4*0.1 = 0.64
	assert.Equal(t, int32(100), procs[0].PID)
	assert.Equal(t, int32(150), procs[1].PID)
	assert.Equal(t, int32(200), procs[2].PID)
}

func TestSortProcessesGeneralRanksBlend(t *testing.T) {
	// A pure CPU hog and a pure memory hog: CPU weight wins
	procs := []ProcessInfo{
		{PID: 1, Name: "mem-hog", CPUPercent: 0, MemPercent: 80},
		{PID: 2, Name: "cpu-hog", CPUPercent: 90, MemPercent: 0},
	}
	SortProcesses(procs, SortGeneral)

	assert.Equal(t, int32(2), procs[0].PID)
	assert.Equal(t, int32(1), procs[1].PID)
}

func TestSortProcessesGeneralMonotonic(t *testing.T) {
	// Raising a process's CPU share must never worsen its rank, even when
	// the raise moves the normalization maximum.
	rank := func(cpu float64) int {
		procs := []ProcessInfo{
			{PID: 1, Name: "subject", CPUPercent: cpu, MemPercent: 10},
			{PID: 2, Name: "peer", CPUPercent: 50, MemPercent: 40},
			{PID: 3, Name: "idle", CPUPercent: 5, MemPercent: 5},
		}
		SortProcesses(procs, SortGeneral)
		for i, p := range procs {
			if p.PID == 1 {
				return i
			}
		}
		return -1
	}

	last := rank(0)
	for _, cpu := range []float64{10, 25, 50, 80} {
		got := rank(cpu)
		assert.LessOrEqual(t, got, last, "cpu %.0f%% dropped the rank", cpu)
		last = got
	}
}

func TestSortProcessesGeneralAllIdle(t *testing.T) {
	// Zero maxima must not divide by zero; order falls back to pid
	procs := []ProcessInfo{
		{PID: 30, Name: "c"},
		{PID: 10, Name: "a"},
		{PID: 20, Name: "b"},
	}
	SortProcesses(procs, SortGeneral)

	assert.Equal(t, []int32{10, 20, 30}, pids(procs))
}

func TestSortModeNextCycles(t *testing.T) {
	mode := SortGeneral
	seen := map[SortMode]bool{mode: true}
	for i := 0; i < int(sortModeCount)-1; i++ {
		mode = mode.Next()
		seen[mode] = true
	}
	assert.Len(t, seen, int(sortModeCount))
	assert.Equal(t, SortGeneral, mode.Next())
}

func TestFilterProcessesQuery(t *testing.T) {
	procs := sampleProcs()

	got := FilterProcesses(procs, "chrome", true)
	assert.Equal(t, []int32{100, 150}, pids(got))

	// Matches against the command line too
	got = FilterProcesses(procs, "-D /data", true)
	require.Len(t, got, 1)
	assert.Equal(t, int32(200), got[0].PID)

	// And against the pid itself
	got = FilterProcesses(procs, "200", true)
	require.Len(t, got, 1)
	assert.Equal(t, int32(200), got[0].PID)
}

func TestFilterProcessesHidesKernelThreads(t *testing.T) {
	procs := sampleProcs()

	got := FilterProcesses(procs, "", false)
	for _, p := range got {
		assert.NotEmpty(t, p.Cmdline)
	}
	assert.Len(t, got, 4)

	got = FilterProcesses(procs, "", true)
	assert.Len(t, got, 5)
}

func TestFilterProcessesNoMatch(t *testing.T) {
	got := FilterProcesses(sampleProcs(), "doesnotexist", true)
	assert.Empty(t, got)
}
