package metrics

import (
	"strings"
	"time"
)

// Outcome classifies one collector's result for one refresh cycle.
type Outcome int

const (
	// OutcomeOk means the collector returned fresh data within its deadline.
	OutcomeOk Outcome = iota
	// OutcomeTimedOut means the collector missed the per-cycle deadline.
	OutcomeTimedOut
	// OutcomeUnavailable means the backing source does not exist on this
	// system (no GPU, no docker daemon, binary not installed).
	OutcomeUnavailable
	// OutcomeError means the source exists but the read failed.
	OutcomeError
	// OutcomeDisabled means the collector is switched off by config.
	OutcomeDisabled
)

// String returns the outcome name for status lines and logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeTimedOut:
		return "timeout"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeError:
		return "error"
	case OutcomeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// SourceStatus records how a collector fared in the cycle that produced a
// snapshot. Stale counts cycles since the last fresh read: 0 means the data
// in the snapshot is from this cycle, 1..RetainCycles means it was carried
// forward from an earlier cycle.
type SourceStatus struct {
	Outcome Outcome `json:"outcome"`
	Stale   int     `json:"stale,omitempty"`
	Err     string  `json:"error,omitempty"`
}

// Fresh reports whether the snapshot carries this cycle's data for the source.
func (s SourceStatus) Fresh() bool {
	return s.Outcome == OutcomeOk && s.Stale == 0
}

// SystemSnapshot is one complete view of the machine. The scheduler builds a
// new snapshot every cycle and publishes it wholesale; readers never see a
// snapshot mutate. Nil sections mean no data (source absent, disabled, or
// stale past the retention window); empty slices mean the source answered
// and found nothing.
type SystemSnapshot struct {
	Seq     uint64        `json:"seq"`
	Taken   time.Time     `json:"taken"`
	Elapsed time.Duration `json:"elapsed"`

	CPU        *CPUStats        `json:"cpu,omitempty"`
	Memory     *MemoryStats     `json:"memory,omitempty"`
	Disks      []DiskStats      `json:"disks,omitempty"`
	DiskIO     *DiskIOStats     `json:"disk_io,omitempty"`
	Network    []NetworkStats   `json:"network,omitempty"`
	GPUs       []GPUDevice      `json:"gpus,omitempty"`
	Containers []ContainerStats `json:"containers,omitempty"`
	Processes  []ProcessInfo    `json:"processes,omitempty"`
	Host       *HostInfo        `json:"host,omitempty"`

	// Sources maps collector name to its outcome for this cycle.
	Sources map[string]SourceStatus `json:"sources"`
}

// Source returns the status for a collector, defaulting to unavailable for
// names the scheduler never registered.
func (s *SystemSnapshot) Source(name string) SourceStatus {
	if st, ok := s.Sources[name]; ok {
		return st
	}
	return SourceStatus{Outcome: OutcomeUnavailable}
}

// CPUStats contains aggregate and per-core CPU usage.
type CPUStats struct {
	Percent  float64    `json:"percent"`
	PerCore  []float64  `json:"per_core"`
	Cores    int        `json:"cores"`
	Physical int        `json:"physical"`
	Model    string     `json:"model"`
	FreqMHz  float64    `json:"freq_mhz"`
	LoadAvg  [3]float64 `json:"load_avg"`
}

// MemoryStats contains RAM and swap usage in bytes.
type MemoryStats struct {
	Total     uint64  `json:"total"`
	Used      uint64  `json:"used"`
	Free      uint64  `json:"free"`
	Available uint64  `json:"available"`
	Cached    uint64  `json:"cached"`
	Buffers   uint64  `json:"buffers"`
	Percent   float64 `json:"percent"`

	SwapTotal   uint64  `json:"swap_total"`
	SwapUsed    uint64  `json:"swap_used"`
	SwapPercent float64 `json:"swap_percent"`
}

// DiskStats contains usage for one mounted filesystem.
type DiskStats struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// DiskIOStats contains machine-wide disk throughput plus per-device detail.
type DiskIOStats struct {
	ReadBytesPerSec  float64        `json:"read_bytes_per_sec"`
	WriteBytesPerSec float64        `json:"write_bytes_per_sec"`
	Devices          []DeviceIOStat `json:"devices,omitempty"`
}

// DeviceIOStat contains throughput for one block device.
type DeviceIOStat struct {
	Name             string  `json:"name"`
	ReadBytes        uint64  `json:"read_bytes"`
	WriteBytes       uint64  `json:"write_bytes"`
	ReadBytesPerSec  float64 `json:"read_bytes_per_sec"`
	WriteBytesPerSec float64 `json:"write_bytes_per_sec"`
}

// NetworkStats contains I/O counters and computed rates for one interface.
type NetworkStats struct {
	Name        string   `json:"name"`
	Addrs       []string `json:"addrs,omitempty"`
	BytesRecv   uint64   `json:"bytes_recv"`
	BytesSent   uint64   `json:"bytes_sent"`
	PacketsRecv uint64   `json:"packets_recv"`
	PacketsSent uint64   `json:"packets_sent"`
	ErrIn       uint64   `json:"err_in"`
	ErrOut      uint64   `json:"err_out"`

	RecvBytesPerSec float64 `json:"recv_bytes_per_sec"`
	SentBytesPerSec float64 `json:"sent_bytes_per_sec"`

	Loopback bool `json:"loopback,omitempty"`
}

// GPUVendor identifies the driver family a GPU device was read through.
type GPUVendor string

const (
	VendorNVIDIA GPUVendor = "NVIDIA"
	VendorAMD    GPUVendor = "AMD"
	VendorIntel  GPUVendor = "Intel"
)

// GPUDevice contains metrics for one GPU. Vendors expose wildly different
// telemetry, so every per-sample field is a pointer: nil means the vendor
// or driver does not report it, which renders as N/A.
type GPUDevice struct {
	Vendor GPUVendor `json:"vendor"`
	Index  int       `json:"index"`
	Name   string    `json:"name"`
	Driver string    `json:"driver,omitempty"`

	UtilPercent *float64 `json:"util_percent,omitempty"`
	MemoryUsed  *uint64  `json:"memory_used,omitempty"`
	MemoryTotal *uint64  `json:"memory_total,omitempty"`
	TempC       *float64 `json:"temp_c,omitempty"`
	PowerWatts  *float64 `json:"power_watts,omitempty"`
	ClockMHz    *float64 `json:"clock_mhz,omitempty"`
}

// ContainerStats contains metrics for one container.
type ContainerStats struct {
	ID     string `json:"id"` // short 12-char form
	Name   string `json:"name"`
	Image  string `json:"image"`
	State  string `json:"state"`
	Health string `json:"health,omitempty"`

	CPUPercent float64 `json:"cpu_percent"`
	MemUsage   uint64  `json:"mem_usage"`
	MemLimit   uint64  `json:"mem_limit"`
	MemPercent float64 `json:"mem_percent"`

	NetRx      uint64 `json:"net_rx"`
	NetTx      uint64 `json:"net_tx"`
	BlockRead  uint64 `json:"block_read"`
	BlockWrite uint64 `json:"block_write"`
}

// ProcessInfo contains the per-process fields shown in the process table.
type ProcessInfo struct {
	PID  int32  `json:"pid"`
	PPID int32  `json:"ppid"`
	Name string `json:"name"`
	User string `json:"user"`

	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	MemRSS     uint64  `json:"mem_rss"`

	ReadBytesPerSec  float64 `json:"read_bytes_per_sec"`
	WriteBytesPerSec float64 `json:"write_bytes_per_sec"`

	Status  string    `json:"status"`
	Threads int32     `json:"threads"`
	Nice    int32     `json:"nice"`
	Started time.Time `json:"started"`
	Cmdline string    `json:"cmdline"`
}

// ProcessDetail contains the extended fields fetched on demand when a single
// process is inspected. Collecting these for every process every cycle would
// be too expensive, so they are read only for the selected PID.
type ProcessDetail struct {
	ProcessInfo

	Exe         string    `json:"exe"`
	Cwd         string    `json:"cwd"`
	CreateTime  time.Time `json:"create_time"`
	OpenFiles   int       `json:"open_files"`
	Connections int       `json:"connections"`
	MemVMS      uint64    `json:"mem_vms"`
	MemSwap     uint64    `json:"mem_swap"`
	ReadBytes   uint64    `json:"read_bytes"`
	WriteBytes  uint64    `json:"write_bytes"`
	Children    []int32   `json:"children,omitempty"`
}

// SensorReading is one temperature sensor sample.
type SensorReading struct {
	Name  string  `json:"name"`
	TempC float64 `json:"temp_c"`
}

// HostInfo contains mostly-static system identity plus uptime.
type HostInfo struct {
	Hostname        string          `json:"hostname"`
	OS              string          `json:"os"`
	Platform        string          `json:"platform"`
	PlatformVersion string          `json:"platform_version"`
	KernelVersion   string          `json:"kernel_version"`
	Arch            string          `json:"arch"`
	Virtualization  string          `json:"virtualization,omitempty"`
	Uptime          time.Duration   `json:"uptime"`
	BootTime        time.Time       `json:"boot_time"`
	Procs           uint64          `json:"procs"`
	Sensors         []SensorReading `json:"sensors,omitempty"`
}

// cpuSensorKeys orders sensor key fragments by how directly they report the
// CPU die temperature. Sensor naming varies per platform: Intel exposes
// "coretemp_packageid0", AMD "k10temp_tctl", older boards a bare "cpu".
var cpuSensorKeys = []string{"package", "tctl", "tdie", "coretemp", "k10temp", "cpu"}

// CPUTemp picks the sensor that best represents the CPU temperature. The
// second return is false when no sensor key looks CPU related.
func (h *HostInfo) CPUTemp() (SensorReading, bool) {
	best := len(cpuSensorKeys)
	var pick SensorReading
	for _, s := range h.Sensors {
		key := strings.ToLower(s.Name)
		for rank, frag := range cpuSensorKeys {
			if rank >= best {
				break
			}
			if strings.Contains(key, frag) {
				best = rank
				pick = s
				break
			}
		}
	}
	return pick, best < len(cpuSensorKeys)
}
