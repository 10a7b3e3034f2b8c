package config

import "time"

// Config represents the complete vigil configuration.
type Config struct {
	// RefreshMS is the snapshot refresh interval in milliseconds.
	RefreshMS int `yaml:"refresh_ms" mapstructure:"refresh_ms"`

	// History is the number of samples retained per metric stream.
	History int `yaml:"history" mapstructure:"history"`

	// SafeMode disables GPU and container polling and all system mutations.
	SafeMode bool `yaml:"safe_mode" mapstructure:"safe_mode"`

	// Docker enables container polling via the Docker daemon socket.
	Docker bool `yaml:"docker" mapstructure:"docker"`

	// GPU enables GPU device polling (NVIDIA, AMD, Intel).
	GPU bool `yaml:"gpu" mapstructure:"gpu"`

	// Network enables per-interface network polling.
	Network bool `yaml:"network" mapstructure:"network"`

	// ShowSystemProcesses includes kernel threads and root daemons
	// in the process table by default.
	ShowSystemProcesses bool `yaml:"show_system_processes" mapstructure:"show_system_processes"`

	// JournalLines is the number of journal entries fetched per query.
	JournalLines int `yaml:"journal_lines" mapstructure:"journal_lines"`

	// GrubPath is the bootloader config file managed by the config editor.
	GrubPath string `yaml:"grub_path" mapstructure:"grub_path"`
}

// Bounds for numeric settings. Out-of-range values are clamped, not rejected,
// so a hand-edited config never prevents the dashboard from starting.
const (
	MinRefreshMS = 100
	MaxRefreshMS = 10000

	MinHistory = 10
	MaxHistory = 300

	MinJournalLines = 10
	MaxJournalLines = 5000
)

// DefaultGrubPath is the standard GRUB defaults file on most distros.
const DefaultGrubPath = "/etc/default/grub"

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RefreshMS:           1000,
		History:             60,
		SafeMode:            false,
		Docker:              true,
		GPU:                 true,
		Network:             true,
		ShowSystemProcesses: false,
		JournalLines:        100,
		GrubPath:            DefaultGrubPath,
	}
}

// Refresh returns the snapshot refresh interval as a duration.
func (c *Config) Refresh() time.Duration {
	return time.Duration(c.RefreshMS) * time.Millisecond
}

// CollectorTimeout returns the per-collector deadline for one refresh cycle.
// Collectors that miss it report a timeout for that cycle instead of
// delaying the snapshot.
func (c *Config) CollectorTimeout() time.Duration {
	return c.Refresh() / 2
}
