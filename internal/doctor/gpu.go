package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mfenwick/vigil/internal/exec"
)

// GPU presence is informational: a machine without a discrete GPU is not
// broken, so every check in this category warns at worst.

// NvidiaSMICheck verifies the NVIDIA driver tooling answers.
type NvidiaSMICheck struct {
	Enabled bool
	Runner  exec.Runner
}

func (c *NvidiaSMICheck) Name() string     { return "nvidia_smi" }
func (c *NvidiaSMICheck) Category() string { return "GPU" }

func (c *NvidiaSMICheck) Run(ctx context.Context) CheckResult {
	if !c.Enabled {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "GPU polling disabled",
		}
	}

	res, err := c.Runner.Run(ctx, "nvidia-smi", "--list-gpus")
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "nvidia-smi not installed (no NVIDIA telemetry)",
		}
	}

	if !res.Ok() {
		// Tool installed but the driver is not answering.
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "nvidia-smi cannot talk to the NVIDIA driver",
			Suggestion: "Check the nvidia kernel module is loaded (lsmod | grep nvidia)",
		}
	}

	count := 0
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "GPU ") {
			count++
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d NVIDIA GPU%s visible", count, pluralize(count)),
	}
}

func (c *NvidiaSMICheck) Fix() error {
	return nil // Driver installation is out of scope
}

// DRMCheck counts DRM cards in sysfs; these drive AMD and Intel telemetry.
type DRMCheck struct {
	Enabled bool
	Sysfs   string // defaults to /sys/class/drm
}

func (c *DRMCheck) Name() string     { return "drm_cards" }
func (c *DRMCheck) Category() string { return "GPU" }

var drmCardRe = regexp.MustCompile(`^card\d+$`)

func (c *DRMCheck) Run(ctx context.Context) CheckResult {
	if !c.Enabled {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "GPU polling disabled",
		}
	}

	sysfs := c.Sysfs
	if sysfs == "" {
		sysfs = "/sys/class/drm"
	}

	entries, err := os.ReadDir(sysfs)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("cannot read %s", sysfs),
		}
	}

	vendors := make(map[string]int)
	count := 0
	for _, e := range entries {
		// Connector entries like card0-eDP-1 are not cards.
		if !drmCardRe.MatchString(e.Name()) {
			continue
		}
		count++

		data, err := os.ReadFile(filepath.Join(sysfs, e.Name(), "device", "vendor"))
		if err != nil {
			continue
		}
		vendors[vendorName(strings.TrimSpace(string(data)))]++
	}

	if count == 0 {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "no DRM cards in sysfs (GPU tab will show unavailable)",
		}
	}

	names := make([]string, 0, len(vendors))
	for v, n := range vendors {
		if n > 1 {
			v = fmt.Sprintf("%s x%d", v, n)
		}
		names = append(names, v)
	}
	sort.Strings(names)

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d DRM card%s (%s)", count, pluralize(count), strings.Join(names, ", ")),
	}
}

func (c *DRMCheck) Fix() error {
	return nil
}

// vendorName maps a sysfs PCI vendor ID to a display name.
func vendorName(id string) string {
	switch strings.ToLower(id) {
	case "0x10de":
		return "NVIDIA"
	case "0x1002":
		return "AMD"
	case "0x8086":
		return "Intel"
	default:
		return id
	}
}

// NewGPUChecks creates the GPU telemetry checks.
func NewGPUChecks(enabled bool, runner exec.Runner) []Check {
	return []Check{
		&NvidiaSMICheck{Enabled: enabled, Runner: runner},
		&DRMCheck{Enabled: enabled},
	}
}
