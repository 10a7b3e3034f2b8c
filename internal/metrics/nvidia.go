package metrics

import (
	"context"
	"strconv"
	"strings"

	"github.com/mfenwick/vigil/internal/errors"
)

// nvidiaSMIQuery selects the per-GPU fields, one CSV line per device.
const nvidiaSMIQuery = "name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw,driver_version"

// collectNvidia queries nvidia-smi for all NVIDIA devices. A missing binary
// or a driver that cannot answer maps to unavailable, not an error.
func (c *GPUCollector) collectNvidia(ctx context.Context) ([]GPUDevice, error) {
	res, err := c.runner.Run(ctx, "nvidia-smi",
		"--query-gpu="+nvidiaSMIQuery,
		"--format=csv,noheader,nounits")
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		// nvidia-smi exits non-zero when the driver is not loaded
		return nil, errors.NewUnavailable("gpu", "nvidia-smi could not reach the driver")
	}

	return parseNvidiaSMI(res.Stdout)
}

// parseNvidiaSMI parses CSV output from:
//
//	nvidia-smi --query-gpu=name,...,driver_version --format=csv,noheader,nounits
//
// Individual fields may read "[N/A]" depending on the card, those stay nil.
// Malformed lines are skipped; if nothing parses out of non-empty output the
// whole read is a parse error.
func parseNvidiaSMI(output string) ([]GPUDevice, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, errors.NewUnavailable("gpu", "nvidia-smi reported no devices")
	}

	lower := strings.ToLower(output)
	if strings.Contains(lower, "no devices") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "error") {
		return nil, errors.NewUnavailable("gpu", "nvidia-smi reported no devices")
	}

	var devices []GPUDevice
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			continue
		}

		name := strings.TrimSpace(fields[0])
		if name == "" {
			continue
		}

		dev := GPUDevice{Vendor: VendorNVIDIA, Name: name}

		if v, ok := smiFloat(fields[1]); ok {
			dev.UtilPercent = fptr(v)
		}
		if v, ok := smiFloat(fields[2]); ok {
			// MiB to bytes
			dev.MemoryUsed = uptr(uint64(v) * 1024 * 1024)
		}
		if v, ok := smiFloat(fields[3]); ok {
			dev.MemoryTotal = uptr(uint64(v) * 1024 * 1024)
		}
		if v, ok := smiFloat(fields[4]); ok {
			dev.TempC = fptr(v)
		}
		if v, ok := smiFloat(fields[5]); ok {
			dev.PowerWatts = fptr(v)
		}
		if len(fields) > 6 {
			if drv := strings.TrimSpace(fields[6]); drv != "" && drv != "[N/A]" {
				dev.Driver = drv
			}
		}

		devices = append(devices, dev)
	}

	if len(devices) == 0 {
		return nil, errors.New(errors.ErrParse,
			"Could not parse nvidia-smi output",
			"Check 'nvidia-smi --format=csv' works on this machine")
	}

	return devices, nil
}

// smiFloat parses one CSV field, treating the nvidia-smi N/A markers and
// garbage as absent.
func smiFloat(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if s == "" || s == "[N/A]" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
