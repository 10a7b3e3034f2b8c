package metrics

import "path/filepath"

// readIntelCard reads i915 telemetry for one card from sysfs. Integrated
// Intel graphics share system RAM and the driver exposes no utilization or
// memory counters there, so usually only the clock is available.
func readIntelCard(cardDir, name string) GPUDevice {
	dev := GPUDevice{Vendor: VendorIntel, Name: name}

	if v, ok := readSysfsUint(filepath.Join(cardDir, "gt_cur_freq_mhz")); ok {
		dev.ClockMHz = fptr(float64(v))
	}

	return dev
}
