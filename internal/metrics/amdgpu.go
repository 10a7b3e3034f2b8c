package metrics

import "path/filepath"

// readAMDCard reads amdgpu telemetry for one card from sysfs. Every field is
// optional: older kernels and APUs expose only a subset, and whatever is
// missing stays nil.
//
// Layout under cardN/device:
//
//	gpu_busy_percent        utilization, percent
//	mem_info_vram_used      bytes
//	mem_info_vram_total     bytes
//	hwmon/hwmon*/temp1_input     millidegrees C
//	hwmon/hwmon*/power1_average  microwatts
//	hwmon/hwmon*/freq1_input     Hz
func readAMDCard(cardDir, name string) GPUDevice {
	dev := GPUDevice{Vendor: VendorAMD, Name: name}
	deviceDir := filepath.Join(cardDir, "device")

	if v, ok := readSysfsUint(filepath.Join(deviceDir, "gpu_busy_percent")); ok {
		dev.UtilPercent = fptr(float64(v))
	}
	if v, ok := readSysfsUint(filepath.Join(deviceDir, "mem_info_vram_used")); ok {
		dev.MemoryUsed = uptr(v)
	}
	if v, ok := readSysfsUint(filepath.Join(deviceDir, "mem_info_vram_total")); ok {
		dev.MemoryTotal = uptr(v)
	}

	for _, hwmon := range hwmonDirs(deviceDir) {
		if v, ok := readSysfsUint(filepath.Join(hwmon, "temp1_input")); ok {
			dev.TempC = fptr(float64(v) / 1000)
		}
		if v, ok := readSysfsUint(filepath.Join(hwmon, "power1_average")); ok {
			dev.PowerWatts = fptr(float64(v) / 1e6)
		}
		if v, ok := readSysfsUint(filepath.Join(hwmon, "freq1_input")); ok {
			dev.ClockMHz = fptr(float64(v) / 1e6)
		}
	}

	return dev
}

// hwmonDirs lists the hwmon instances bound to a device.
func hwmonDirs(deviceDir string) []string {
	dirs, _ := filepath.Glob(filepath.Join(deviceDir, "hwmon", "hwmon*"))
	return dirs
}
