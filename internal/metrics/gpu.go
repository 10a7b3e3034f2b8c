package metrics

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jaypipes/ghw"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
)

// gpuMetaTTL bounds how long the PCI identity cache is trusted. Enumeration
// of live cards stays per-cycle; only the name lookup is cached.
const gpuMetaTTL = 5 * time.Minute

// PCI vendor IDs as they appear in sysfs.
const (
	vendorIDNVIDIA = "0x10de"
	vendorIDAMD    = "0x1002"
	vendorIDIntel  = "0x8086"
)

var cardDirRe = regexp.MustCompile(`^card(\d+)$`)

// GPUCollector reads GPU telemetry from vendor-specific sources: nvidia-smi
// for NVIDIA, sysfs for AMD and Intel. Cards are enumerated fresh every
// cycle; device names come from a TTL-cached PCI database lookup.
type GPUCollector struct {
	runner exec.Runner
	sysfs  string

	meta   map[string]gpuMeta // pci address -> identity
	metaAt time.Time
}

// gpuMeta is the static identity of one card from the PCI database.
type gpuMeta struct {
	vendor string
	name   string
	driver string
}

// NewGPUCollector creates a GPU collector.
func NewGPUCollector(runner exec.Runner) *GPUCollector {
	return &GPUCollector{
		runner: runner,
		sysfs:  "/sys/class/drm",
	}
}

// Name implements Collector.
func (c *GPUCollector) Name() string { return "gpu" }

// Collect implements Collector.
func (c *GPUCollector) Collect(ctx context.Context) (Apply, error) {
	var devices []GPUDevice

	smiDevices, smiErr := c.collectNvidia(ctx)
	devices = append(devices, smiDevices...)
	smiAbsent := smiErr != nil && errors.IsCode(smiErr, errors.ErrUnavailable)

	for _, card := range c.scanCards() {
		switch card.vendorID {
		case vendorIDAMD:
			devices = append(devices, readAMDCard(card.dir, c.lookupName(card.address, "AMD GPU")))
		case vendorIDIntel:
			devices = append(devices, readIntelCard(card.dir, c.lookupName(card.address, "Intel GPU")))
		case vendorIDNVIDIA:
			// nvidia-smi already covered it; without the tool the card is
			// still listed, just with no telemetry
			if smiAbsent {
				devices = append(devices, GPUDevice{
					Vendor: VendorNVIDIA,
					Name:   c.lookupName(card.address, "NVIDIA GPU"),
				})
			}
		}
	}

	if len(devices) == 0 {
		if smiErr != nil && !smiAbsent {
			return nil, smiErr
		}
		return nil, errors.NewUnavailable("gpu", "no GPU devices detected")
	}

	for i := range devices {
		devices[i].Index = i
	}

	return func(s *SystemSnapshot) { s.GPUs = devices }, nil
}

// sysfsCard is one /sys/class/drm/cardN entry.
type sysfsCard struct {
	dir      string
	num      int
	vendorID string
	address  string
}

// scanCards enumerates DRM cards. Connector entries like card0-eDP-1 are
// skipped; only whole cards count.
func (c *GPUCollector) scanCards() []sysfsCard {
	entries, err := os.ReadDir(c.sysfs)
	if err != nil {
		return nil
	}

	var cards []sysfsCard
	for _, e := range entries {
		m := cardDirRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		dir := filepath.Join(c.sysfs, e.Name())

		vendor, ok := readSysfsString(filepath.Join(dir, "device", "vendor"))
		if !ok {
			continue
		}

		cards = append(cards, sysfsCard{
			dir:      dir,
			num:      num,
			vendorID: strings.ToLower(vendor),
			address:  pciAddress(dir),
		})
	}
	return cards
}

// pciAddress resolves cardN/device to its PCI bus address.
func pciAddress(cardDir string) string {
	target, err := filepath.EvalSymlinks(filepath.Join(cardDir, "device"))
	if err != nil {
		return ""
	}
	return strings.ToLower(filepath.Base(target))
}

// lookupName returns the product name for a PCI address, falling back when
// the PCI database has nothing.
func (c *GPUCollector) lookupName(address, fallback string) string {
	if address != "" {
		if m, ok := c.loadMeta()[address]; ok && m.name != "" {
			return m.name
		}
	}
	return fallback
}

// loadMeta enumerates graphics cards through the PCI database, cached.
func (c *GPUCollector) loadMeta() map[string]gpuMeta {
	if c.meta != nil && time.Since(c.metaAt) < gpuMetaTTL {
		return c.meta
	}

	meta := make(map[string]gpuMeta)
	if info, err := ghw.GPU(); err == nil {
		for _, card := range info.GraphicsCards {
			if card.DeviceInfo == nil {
				continue
			}
			m := gpuMeta{driver: strings.TrimSpace(card.DeviceInfo.Driver)}
			if card.DeviceInfo.Vendor != nil {
				m.vendor = strings.TrimSpace(card.DeviceInfo.Vendor.Name)
			}
			if card.DeviceInfo.Product != nil {
				m.name = strings.TrimSpace(card.DeviceInfo.Product.Name)
			}
			meta[strings.ToLower(card.Address)] = m
		}
	}

	c.meta = meta
	c.metaAt = time.Now()
	return meta
}

// readSysfsString reads a single-line sysfs attribute.
func readSysfsString(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// readSysfsUint reads a numeric sysfs attribute.
func readSysfsUint(path string) (uint64, bool) {
	s, ok := readSysfsString(path)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func fptr(v float64) *float64 { return &v }
func uptr(v uint64) *uint64   { return &v }
