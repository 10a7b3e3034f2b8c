package metrics

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/mfenwick/vigil/internal/errors"
)

// HostCollector reads system identity, uptime and temperature sensors.
type HostCollector struct{}

// NewHostCollector creates a host info collector.
func NewHostCollector() *HostCollector {
	return &HostCollector{}
}

// Name implements Collector.
func (c *HostCollector) Name() string { return "host" }

// Collect implements Collector.
func (c *HostCollector) Collect(ctx context.Context) (Apply, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to read host info", "")
	}

	hi := &HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Arch:            info.KernelArch,
		Virtualization:  info.VirtualizationSystem,
		Uptime:          time.Duration(info.Uptime) * time.Second,
		BootTime:        time.Unix(int64(info.BootTime), 0),
		Procs:           info.Procs,
	}

	// Sensor support varies a lot, absence is not an error
	if temps, err := host.SensorsTemperaturesWithContext(ctx); err == nil {
		for _, t := range temps {
			if t.Temperature <= 0 {
				continue
			}
			hi.Sensors = append(hi.Sensors, SensorReading{
				Name:  t.SensorKey,
				TempC: t.Temperature,
			})
		}
	}

	return func(s *SystemSnapshot) { s.Host = hi }, nil
}
