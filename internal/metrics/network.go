package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/util"
)

// NetworkCollector reads per-interface I/O counters and computes throughput
// from deltas. Interfaces are enumerated fresh every cycle so a hot-plugged
// USB NIC or a new VPN tunnel appears on the next refresh.
type NetworkCollector struct {
	prev   map[string]net.IOCountersStat
	prevAt time.Time
}

// NewNetworkCollector creates a network collector.
func NewNetworkCollector() *NetworkCollector {
	return &NetworkCollector{
		prev: make(map[string]net.IOCountersStat),
	}
}

// Name implements Collector.
func (c *NetworkCollector) Name() string { return "network" }

// Collect implements Collector.
func (c *NetworkCollector) Collect(ctx context.Context) (Apply, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExternal,
			"Failed to read network counters", "")
	}

	// Addresses and flags come from a second enumeration, keyed by name
	addrs := make(map[string][]string)
	loopback := make(map[string]bool)
	if ifaces, err := net.InterfacesWithContext(ctx); err == nil {
		for _, iface := range ifaces {
			var list []string
			for _, a := range iface.Addrs {
				list = append(list, a.Addr)
			}
			addrs[iface.Name] = list
			for _, f := range iface.Flags {
				if f == "loopback" {
					loopback[iface.Name] = true
				}
			}
		}
	}

	now := time.Now()
	elapsed := now.Sub(c.prevAt)

	cur := make(map[string]net.IOCountersStat, len(counters))
	var stats []NetworkStats
	for _, st := range counters {
		cur[st.Name] = st

		ns := NetworkStats{
			Name:        st.Name,
			Addrs:       addrs[st.Name],
			BytesRecv:   st.BytesRecv,
			BytesSent:   st.BytesSent,
			PacketsRecv: st.PacketsRecv,
			PacketsSent: st.PacketsSent,
			ErrIn:       st.Errin,
			ErrOut:      st.Errout,
			Loopback:    loopback[st.Name] || st.Name == "lo" || st.Name == "lo0",
		}

		if prev, ok := c.prev[st.Name]; ok {
			ns.RecvBytesPerSec = util.RatePerSec(util.CounterDelta(st.BytesRecv, prev.BytesRecv), elapsed)
			ns.SentBytesPerSec = util.RatePerSec(util.CounterDelta(st.BytesSent, prev.BytesSent), elapsed)
		}

		stats = append(stats, ns)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

	c.prev = cur
	c.prevAt = now

	return func(s *SystemSnapshot) { s.Network = stats }, nil
}

// TotalRates sums throughput across all non-loopback interfaces.
func TotalRates(stats []NetworkStats) (recvPerSec, sentPerSec float64) {
	for _, st := range stats {
		if st.Loopback {
			continue
		}
		recvPerSec += st.RecvBytesPerSec
		sentPerSec += st.SentBytesPerSec
	}
	return
}
