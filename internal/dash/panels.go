package dash

import (
	"fmt"
	"strings"
)

// renderCPUTab shows aggregate usage, per-core load, and thermals.
func (m Model) renderCPUTab() string {
	w := m.contentWidth()
	inner := w - 4
	cpu := m.snap.CPU

	if cpu == nil {
		return section("CPU", "n/a", w, []string{m.sourceNote("cpu")})
	}

	var blocks []string

	info := []string{
		LabelStyle.Render("model    ") + ValueStyle.Render(truncate(cpu.Model, inner-9)),
		LabelStyle.Render("cores    ") + ValueStyle.Render(fmt.Sprintf("%d logical / %d physical", cpu.Cores, cpu.Physical)),
		LabelStyle.Render("freq     ") + ValueStyle.Render(formatFreq(cpu.FreqMHz)),
		LabelStyle.Render("load     ") + ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", cpu.LoadAvg[0], cpu.LoadAvg[1], cpu.LoadAvg[2])),
	}
	blocks = append(blocks, section("Processor", fmt.Sprintf("%.1f%%", cpu.Percent), w, info))

	gauge := ProgressBar(inner-7, cpu.Percent) + " " +
		MetricStyle(cpu.Percent).Render(fmt.Sprintf("%5.1f%%", cpu.Percent))
	usage := []string{gauge}
	usage = append(usage, m.historyGraph("cpu", inner, 4, cpu.Percent)...)
	blocks = append(blocks, section("Usage", "", w, usage))

	if len(cpu.PerCore) > 0 {
		blocks = append(blocks, section("Per Core", "", w, perCoreLines(cpu.PerCore, inner)))
	}

	if m.snap.Host != nil && len(m.snap.Host.Sensors) > 0 {
		meta := ""
		if r, ok := m.snap.Host.CPUTemp(); ok {
			meta = fmt.Sprintf("cpu %.1f°C", r.TempC)
		}
		var temps []string
		for _, s := range m.snap.Host.Sensors {
			temps = append(temps,
				LabelStyle.Render(padCell(s.Name, 24))+
					TempStyle(s.TempC).Render(fmt.Sprintf("%5.1f°C", s.TempC)))
		}
		blocks = append(blocks, section("Temperature", meta, w, temps))
	}

	return strings.Join(blocks, "\n")
}

// perCoreLines lays the per-core bars out in two columns.
func perCoreLines(perCore []float64, inner int) []string {
	barW := inner/2 - 12
	if barW < 6 {
		barW = 6
	}

	cell := func(i int) string {
		return MutedStyle.Render(fmt.Sprintf("%3d ", i)) +
			ThinProgressBar(barW, perCore[i]) +
			MetricStyle(perCore[i]).Render(fmt.Sprintf(" %5.1f%%", perCore[i]))
	}

	half := (len(perCore) + 1) / 2
	var lines []string
	for i := 0; i < half; i++ {
		line := cell(i)
		if j := i + half; j < len(perCore) {
			line = padCell(line, inner/2) + cell(j)
		}
		lines = append(lines, line)
	}
	return lines
}

// renderMemoryTab shows RAM and swap with their history.
func (m Model) renderMemoryTab() string {
	w := m.contentWidth()
	inner := w - 4
	mem := m.snap.Memory

	if mem == nil {
		return section("Memory", "n/a", w, []string{m.sourceNote("memory")})
	}

	var blocks []string

	gauge := ProgressBar(inner-7, mem.Percent) + " " +
		MetricStyle(mem.Percent).Render(fmt.Sprintf("%5.1f%%", mem.Percent))

	breakdown := []string{
		gauge,
		LabelStyle.Render("used      ") + ValueStyle.Render(formatBytes(mem.Used)),
		LabelStyle.Render("available ") + ValueStyle.Render(formatBytes(mem.Available)),
		LabelStyle.Render("free      ") + ValueStyle.Render(formatBytes(mem.Free)),
		LabelStyle.Render("cached    ") + ValueStyle.Render(formatBytes(mem.Cached)),
		LabelStyle.Render("buffers   ") + ValueStyle.Render(formatBytes(mem.Buffers)),
	}
	breakdown = append(breakdown, m.historyGraph("mem", inner, 3, mem.Percent)...)
	blocks = append(blocks, section("RAM", formatBytes(mem.Used)+" / "+formatBytes(mem.Total), w, breakdown))

	if mem.SwapTotal > 0 {
		swapGauge := ProgressBar(inner-7, mem.SwapPercent) + " " +
			MetricStyle(mem.SwapPercent).Render(fmt.Sprintf("%5.1f%%", mem.SwapPercent))
		swap := []string{swapGauge}
		swap = append(swap, m.historyGraph("swap", inner, 2, mem.SwapPercent)...)
		blocks = append(blocks, section("Swap", formatBytes(mem.SwapUsed)+" / "+formatBytes(mem.SwapTotal), w, swap))
	} else {
		blocks = append(blocks, section("Swap", "", w, []string{MutedStyle.Render("no swap configured")}))
	}

	return strings.Join(blocks, "\n")
}

// renderDisksTab shows filesystem usage and per-device throughput.
func (m Model) renderDisksTab() string {
	w := m.contentWidth()
	inner := w - 4

	var blocks []string

	if len(m.snap.Disks) == 0 {
		blocks = append(blocks, section("Filesystems", "", w, []string{m.sourceNote("disk")}))
	} else {
		barW := inner - 58
		if barW < 10 {
			barW = 10
		}

		var lines []string
		for _, d := range m.snap.Disks {
			lines = append(lines,
				ValueStyle.Render(padCell(d.Mountpoint, 20))+
					MutedStyle.Render(padCell(d.Fstype, 10))+
					LabelStyle.Render(padCell(formatBytes(d.Used)+" / "+formatBytes(d.Total), 21))+
					ProgressBar(barW, d.Percent)+
					MetricStyle(d.Percent).Render(fmt.Sprintf(" %5.1f%%", d.Percent)))
		}
		blocks = append(blocks, section("Filesystems", fmt.Sprintf("%d mounted", len(m.snap.Disks)), w, lines))
	}

	if io := m.snap.DiskIO; io != nil {
		total := "R " + formatRate(io.ReadBytesPerSec) + "  W " + formatRate(io.WriteBytesPerSec)

		sparkW := inner - 50
		if sparkW < 10 {
			sparkW = 10
		}

		lines := []string{
			LabelStyle.Render("read  ") + RenderMiniSparkline(m.history("disk.read"), sparkW, ColorGraph) +
				ValueStyle.Render(" "+formatRate(io.ReadBytesPerSec)),
			LabelStyle.Render("write ") + RenderMiniSparkline(m.history("disk.write"), sparkW, ColorAccentDim) +
				ValueStyle.Render(" "+formatRate(io.WriteBytesPerSec)),
		}

		if len(io.Devices) > 0 {
			lines = append(lines, "")
			lines = append(lines, TableHeaderStyle.Render(
				padCell("DEVICE", 16)+padCell("READ", 14)+padCell("WRITE", 14)))
			for _, dev := range io.Devices {
				lines = append(lines,
					ValueStyle.Render(padCell(dev.Name, 16))+
						LabelStyle.Render(padCell(formatRate(dev.ReadBytesPerSec), 14))+
						LabelStyle.Render(padCell(formatRate(dev.WriteBytesPerSec), 14)))
			}
		}
		blocks = append(blocks, section("Throughput", total, w, lines))
	}

	return strings.Join(blocks, "\n")
}

// renderNetworkTab shows one panel per interface with rates and counters.
func (m Model) renderNetworkTab() string {
	w := m.contentWidth()
	inner := w - 4

	if m.snap.Network == nil {
		return section("Network", "n/a", w, []string{m.sourceNote("network")})
	}
	if len(m.snap.Network) == 0 {
		return section("Network", "", w, []string{MutedStyle.Render("no interfaces detected")})
	}

	var blocks []string
	for _, iface := range m.snap.Network {
		value := "↓ " + formatRate(iface.RecvBytesPerSec) + "  ↑ " + formatRate(iface.SentBytesPerSec)

		var lines []string
		if len(iface.Addrs) > 0 {
			lines = append(lines, LabelStyle.Render("addr   ")+ValueStyle.Render(strings.Join(iface.Addrs, ", ")))
		}
		lines = append(lines,
			LabelStyle.Render("total  ")+
				ValueStyle.Render("↓ "+padCell(formatBytes(iface.BytesRecv), 12)+" ↑ "+formatBytes(iface.BytesSent)),
			LabelStyle.Render("pkts   ")+
				ValueStyle.Render(fmt.Sprintf("↓ %-12d ↑ %d", iface.PacketsRecv, iface.PacketsSent)))

		if iface.ErrIn > 0 || iface.ErrOut > 0 {
			lines = append(lines,
				LabelStyle.Render("errors ")+
					StatusErrStyle.Render(fmt.Sprintf("in %d, out %d", iface.ErrIn, iface.ErrOut)))
		}

		if !iface.Loopback {
			rxSpark := RenderMiniSparkline(m.history("net."+iface.Name+".rx"), inner-10, ColorGraph)
			txSpark := RenderMiniSparkline(m.history("net."+iface.Name+".tx"), inner-10, ColorAccentDim)
			lines = append(lines,
				MutedStyle.Render("rx ")+rxSpark,
				MutedStyle.Render("tx ")+txSpark)
		}

		title := iface.Name
		if iface.Loopback {
			title += " (loopback)"
		}
		blocks = append(blocks, section(title, value, w, lines))
	}

	return strings.Join(blocks, "\n")
}
