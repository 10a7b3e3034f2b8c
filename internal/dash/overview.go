package dash

import (
	"fmt"
	"strings"

	"github.com/mfenwick/vigil/internal/metrics"
)

// renderOverview composes the at-a-glance view: utilization gauges with
// history, throughput rates, and the busiest processes.
func (m Model) renderOverview() string {
	w := m.contentWidth()

	blocks := []string{
		m.overviewCPU(w),
		m.overviewMemory(w),
		m.overviewIO(w),
		m.overviewProcesses(w),
	}
	return strings.Join(blocks, "\n")
}

func (m Model) overviewCPU(w int) string {
	cpu := m.snap.CPU
	inner := w - 4

	if cpu == nil {
		return section("CPU", "n/a", w, []string{m.sourceNote("cpu")})
	}

	value := fmt.Sprintf("%.1f%%", cpu.Percent)

	gauge := ProgressBar(inner-7, cpu.Percent) + " " +
		MetricStyle(cpu.Percent).Render(fmt.Sprintf("%5.1f%%", cpu.Percent))

	info := LabelStyle.Render("load ") +
		ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", cpu.LoadAvg[0], cpu.LoadAvg[1], cpu.LoadAvg[2])) +
		LabelStyle.Render("   cores ") + ValueStyle.Render(fmt.Sprintf("%d", cpu.Cores)) +
		LabelStyle.Render("   freq ") + ValueStyle.Render(formatFreq(cpu.FreqMHz))

	lines := []string{gauge, info}
	lines = append(lines, m.historyGraph("cpu", inner, 2, cpu.Percent)...)

	return section("CPU", value, w, lines)
}

func (m Model) overviewMemory(w int) string {
	mem := m.snap.Memory
	inner := w - 4

	if mem == nil {
		return section("Memory", "n/a", w, []string{m.sourceNote("memory")})
	}

	value := fmt.Sprintf("%.1f%%", mem.Percent)

	gauge := ProgressBar(inner-7, mem.Percent) + " " +
		MetricStyle(mem.Percent).Render(fmt.Sprintf("%5.1f%%", mem.Percent))

	detail := LabelStyle.Render("used ") +
		ValueStyle.Render(formatBytes(mem.Used)+" / "+formatBytes(mem.Total)) +
		LabelStyle.Render("   swap ") +
		MetricStyle(mem.SwapPercent).Render(fmt.Sprintf("%s / %s (%.0f%%)",
			formatBytes(mem.SwapUsed), formatBytes(mem.SwapTotal), mem.SwapPercent))

	lines := []string{gauge, detail}
	lines = append(lines, m.historyGraph("mem", inner, 2, mem.Percent)...)

	return section("Memory", value, w, lines)
}

func (m Model) overviewIO(w int) string {
	inner := w - 4
	sparkW := inner/2 - 26
	if sparkW < 8 {
		sparkW = 8
	}

	var lines []string

	if io := m.snap.DiskIO; io != nil {
		read := RenderMiniSparkline(m.history("disk.read"), sparkW, ColorGraph)
		write := RenderMiniSparkline(m.history("disk.write"), sparkW, ColorAccentDim)
		lines = append(lines,
			LabelStyle.Render("disk  ")+
				ValueStyle.Render("R "+padCell(formatRate(io.ReadBytesPerSec), 11))+read+
				ValueStyle.Render("  W "+padCell(formatRate(io.WriteBytesPerSec), 11))+write)
	} else {
		lines = append(lines, LabelStyle.Render("disk  ")+m.sourceNote("disk"))
	}

	if m.snap.Network != nil {
		rx, tx := totalNetRates(m.snap)
		lines = append(lines,
			LabelStyle.Render("net   ")+
				ValueStyle.Render("↓ "+padCell(formatRate(rx), 11))+
				ValueStyle.Render("   ↑ "+padCell(formatRate(tx), 11)))
	} else {
		lines = append(lines, LabelStyle.Render("net   ")+m.sourceNote("network"))
	}

	return section("I/O", "", w, lines)
}

func (m Model) overviewProcesses(w int) string {
	procs := m.visibleProcesses()

	count := fmt.Sprintf("%d", len(procs))
	rows := []string{m.procHeader(w-4, true)}

	limit := 8
	if limit > len(procs) {
		limit = len(procs)
	}
	for i := 0; i < limit; i++ {
		rows = append(rows, m.procRow(procs[i], i == m.procSel, w-4, true))
	}
	if len(procs) == 0 {
		rows = append(rows, MutedStyle.Render("no processes match"))
	}

	title := "Processes"
	if q := m.filterInput.Value(); q != "" {
		title = "Processes /" + q
	}
	return section(title, count, w, rows)
}

// historyGraph renders a braille graph for a history stream, falling back to
// a gradient bar until at least two samples exist.
func (m Model) historyGraph(stream string, width, height int, current float64) []string {
	data := m.history(stream)
	if len(data) < 2 {
		return []string{RenderGradientBar(width, current)}
	}
	return strings.Split(RenderBrailleSparkline(data, width, height, ColorGraph), "\n")
}

// history fetches a stream's samples from the scheduler's ring buffers.
func (m Model) history(stream string) []float64 {
	h := m.sched.History()
	if h == nil {
		return nil
	}
	return h.All(stream)
}

// sourceNote explains why a section has no data, from the source's status.
func (m Model) sourceNote(name string) string {
	st := m.snap.Source(name)
	text := st.Outcome.String()
	if st.Err != "" {
		text += ": " + st.Err
	}
	return MutedStyle.Render(text)
}

// totalNetRates sums rates across physical interfaces.
func totalNetRates(snap *metrics.SystemSnapshot) (rx, tx float64) {
	for _, n := range snap.Network {
		if n.Loopback {
			continue
		}
		rx += n.RecvBytesPerSec
		tx += n.SentBytesPerSec
	}
	return rx, tx
}
