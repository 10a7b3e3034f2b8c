package dash

import (
	"fmt"
	"strings"

	"github.com/mfenwick/vigil/internal/metrics"
)

// Process table column widths. Name takes whatever remains.
const (
	colPID    = 8
	colUser   = 11
	colCPU    = 7
	colMem    = 7
	colRSS    = 11
	colIORate = 12
	colThr    = 5
	colState  = 3
)

// renderProcessesTab shows the full table, or the inspector once a row has
// been opened with enter.
func (m Model) renderProcessesTab() string {
	if m.detailOpen {
		return m.renderProcessDetail()
	}

	w := m.contentWidth()
	inner := w - 4
	procs := m.visibleProcesses()

	rows := []string{m.procHeader(inner, false)}

	// Keep the selection visible by windowing the rows around it
	visible := m.contentHeight() - 5
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.procSel >= visible {
		start = m.procSel - visible + 1
	}
	end := start + visible
	if end > len(procs) {
		end = len(procs)
	}

	for i := start; i < end; i++ {
		rows = append(rows, m.procRow(procs[i], i == m.procSel, inner, false))
	}
	if len(procs) == 0 {
		rows = append(rows, MutedStyle.Render("no processes match"))
	}

	title := "Processes"
	if q := m.filterInput.Value(); q != "" {
		title = "Processes /" + q
	}

	value := fmt.Sprintf("%d shown, sort %s", len(procs), m.sortMode)
	if m.sortReverse {
		value += " rev"
	}
	if !m.showSystem {
		value += ", user only"
	}

	return section(title, value, w, rows)
}

// procHeader renders the column header, marking the active sort column.
func (m Model) procHeader(inner int, compact bool) string {
	mark := func(label string, mode metrics.SortMode) string {
		if m.sortMode != mode {
			return label
		}
		if m.sortReverse {
			return strings.TrimRight(label, " ") + "▲"
		}
		return strings.TrimRight(label, " ") + "▼"
	}

	cells := padCell(mark("PID", metrics.SortPID), colPID) +
		padCell("USER", colUser) +
		padCell(mark("CPU%", metrics.SortCPU), colCPU) +
		padCell(mark("MEM%", metrics.SortMemory), colMem)

	if !compact {
		cells += padCell("RSS", colRSS) +
			padCell(mark("DISK R/W", metrics.SortDiskIO), colIORate+colIORate) +
			padCell("THR", colThr) +
			padCell("S", colState)
	}

	cells += mark("NAME", metrics.SortName)
	return TableHeaderStyle.Render(padCell(cells, inner))
}

// procRow renders one process line. Selected rows carry a background fill,
// so they are built unstyled and painted as a unit.
func (m Model) procRow(p metrics.ProcessInfo, selected bool, inner int, compact bool) string {
	name := p.Name
	if !compact && p.Cmdline != "" {
		name = p.Cmdline
	}

	if selected {
		line := padCell(fmt.Sprintf("%-*d", colPID-1, p.PID), colPID) +
			padCell(p.User, colUser) +
			padCell(fmt.Sprintf("%.1f", p.CPUPercent), colCPU) +
			padCell(fmt.Sprintf("%.1f", p.MemPercent), colMem)
		if !compact {
			line += padCell(formatBytes(p.MemRSS), colRSS) +
				padCell(formatRate(p.ReadBytesPerSec), colIORate) +
				padCell(formatRate(p.WriteBytesPerSec), colIORate) +
				padCell(fmt.Sprintf("%d", p.Threads), colThr) +
				padCell(p.Status, colState)
		}
		line += name
		return SelectedRowStyle.Render(padCell(line, inner))
	}

	row := MutedStyle.Render(padCell(fmt.Sprintf("%-*d", colPID-1, p.PID), colPID)) +
		LabelStyle.Render(padCell(p.User, colUser)) +
		MetricStyle(p.CPUPercent).Render(padCell(fmt.Sprintf("%.1f", p.CPUPercent), colCPU)) +
		MetricStyle(p.MemPercent).Render(padCell(fmt.Sprintf("%.1f", p.MemPercent), colMem))

	used := colPID + colUser + colCPU + colMem
	if !compact {
		row += LabelStyle.Render(padCell(formatBytes(p.MemRSS), colRSS)) +
			LabelStyle.Render(padCell(formatRate(p.ReadBytesPerSec), colIORate)) +
			LabelStyle.Render(padCell(formatRate(p.WriteBytesPerSec), colIORate)) +
			MutedStyle.Render(padCell(fmt.Sprintf("%d", p.Threads), colThr)) +
			MutedStyle.Render(padCell(p.Status, colState))
		used += colRSS + colIORate + colIORate + colThr + colState
	}

	nameW := inner - used
	if nameW < 8 {
		nameW = 8
	}
	row += ValueStyle.Render(padCell(name, nameW))
	return row
}

// renderProcessDetail shows the on-demand inspector for the opened process.
func (m Model) renderProcessDetail() string {
	w := m.contentWidth()

	if m.detailErr != nil {
		return section("Inspect", "", w, []string{
			StatusErrStyle.Render(errLine(m.detailErr)),
			MutedStyle.Render("esc to go back"),
		})
	}
	if m.procDetail == nil {
		spinner := m.spin.View()
		return section("Inspect", "", w, []string{
			TitleStyle.Render(spinner) + LabelStyle.Render(" reading process..."),
		})
	}

	d := m.procDetail
	inner := w - 4

	identity := []string{
		LabelStyle.Render("pid      ") + ValueStyle.Render(fmt.Sprintf("%d", d.PID)) +
			LabelStyle.Render("   parent ") + ValueStyle.Render(fmt.Sprintf("%d", d.PPID)),
		LabelStyle.Render("user     ") + ValueStyle.Render(d.User),
		LabelStyle.Render("status   ") + ValueStyle.Render(d.Status) +
			LabelStyle.Render("   nice ") + ValueStyle.Render(fmt.Sprintf("%d", d.Nice)) +
			LabelStyle.Render("   threads ") + ValueStyle.Render(fmt.Sprintf("%d", d.Threads)),
		LabelStyle.Render("started  ") + ValueStyle.Render(d.CreateTime.Format("2006-01-02 15:04:05")),
		LabelStyle.Render("exe      ") + ValueStyle.Render(truncate(d.Exe, inner-9)),
		LabelStyle.Render("cwd      ") + ValueStyle.Render(truncate(d.Cwd, inner-9)),
		LabelStyle.Render("cmdline  ") + ValueStyle.Render(truncate(d.Cmdline, inner-9)),
	}

	resources := []string{
		LabelStyle.Render("cpu      ") + MetricStyle(d.CPUPercent).Render(fmt.Sprintf("%.1f%%", d.CPUPercent)),
		LabelStyle.Render("memory   ") + MetricStyle(d.MemPercent).Render(fmt.Sprintf("%.1f%%", d.MemPercent)) +
			LabelStyle.Render("   rss ") + ValueStyle.Render(formatBytes(d.MemRSS)) +
			LabelStyle.Render("   vms ") + ValueStyle.Render(formatBytes(d.MemVMS)) +
			LabelStyle.Render("   swap ") + ValueStyle.Render(formatBytes(d.MemSwap)),
		LabelStyle.Render("disk     ") +
			ValueStyle.Render("R "+formatRate(d.ReadBytesPerSec)+"  W "+formatRate(d.WriteBytesPerSec)) +
			MutedStyle.Render(fmt.Sprintf("  (total R %s, W %s)", formatBytes(d.ReadBytes), formatBytes(d.WriteBytes))),
		LabelStyle.Render("handles  ") +
			ValueStyle.Render(fmt.Sprintf("%d open files, %d connections", d.OpenFiles, d.Connections)),
	}

	blocks := []string{
		section("Process "+d.Name, fmt.Sprintf("pid %d", d.PID), w, identity),
		section("Resources", "", w, resources),
	}

	if len(d.Children) > 0 {
		var kids []string
		for _, pid := range d.Children {
			kids = append(kids, fmt.Sprintf("%d", pid))
		}
		blocks = append(blocks, section("Children", fmt.Sprintf("%d", len(d.Children)), w,
			[]string{ValueStyle.Render(truncate(strings.Join(kids, " "), inner))}))
	}

	blocks = append(blocks, FooterStyle.Render("esc back"))
	return strings.Join(blocks, "\n")
}
