package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mfenwick/vigil/internal/metrics"
)

// renderGPUTab shows one panel per GPU. Vendors report different telemetry,
// so absent readings render as n/a rather than zero.
func (m Model) renderGPUTab() string {
	w := m.contentWidth()
	inner := w - 4

	if len(m.snap.GPUs) == 0 {
		return section("GPU", "", w, []string{m.gpuAbsenceNote()})
	}

	var blocks []string
	for _, gpu := range m.snap.GPUs {
		title := fmt.Sprintf("%s %d", gpu.Vendor, gpu.Index)

		var lines []string

		driver := gpu.Driver
		if driver == "" {
			driver = "unknown driver"
		}
		lines = append(lines, MutedStyle.Render(driver))

		if gpu.UtilPercent != nil {
			lines = append(lines,
				LabelStyle.Render("util  ")+ProgressBar(inner-14, *gpu.UtilPercent)+
					MetricStyle(*gpu.UtilPercent).Render(fmt.Sprintf(" %5.1f%%", *gpu.UtilPercent)))
		} else {
			lines = append(lines, LabelStyle.Render("util  ")+MutedStyle.Render("n/a"))
		}

		if gpu.MemoryUsed != nil && gpu.MemoryTotal != nil && *gpu.MemoryTotal > 0 {
			pct := float64(*gpu.MemoryUsed) / float64(*gpu.MemoryTotal) * 100
			lines = append(lines,
				LabelStyle.Render("vram  ")+ProgressBar(inner-14, pct)+
					MetricStyle(pct).Render(fmt.Sprintf(" %5.1f%%", pct)),
				LabelStyle.Render("      ")+
					ValueStyle.Render(formatBytes(*gpu.MemoryUsed)+" / "+formatBytes(*gpu.MemoryTotal))+
					"  "+RenderMiniSparkline(m.history(fmt.Sprintf("gpu%d.mem", gpu.Index)), inner-40, ColorAccentDim))
		} else {
			lines = append(lines, LabelStyle.Render("vram  ")+MutedStyle.Render("n/a"))
		}

		stats := LabelStyle.Render("temp ") + renderTemp(gpu.TempC) +
			LabelStyle.Render("   power ") + renderWatts(gpu.PowerWatts) +
			LabelStyle.Render("   clock ") + renderClock(gpu.ClockMHz)
		lines = append(lines, stats)

		if gpu.UtilPercent != nil {
			lines = append(lines, m.historyGraph(fmt.Sprintf("gpu%d", gpu.Index), inner, 2, *gpu.UtilPercent)...)
		}

		blocks = append(blocks, section(title, gpu.Name, w, lines))
	}

	return strings.Join(blocks, "\n")
}

// gpuAbsenceNote explains an empty GPU list from the source status.
func (m Model) gpuAbsenceNote() string {
	st := m.snap.Source("gpu")
	switch st.Outcome {
	case metrics.OutcomeDisabled:
		if !m.gate.PollGPU() {
			return MutedStyle.Render("GPU polling is off in safe mode")
		}
		return MutedStyle.Render("GPU polling is disabled in the config")
	case metrics.OutcomeUnavailable:
		return MutedStyle.Render("no GPU detected (no NVIDIA, AMD, or Intel device found)")
	default:
		return m.sourceNote("gpu")
	}
}

func renderTemp(v *float64) string {
	if v == nil {
		return MutedStyle.Render("n/a")
	}
	return TempStyle(*v).Render(fmt.Sprintf("%.0f°C", *v))
}

func renderWatts(v *float64) string {
	if v == nil {
		return MutedStyle.Render("n/a")
	}
	return ValueStyle.Render(fmt.Sprintf("%.0fW", *v))
}

func renderClock(v *float64) string {
	if v == nil {
		return MutedStyle.Render("n/a")
	}
	return ValueStyle.Render(formatFreq(*v))
}

// renderContainersTab shows the Docker container table.
func (m Model) renderContainersTab() string {
	w := m.contentWidth()
	inner := w - 4

	if len(m.snap.Containers) == 0 {
		st := m.snap.Source("docker")
		switch st.Outcome {
		case metrics.OutcomeDisabled:
			if !m.gate.PollContainers() {
				return section("Containers", "", w, []string{MutedStyle.Render("container polling is off in safe mode")})
			}
			return section("Containers", "", w, []string{MutedStyle.Render("container polling is disabled in the config")})
		case metrics.OutcomeUnavailable:
			return section("Containers", "", w, []string{
				MutedStyle.Render("Docker daemon is not reachable"),
				MutedStyle.Render("install Docker or check /var/run/docker.sock permissions"),
			})
		case metrics.OutcomeOk:
			return section("Containers", "0", w, []string{MutedStyle.Render("no running containers")})
		default:
			return section("Containers", "", w, []string{m.sourceNote("docker")})
		}
	}

	rows := []string{TableHeaderStyle.Render(padCell(
		padCell("ID", 14)+padCell("NAME", 22)+padCell("STATE", 12)+padCell("CPU%", 7)+
			padCell("MEM", 18)+padCell("NET RX/TX", 22)+"IMAGE", inner))}

	for _, c := range m.snap.Containers {
		rows = append(rows, containerRow(c, inner))
	}

	return section("Containers", fmt.Sprintf("%d", len(m.snap.Containers)), w, rows)
}

func containerRow(c metrics.ContainerStats, inner int) string {
	state := c.State
	if c.Health != "" {
		state += " (" + c.Health + ")"
	}

	mem := formatBytes(c.MemUsage)
	if c.MemLimit > 0 {
		mem += " / " + formatBytes(c.MemLimit)
	}

	imageW := inner - 95
	if imageW < 8 {
		imageW = 8
	}

	return MutedStyle.Render(padCell(c.ID, 14)) +
		ValueStyle.Render(padCell(c.Name, 22)) +
		containerStateStyle(c).Render(padCell(state, 12)) +
		MetricStyle(c.CPUPercent).Render(padCell(fmt.Sprintf("%.1f", c.CPUPercent), 7)) +
		LabelStyle.Render(padCell(mem, 18)) +
		LabelStyle.Render(padCell(formatBytes(c.NetRx)+" / "+formatBytes(c.NetTx), 22)) +
		MutedStyle.Render(padCell(c.Image, imageW))
}

// containerStateStyle colors by lifecycle state, with health overriding.
func containerStateStyle(c metrics.ContainerStats) lipgloss.Style {
	if c.Health == "unhealthy" {
		return StatusErrStyle
	}
	switch c.State {
	case "running":
		return StatusOkStyle
	case "paused", "restarting":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case "exited", "dead":
		return StatusErrStyle
	default:
		return MutedStyle
	}
}
