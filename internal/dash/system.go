package dash

import (
	"fmt"
	"strings"

	"github.com/mfenwick/vigil/internal/metrics"
)

// sourceOrder fixes the display order of collector statuses.
var sourceOrder = []string{"cpu", "memory", "disk", "network", "host", "process", "gpu", "docker"}

// renderSystemTab shows host identity, sensors, and collector health.
func (m Model) renderSystemTab() string {
	w := m.contentWidth()
	inner := w - 4

	var blocks []string

	host := m.snap.Host
	if host == nil {
		blocks = append(blocks, section("Host", "n/a", w, []string{m.sourceNote("host")}))
	} else {
		tz := m.timezone
		if tz == "" {
			tz = "unknown"
		}

		lines := []string{
			LabelStyle.Render("hostname  ") + ValueStyle.Render(host.Hostname),
			LabelStyle.Render("os        ") + ValueStyle.Render(host.Platform+" "+host.PlatformVersion),
			LabelStyle.Render("kernel    ") + ValueStyle.Render(host.KernelVersion),
			LabelStyle.Render("arch      ") + ValueStyle.Render(host.Arch),
			LabelStyle.Render("timezone  ") + ValueStyle.Render(tz),
			LabelStyle.Render("uptime    ") + ValueStyle.Render(formatUptime(host.Uptime)) +
				LabelStyle.Render("   booted ") + ValueStyle.Render(host.BootTime.Format("2006-01-02 15:04")),
			LabelStyle.Render("processes ") + ValueStyle.Render(fmt.Sprintf("%d", host.Procs)),
		}
		if host.Virtualization != "" {
			lines = append(lines, LabelStyle.Render("virt      ")+ValueStyle.Render(host.Virtualization))
		}
		if m.gate.AllowMutations() {
			lines = append(lines, "", MutedStyle.Render("h edit hostname · z edit timezone"))
		}

		blocks = append(blocks, section("Host", host.OS, w, lines))
	}

	if host != nil && len(host.Sensors) > 0 {
		var temps []string
		for _, s := range host.Sensors {
			temps = append(temps,
				LabelStyle.Render(padCell(s.Name, 28))+
					TempStyle(s.TempC).Render(fmt.Sprintf("%5.1f°C", s.TempC)))
		}
		blocks = append(blocks, section("Sensors", fmt.Sprintf("%d", len(host.Sensors)), w, temps))
	}

	var health []string
	for _, name := range sourceOrder {
		st := m.snap.Source(name)
		glyph, style := SourceGlyph(st)

		desc := st.Outcome.String()
		if st.Stale > 0 {
			desc = fmt.Sprintf("stale ×%d (%s)", st.Stale, desc)
		}
		line := style.Render(glyph) + " " + ValueStyle.Render(padCell(name, 10)) + LabelStyle.Render(padCell(desc, 22))
		if st.Err != "" {
			line += MutedStyle.Render(truncate(st.Err, inner-36))
		}
		health = append(health, line)
	}

	healthValue := "all ok"
	if n := degradedSources(m.snap); n > 0 {
		healthValue = fmt.Sprintf("%d degraded", n)
	}
	blocks = append(blocks, section("Sources", healthValue, w, health))

	return strings.Join(blocks, "\n")
}

// degradedSources counts collectors whose last read missed or failed.
// Disabled and absent sources are expected states, not degradation.
func degradedSources(snap *metrics.SystemSnapshot) int {
	n := 0
	for _, st := range snap.Sources {
		if st.Outcome == metrics.OutcomeTimedOut || st.Outcome == metrics.OutcomeError {
			n++
		}
	}
	return n
}
