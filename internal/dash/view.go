package dash

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full dashboard frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Starting vigil..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.confirm != nil {
		return m.renderConfirmOverlay()
	}
	if m.confirmSave {
		return m.renderSaveOverlay()
	}

	header := m.renderHeader()
	tabBar := m.renderTabBar()
	content := m.renderContent()

	if m.viewportReady {
		m.viewport.SetContent(content)
		content = m.viewport.View()
	}

	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, tabBar, "", content, footer)
}

// renderHeader builds the top status bar: identity on the left, state badges
// and collection cadence on the right.
func (m Model) renderHeader() string {
	left := HeaderStyle.Render("VIGIL")

	if m.snap != nil && m.snap.Host != nil {
		left += " " + ValueStyle.Render(m.snap.Host.Hostname)
		left += MutedStyle.Render("  up " + formatUptime(m.snap.Host.Uptime))
	}

	var right []string
	if !m.gate.PollGPU() && !m.gate.PollContainers() && !m.gate.AllowMutations() {
		right = append(right, SafeBadgeStyle.Render("SAFE MODE"))
	} else if !m.gate.AllowMutations() {
		right = append(right, ReadOnlyBadgeStyle.Render("READ-ONLY"))
	}
	if m.paused {
		right = append(right, PausedBadgeStyle.Render("PAUSED"))
	}

	if m.snap != nil {
		right = append(right, MutedStyle.Render(
			fmt.Sprintf("#%d %s", m.snap.Seq, formatTickDuration(m.snap.Elapsed))))
	}
	if !m.paused {
		right = append(right, TitleStyle.Render(m.spin.View()))
	}

	rightStr := strings.Join(right, " ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(rightStr) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + rightStr
}

// renderTabBar builds the tab strip. Tabs whose data source is off render
// dimmed so the state is visible before switching to them.
func (m Model) renderTabBar() string {
	keys := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "g", "i"}

	var parts []string
	for t := TabOverview; t < tabCount; t++ {
		label := keys[t] + " " + t.String()

		style := TabStyle
		switch {
		case t == m.tab:
			style = TabActiveStyle
		case m.tabDimmed(t):
			style = TabDimmedStyle
		}
		parts = append(parts, style.Render(label))
	}

	bar := strings.Join(parts, "")
	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
}

// tabDimmed reports whether a tab's backing source or capability is off.
func (m Model) tabDimmed(t Tab) bool {
	switch t {
	case TabGPU:
		return !m.gate.PollGPU() || !m.sched.Enabled("gpu")
	case TabContainers:
		return !m.gate.PollContainers() || !m.sched.Enabled("docker")
	case TabServices, TabBoot, TabSystem:
		return !m.gate.AllowMutations()
	}
	return false
}

// renderContent dispatches to the active tab's renderer.
func (m Model) renderContent() string {
	if m.snap == nil {
		spinner := m.spin.View()
		return "\n  " + TitleStyle.Render(spinner) + LabelStyle.Render(" collecting first snapshot...")
	}

	switch m.tab {
	case TabOverview:
		return m.renderOverview()
	case TabCPU:
		return m.renderCPUTab()
	case TabMemory:
		return m.renderMemoryTab()
	case TabDisks:
		return m.renderDisksTab()
	case TabNetwork:
		return m.renderNetworkTab()
	case TabGPU:
		return m.renderGPUTab()
	case TabContainers:
		return m.renderContainersTab()
	case TabProcesses:
		return m.renderProcessesTab()
	case TabServices:
		return m.renderServicesTab()
	case TabLogs:
		return m.renderLogsTab()
	case TabBoot:
		return m.renderBootTab()
	case TabSystem:
		return m.renderSystemTab()
	default:
		return ""
	}
}

// contentHeight is the row budget for tab content between the chrome lines.
func (m Model) contentHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

// contentWidth is the column budget for tab content.
func (m Model) contentWidth() int {
	w := m.width
	if w < 20 {
		w = 20
	}
	return w
}

// section builds a bordered panel from pre-rendered content lines.
func section(title, value string, width int, lines []string) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, SectionContentLine(l, width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}

// renderFooter builds the status line and the per-tab key hints.
func (m Model) renderFooter() string {
	status := m.renderStatusLine()
	hints := m.renderHints()
	return status + "\n" + hints
}

func (m Model) renderStatusLine() string {
	if m.filtering {
		return " " + m.filterInput.View()
	}
	if m.editing {
		return " " + LabelStyle.Render("new value: ") + m.editInput.View()
	}
	if m.sysEdit != editNone {
		return " " + LabelStyle.Render("new "+string(m.sysEdit)+": ") + m.sysInput.View()
	}

	if m.snap != nil && m.status.text == "" {
		if n := degradedSources(m.snap); n > 0 {
			return " " + MutedStyle.Render(fmt.Sprintf("%d source(s) degraded, see System view", n))
		}
	}

	if m.status.text == "" {
		return ""
	}

	age := time.Since(m.status.when).Round(time.Second)
	suffix := MutedStyle.Render(fmt.Sprintf(" (%s ago)", age))

	if m.status.ok {
		return " " + StatusOkStyle.Render("✓ "+m.status.text) + suffix
	}
	return " " + StatusErrStyle.Render("✗ "+m.status.text) + suffix
}

func (m Model) renderHints() string {
	hints := []string{"q quit", "tab/1-0 views", "p pause", "? help"}

	switch m.tab {
	case TabOverview, TabProcesses:
		hints = append(hints, "/ filter", "o sort", "r reverse", "s system", "enter detail")
	case TabServices:
		hints = append(hints, "s start", "t stop", "e restart", "E enable", "D disable", "R reload")
	case TabLogs:
		hints = append(hints, "u unit", "[/] boot", "+/- priority", "R reload")
	case TabBoot:
		hints = append(hints, "enter edit", "R reload")
	case TabSystem:
		hints = append(hints, "h hostname", "z timezone")
	}

	return FooterStyle.Render(strings.Join(hints, " | "))
}

// HelpBinding is one row in the help overlay.
type HelpBinding struct {
	Key  string
	Desc string
}

var helpBindings = []HelpBinding{
	{"q / ctrl+c", "quit"},
	{"tab / shift+tab", "next / previous view"},
	{"1-0, g, i", "jump to view"},
	{"p", "pause collection"},
	{"↑/↓, j/k", "navigate / scroll"},
	{"enter", "select / inspect / edit"},
	{"esc", "back"},
	{"/", "filter processes"},
	{"o", "cycle sort column"},
	{"c m n G P", "sort by cpu, mem, name, disk, pid"},
	{"r", "reverse sort"},
	{"s", "show system processes"},
	{"s t e E D", "service start, stop, restart, enable, disable"},
	{"u", "cycle journal unit"},
	{"[ / ]", "older / newer boot"},
	{"+ / -", "journal verbosity"},
	{"R", "reload current view"},
	{"h / z", "edit hostname / timezone"},
	{"?", "toggle this help"},
}

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Width(18)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay centers the key reference over a blanked screen.
func (m Model) renderHelpOverlay() string {
	var rows []string
	rows = append(rows, TitleStyle.Render("Keyboard Reference"), "")
	for _, b := range helpBindings {
		rows = append(rows, helpKeyStyle.Render(b.Key)+helpDescStyle.Render(b.Desc))
	}
	rows = append(rows, "", MutedStyle.Render("press ? or esc to close"))

	box := helpBoxStyle.Render(strings.Join(rows, "\n"))
	return m.placeOverlay(box)
}

// renderConfirmOverlay asks before a destructive service action runs.
func (m Model) renderConfirmOverlay() string {
	pa := m.confirm

	lines := []string{
		TitleStyle.Render("Confirm"),
		"",
		ValueStyle.Render(string(pa.action)+" "+pa.unit) + LabelStyle.Render("?"),
		"",
		StatusOkStyle.Render("y") + MutedStyle.Render(" confirm   ") +
			StatusErrStyle.Render("n") + MutedStyle.Render(" cancel"),
	}

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	return m.placeOverlay(box)
}

// renderSaveOverlay asks before the boot configuration is written to disk.
func (m Model) renderSaveOverlay() string {
	path := ""
	if m.grub != nil {
		path = m.grub.Path()
	}

	lines := []string{
		TitleStyle.Render("Write boot configuration"),
		"",
		LabelStyle.Render("Save changes to ") + ValueStyle.Render(path) + LabelStyle.Render("?"),
		MutedStyle.Render("A timestamped backup is written first."),
		"",
		StatusOkStyle.Render("y") + MutedStyle.Render(" save   ") +
			StatusErrStyle.Render("n") + MutedStyle.Render(" discard"),
	}

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	return m.placeOverlay(box)
}

func (m Model) placeOverlay(box string) string {
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
