package dash

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderLogsTab shows the journal viewer with its active filters.
func (m Model) renderLogsTab() string {
	w := m.contentWidth()
	inner := w - 4

	filterBar := m.logFilterBar()

	if m.logsBusy && len(m.entries) == 0 {
		spinner := m.spin.View()
		return section("Journal", filterBar, w, []string{
			TitleStyle.Render(spinner) + LabelStyle.Render(" reading journal..."),
		})
	}

	if m.logErr != nil {
		return section("Journal", filterBar, w, []string{
			StatusErrStyle.Render(errLine(m.logErr)),
			MutedStyle.Render("journalctl may be missing on systems without systemd"),
			MutedStyle.Render("R to retry"),
		})
	}

	if len(m.entries) == 0 {
		return section("Journal", filterBar, w, []string{MutedStyle.Render("no entries match")})
	}

	// Tail the newest entries that fit
	visible := m.contentHeight() - 3
	if visible < 3 {
		visible = 3
	}
	start := len(m.entries) - visible
	if start < 0 {
		start = 0
	}

	var lines []string
	for _, e := range m.entries[start:] {
		stamp := MutedStyle.Render(e.Time.Format("Jan 02 15:04:05"))
		prio := priorityStyle(e.Priority).Render(padCell(e.Priority, 8))
		unit := lipgloss.NewStyle().Foreground(ColorAccentDim).Render(padCell(e.Unit, 22))

		msgW := inner - 15 - 1 - 8 - 22
		if msgW < 10 {
			msgW = 10
		}
		lines = append(lines, stamp+" "+prio+unit+ValueStyle.Render(truncate(e.Message, msgW)))
	}

	return section("Journal", filterBar, w, lines)
}

// logFilterBar summarizes the unit, boot, and priority selections.
func (m Model) logFilterBar() string {
	unit := "all units"
	if m.logUnitSel >= 0 && m.logUnitSel < len(m.logUnits) {
		unit = m.logUnits[m.logUnitSel]
	}

	boot := "all boots"
	if m.bootSel >= 0 && m.bootSel < len(m.boots) {
		idx := m.boots[m.bootSel].Index
		if idx == 0 {
			boot = "this boot"
		} else {
			boot = "boot " + strconv.Itoa(idx)
		}
	}

	prio := journalPriorities[m.priority]
	if prio == "" {
		prio = "all"
	}

	parts := []string{unit, boot, prio}
	if m.logsBusy {
		parts = append(parts, m.spin.View())
	}
	return strings.Join(parts, " · ")
}

// priorityStyle colors a journal priority label by severity.
func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "emerg", "alert", "crit", "err":
		return StatusErrStyle
	case "warning":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case "notice", "info":
		return LabelStyle
	default:
		return MutedStyle
	}
}

