package dash

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mfenwick/vigil/internal/control"
)

// renderServicesTab shows the systemd unit list with per-unit state.
func (m Model) renderServicesTab() string {
	w := m.contentWidth()
	inner := w - 4

	if m.svcBusy && len(m.services) == 0 {
		spinner := m.spin.View()
		return section("Services", "", w, []string{
			TitleStyle.Render(spinner) + LabelStyle.Render(" enumerating units..."),
		})
	}

	if m.svcErr != nil {
		return section("Services", "", w, []string{
			StatusErrStyle.Render(errLine(m.svcErr)),
			MutedStyle.Render("R to retry"),
		})
	}

	if len(m.services) == 0 {
		return section("Services", "", w, []string{MutedStyle.Render("no units found")})
	}

	rows := []string{TableHeaderStyle.Render(padCell(
		"   "+padCell("UNIT", 34)+padCell("ACTIVE", 10)+padCell("SUB", 10)+padCell("BOOT", 10)+"DESCRIPTION", inner))}

	visible := m.contentHeight() - 5
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.svcSel >= visible {
		start = m.svcSel - visible + 1
	}
	end := start + visible
	if end > len(m.services) {
		end = len(m.services)
	}

	for i := start; i < end; i++ {
		rows = append(rows, m.serviceRow(m.services[i], i == m.svcSel, inner))
	}

	value := fmt.Sprintf("%d units", len(m.services))
	if m.svcBusy {
		value += " " + m.spin.View()
	}
	return section("Services", value, w, rows)
}

// serviceRow renders one unit line with a state glyph.
func (m Model) serviceRow(u control.ServiceUnit, selected bool, inner int) string {
	glyph, glyphStyle := unitGlyph(u)

	boot := "disabled"
	if u.Enabled {
		boot = "enabled"
	}
	if u.UnitFileState == "static" {
		boot = "static"
	}

	if selected {
		line := glyph + "  " + padCell(u.Name, 34) + padCell(u.ActiveState, 10) +
			padCell(u.SubState, 10) + padCell(boot, 10) + u.Description
		return SelectedRowStyle.Render(padCell(line, inner))
	}

	nameStyle := ValueStyle
	if u.Failed() {
		nameStyle = StatusErrStyle
	}

	return glyphStyle.Render(glyph) + "  " +
		nameStyle.Render(padCell(u.Name, 34)) +
		LabelStyle.Render(padCell(u.ActiveState, 10)) +
		MutedStyle.Render(padCell(u.SubState, 10)) +
		MutedStyle.Render(padCell(boot, 10)) +
		MutedStyle.Render(padCell(u.Description, inner-67))
}

// unitGlyph maps a unit's active state to an indicator.
func unitGlyph(u control.ServiceUnit) (string, lipgloss.Style) {
	switch {
	case u.Running():
		return "●", StatusOkStyle
	case u.Failed():
		return "✗", StatusErrStyle
	default:
		return "○", MutedStyle
	}
}
