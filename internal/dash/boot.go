package dash

// renderBootTab shows the GRUB parameter editor. Reading needs no privileges;
// the write path is gated when the save is attempted.
func (m Model) renderBootTab() string {
	w := m.contentWidth()
	inner := w - 4

	if m.grubBusy && m.grub == nil {
		spinner := m.spin.View()
		return section("Boot Configuration", "", w, []string{
			TitleStyle.Render(spinner) + LabelStyle.Render(" reading boot config..."),
		})
	}

	if m.grubErr != nil {
		return section("Boot Configuration", "", w, []string{
			StatusErrStyle.Render(errLine(m.grubErr)),
			MutedStyle.Render("R to retry"),
		})
	}
	if m.grub == nil {
		return section("Boot Configuration", "", w, []string{MutedStyle.Render("not loaded")})
	}

	params := m.grub.Params()

	var rows []string
	for i, p := range params {
		if i == m.grubSel {
			marker := "▸ "
			if m.editing {
				marker = "✎ "
			}
			rows = append(rows, SelectedRowStyle.Render(padCell(marker+p.Key+" = "+p.Value, inner)))
			continue
		}
		rows = append(rows,
			"  "+TitleStyle.Render(p.Key)+MutedStyle.Render(" = ")+
				ValueStyle.Render(truncate(p.Value, inner-len(p.Key)-5)))
	}
	if len(params) == 0 {
		rows = append(rows, MutedStyle.Render("no GRUB_ parameters found"))
	}

	rows = append(rows, "",
		MutedStyle.Render("saved changes take effect after update-grub and a reboot"))
	if !m.gate.AllowMutations() {
		rows = append(rows, StatusErrStyle.Render("read-only: edits cannot be saved"))
	}

	return section("Boot Configuration", m.grub.Path(), w, rows)
}
