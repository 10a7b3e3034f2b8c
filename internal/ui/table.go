package ui

import "github.com/charmbracelet/lipgloss"

// DoctorCheckRow represents a row in the doctor diagnostic table.
type DoctorCheckRow struct {
	Status     string // "pass", "warn", "fail"
	Category   string // Check category
	Message    string // Check result message
	Suggestion string // Suggestion for fixing (if not passing)
}

// RenderDoctorTable renders doctor check results grouped by category.
func RenderDoctorTable(rows []DoctorCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorSuccess)))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorError)))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorWarning)))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary)))

	var output string

	// Group by category, preserving first-seen order
	categories := make(map[string][]DoctorCheckRow)
	categoryOrder := []string{}
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			categoryOrder = append(categoryOrder, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	for _, cat := range categoryOrder {
		output += headerStyle.Render(cat) + "\n"

		for _, row := range categories[cat] {
			var statusIcon string
			switch row.Status {
			case "pass":
				statusIcon = successStyle.Render(SymbolComplete)
			case "warn":
				statusIcon = warnStyle.Render(SymbolComplete)
			case "fail":
				statusIcon = errorStyle.Render(SymbolFail)
			default:
				statusIcon = mutedStyle.Render(SymbolPending)
			}

			output += "  " + statusIcon + " " + row.Message + "\n"

			if row.Suggestion != "" && row.Status != "pass" {
				output += "    " + mutedStyle.Render(row.Suggestion) + "\n"
			}
		}
		output += "\n"
	}

	return output
}

// UnitTableRow represents a row in the services table.
type UnitTableRow struct {
	Name        string // Unit name
	Load        string // Load state (loaded, not-found, masked)
	Active      string // Active state (active, inactive, failed)
	Sub         string // Sub state (running, exited, dead)
	Description string // Unit description
}

// UnitTableDescColumn is the column where the description field starts.
// Everything before it (icon, unit, load, active, sub) is fixed-width, so
// callers can budget description length against the terminal width.
const UnitTableDescColumn = 67

// RenderUnitTable renders systemd units as a formatted table.
// The active state drives the row color: green for active, red for failed.
func RenderUnitTable(rows []UnitTableRow) string {
	if len(rows) == 0 {
		return "No units found"
	}

	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorSuccess)))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorError)))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))

	// Header
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary))).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(string(ColorMuted)))

	var output string
	output += headerStyle.Render("  UNIT                            LOAD       ACTIVE     SUB        DESCRIPTION") + "\n"

	for _, row := range rows {
		var statusIcon, activeStr string
		switch row.Active {
		case "active":
			statusIcon = successStyle.Render(SymbolComplete)
			activeStr = successStyle.Render(padRight(row.Active, 11))
		case "failed":
			statusIcon = errorStyle.Render(SymbolFail)
			activeStr = errorStyle.Render(padRight(row.Active, 11))
		default:
			statusIcon = mutedStyle.Render(SymbolPending)
			activeStr = mutedStyle.Render(padRight(row.Active, 11))
		}

		rowLine := statusIcon + " " +
			padRight(row.Name, 32) +
			padRight(row.Load, 11) +
			activeStr +
			padRight(row.Sub, 11) +
			mutedStyle.Render(row.Description)
		output += rowLine + "\n"
	}

	return output
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	padding := width - visibleLen
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
