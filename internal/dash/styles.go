package dash

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mfenwick/vigil/internal/metrics"
)

// Dashboard color palette - electric synthwave on a dark surface
const (
	// Background colors
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors for metrics - neon style
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	// Accent colors - neon pink primary, purple secondary
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Graph colors
	ColorGraph = lipgloss.Color("#00FFFF") // Neon cyan
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Temperature thresholds run lower than utilization: 70C is already hot.
const (
	TempWarningThreshold  = 60
	TempCriticalThreshold = 80
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Tab bar styles
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TabDimmedStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Padding(0, 1)

	// Text styles
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Table styles
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Bold(true)

	// Status line styles
	StatusOkStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	StatusErrStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	// Overlay styles
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)
)

// Badge backgrounds for header state flags.
var (
	SafeBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorWarning).
			Bold(true).
			Padding(0, 1)

	ReadOnlyBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorAccentDim).
				Bold(true).
				Padding(0, 1)

	PausedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorGraph).
				Bold(true).
				Padding(0, 1)
)

// Source status glyphs - cyber style
const (
	GlyphFresh       = "◉" // This cycle's data
	GlyphStale       = "◔" // Carried forward from an earlier cycle
	GlyphTimeout     = "◌" // Missed the deadline, nothing retained
	GlyphError       = "◍" // Read failed
	GlyphUnavailable = "○" // Source absent on this machine
	GlyphDisabled    = "⊘" // Switched off by config or safe mode
)

// SourceGlyph returns the indicator character and style for a collector's
// status in the current snapshot.
func SourceGlyph(st metrics.SourceStatus) (string, lipgloss.Style) {
	switch {
	case st.Fresh():
		return GlyphFresh, lipgloss.NewStyle().Foreground(ColorHealthy)
	case st.Stale > 0:
		return GlyphStale, lipgloss.NewStyle().Foreground(ColorWarning)
	case st.Outcome == metrics.OutcomeTimedOut:
		return GlyphTimeout, lipgloss.NewStyle().Foreground(ColorCritical)
	case st.Outcome == metrics.OutcomeError:
		return GlyphError, lipgloss.NewStyle().Foreground(ColorCritical)
	case st.Outcome == metrics.OutcomeDisabled:
		return GlyphDisabled, lipgloss.NewStyle().Foreground(ColorTextMuted)
	default:
		return GlyphUnavailable, lipgloss.NewStyle().Foreground(ColorTextMuted)
	}
}

// MetricColor returns the appropriate color for a percentage-based metric.
// Uses threshold-based coloring: green < 70%, yellow 70-90%, red > 90%.
func MetricColor(percent float64) lipgloss.Color {
	return MetricColorWithThresholds(percent, int(WarningThreshold), int(CriticalThreshold))
}

// MetricColorWithThresholds returns the appropriate color for a metric using
// the provided warning and critical threshold values.
func MetricColorWithThresholds(percent float64, warning, critical int) lipgloss.Color {
	switch {
	case percent >= float64(critical):
		return ColorCritical
	case percent >= float64(warning):
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyle returns a style with the appropriate foreground color for the metric.
func MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColor(percent))
}

// TempStyle returns a style colored by temperature severity.
func TempStyle(tempC float64) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(MetricColorWithThresholds(tempC, TempWarningThreshold, TempCriticalThreshold))
}

// ProgressBar renders a progress bar with the given width and percentage.
// Bracketless style with threshold-based coloring.
func ProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}

	// Clamp percentage to 0-100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "▰"
		} else {
			bar += "▱"
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(MetricColor(percent))
	return barStyle.Render(bar)
}

// ThinProgressBar renders a minimal line-based progress bar.
// Uses ━ for filled segments and ─ for empty segments.
func ThinProgressBar(width int, percent float64) string {
	return ThinProgressBarWithThresholds(width, percent, int(WarningThreshold), int(CriticalThreshold))
}

// ThinProgressBarWithThresholds renders a thin progress bar with custom thresholds.
func ThinProgressBarWithThresholds(width int, percent float64, warning, critical int) string {
	if width < 1 {
		width = 1
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "━"
		} else {
			bar += "─"
		}
	}

	return lipgloss.NewStyle().Foreground(MetricColorWithThresholds(percent, warning, critical)).Render(bar)
}

// SectionHeader renders a section header with the title on the left and value
// on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// Left: "╭─ " + title + " "; right: " " + value + " ╮"
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}

	middle := strings.Repeat("─", width-2)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line with left and right borders,
// padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	contentWidth := lipgloss.Width(content)
	innerWidth := width - 4

	padding := innerWidth - contentWidth
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
