package dash

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille pattern characters for high-resolution graphs.
// Each braille character is a 2x4 dot matrix, giving 2 horizontal and
// 4 vertical points per terminal cell.
const brailleBase = '⠀'

// Dot bit offsets within a braille character, indexed [row][col].
// Rows top to bottom, columns left to right.
var brailleDots = [4][2]uint8{
	{0, 3}, // Top row
	{1, 4},
	{2, 5},
	{6, 7}, // Bottom row
}

// Block characters for single-row sparklines, shortest to tallest.
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// findMinMax returns the bounds to scale a series against. Percentage-like
// series (all values within 0-100) get fixed bounds so a flat 40% line does
// not fill the whole graph height.
func findMinMax(data []float64) (min, max float64, isPercentage bool) {
	if len(data) == 0 {
		return 0, 100, true
	}

	min, max = data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max <= 100 && min >= 0 {
		return 0, 100, true
	}
	return min, max, false
}

// normalizeValue maps v into [0,1] within the given bounds.
func normalizeValue(v, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	n := (v - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func clampInt(val, max int) int {
	if val < 0 {
		return 0
	}
	if val > max {
		return max
	}
	return val
}

// resampleData fits a series to exactly width points. Downsampling keeps the
// maximum of each bucket so short spikes survive; upsampling interpolates
// linearly between neighbors.
func resampleData(data []float64, width int) []float64 {
	if width < 1 || len(data) == 0 {
		return nil
	}
	if len(data) == width {
		return data
	}

	out := make([]float64, width)

	if len(data) == 1 {
		for i := range out {
			out[i] = data[0]
		}
		return out
	}

	if len(data) > width {
		// Max-of-bucket downsample
		bucketSize := float64(len(data)) / float64(width)
		for i := 0; i < width; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			max := data[start]
			for _, v := range data[start:end] {
				if v > max {
					max = v
				}
			}
			out[i] = max
		}
		return out
	}

	// Linear interpolation upsample
	step := float64(len(data)-1) / float64(width-1)
	for i := 0; i < width; i++ {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(data)-1 {
			out[i] = data[len(data)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = data[idx]*(1-frac) + data[idx+1]*frac
	}
	return out
}

// RenderBrailleSparkline renders a multi-row graph using braille characters.
// Each terminal cell packs 2 columns and 4 rows of data points. Recent values
// sit on the right edge; a series shorter than the width leaves the left side
// blank rather than stretching. Percentage series color each column by its
// value against the warning and critical thresholds; other series use
// baseColor throughout.
func RenderBrailleSparkline(data []float64, width, height int, baseColor lipgloss.Color) string {
	if len(data) == 0 || width < 1 || height < 1 {
		return ""
	}

	targetPoints := width * 2
	if len(data) > targetPoints {
		data = resampleData(data, targetPoints)
	}

	min, max, isPercentage := findMinMax(data)

	// Right-align: the newest point lands in the last column.
	horizOffset := targetPoints - len(data)
	if horizOffset < 0 {
		horizOffset = 0
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	// Track the peak value per character column for coloring.
	colMaxValues := make([]float64, width)

	dotRows := height * 4
	for i, v := range data {
		col := horizOffset + i
		charCol := clampInt(col/2, width-1)
		subCol := col % 2

		if v > colMaxValues[charCol] {
			colMaxValues[charCol] = v
		}

		// Number of dots to light from the bottom up.
		filled := int(normalizeValue(v, min, max)*float64(dotRows) + 0.5)
		if filled < 1 {
			filled = 1
		}
		if filled > dotRows {
			filled = dotRows
		}

		for dot := 0; dot < filled; dot++ {
			row := height - 1 - dot/4
			subRow := 3 - dot%4
			bitOffset := brailleDots[subRow][subCol]
			grid[row][charCol] |= rune(1) << bitOffset
		}
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			color := baseColor
			if isPercentage {
				color = MetricColor(colMaxValues[col])
			}
			style := lipgloss.NewStyle().Foreground(color).Background(ColorSurfaceBg)
			sb.WriteString(style.Render(string(grid[row][col])))
		}
	}
	return sb.String()
}

// RenderMiniSparkline renders a single-row block sparkline in one color.
func RenderMiniSparkline(data []float64, width int, color lipgloss.Color) string {
	if width < 1 {
		return ""
	}
	if len(data) == 0 {
		return lipgloss.NewStyle().Foreground(ColorTextMuted).Render(strings.Repeat(" ", width))
	}

	data = resampleData(data, width)
	min, max, _ := findMinMax(data)

	var sb strings.Builder
	for _, v := range data {
		idx := int(normalizeValue(v, min, max) * float64(len(sparklineBlocks)-1))
		sb.WriteRune(sparklineBlocks[clampInt(idx, len(sparklineBlocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// RenderColoredMiniSparkline renders a single-row sparkline colored by the
// most recent value's severity.
func RenderColoredMiniSparkline(data []float64, width int) string {
	color := ColorHealthy
	if len(data) > 0 {
		color = MetricColor(data[len(data)-1])
	}
	return RenderMiniSparkline(data, width, color)
}

// RenderGradientBar renders a horizontal bar with a position-based color
// gradient, used as a placeholder while a series has no history yet.
func RenderGradientBar(width int, percent float64) string {
	if width < 1 {
		return ""
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

	var sb strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			// Color by position so the bar shades green to red as it fills.
			posPercent := float64(i) / float64(width) * 100
			style := lipgloss.NewStyle().
				Foreground(MetricColor(posPercent)).
				Background(ColorSurfaceBg)
			sb.WriteString(style.Render("█"))
		} else {
			style := lipgloss.NewStyle().
				Foreground(ColorBorder).
				Background(ColorSurfaceBg)
			sb.WriteString(style.Render("░"))
		}
	}
	return sb.String()
}
