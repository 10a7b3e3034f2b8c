package dash

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mfenwick/vigil/internal/errors"
)

// formatBytes renders a byte count in binary units with one decimal.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}

	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// formatRate renders a bytes-per-second throughput figure.
func formatRate(bytesPerSec float64) string {
	if bytesPerSec < 0 {
		bytesPerSec = 0
	}
	return formatBytes(uint64(bytesPerSec)) + "/s"
}

// formatUptime renders a duration as its two most significant time units.
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm %ds", minutes, int(d.Seconds())%60)
	}
}

// formatFreq renders a MHz figure, switching to GHz above 1000.
func formatFreq(mhz float64) string {
	if mhz >= 1000 {
		return fmt.Sprintf("%.2f GHz", mhz/1000)
	}
	return fmt.Sprintf("%.0f MHz", mhz)
}

// formatTickDuration renders a collection cycle's elapsed time.
func formatTickDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// truncate shortens a string to maxLen, replacing the tail with an ellipsis.
// Strings at or under maxLen pass through unchanged, as do widths too small
// to hold the ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen || maxLen <= 3 {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// errLine reduces an error to a single status-line sentence. Structured
// errors render multi-line for the CLI; the dashboard shows the message only.
func errLine(err error) string {
	if err == nil {
		return ""
	}
	var verr *errors.Error
	if stderrors.As(err, &verr) {
		return verr.Message
	}
	line := err.Error()
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "✗ "))
}

// padCell pads s with spaces to the given display width, truncating if over.
func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		s = truncate(s, width)
		w = lipgloss.Width(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
