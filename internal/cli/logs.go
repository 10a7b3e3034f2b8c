package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mfenwick/vigil/internal/control"
	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
	"github.com/mfenwick/vigil/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logsUnit     string
	logsPriority string
	logsBoot     string
	logsLines    int
	logsJSON     bool
)

// logsCmd is a one-shot journal query, the scripting twin of the Logs tab.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query the systemd journal",
	Long: `Fetch recent journal entries and print them, newest last.

Filters compose: --unit restricts to one service, --priority hides entries
below the given severity, and --boot selects a boot session by offset
(0 is the current boot, -1 the one before).

Examples:
  vigil logs
  vigil logs --unit nginx.service --lines 50
  vigil logs --priority err --boot -1
  vigil logs --json | jq '.data[].message'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return logsCommand()
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVar(&logsUnit, "unit", "", "only entries for this unit")
	logsCmd.Flags().StringVar(&logsPriority, "priority", "", "minimum severity (emerg..debug or 0..7)")
	logsCmd.Flags().StringVar(&logsBoot, "boot", "", "boot offset or ID (0 is current, -1 previous)")
	logsCmd.Flags().IntVar(&logsLines, "lines", 0, "number of entries to fetch")
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "output in JSON format")
}

// priorityNames are the journald severity labels, most severe first. The
// index doubles as the numeric level journalctl accepts.
var priorityNames = []string{"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug"}

// validatePriority accepts a journald severity name or numeric level.
func validatePriority(p string) error {
	if p == "" {
		return nil
	}
	for i, name := range priorityNames {
		if p == name || p == fmt.Sprintf("%d", i) {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown priority: %s", p),
		"Use a name (emerg, alert, crit, err, warning, notice, info, debug) or a level 0-7.")
}

// journalQueryFromFlags builds the controller query from the flag set.
func journalQueryFromFlags() control.JournalQuery {
	return control.JournalQuery{
		Unit:     logsUnit,
		Priority: logsPriority,
		Boot:     logsBoot,
		Lines:    logsLines,
	}
}

// logsCommand runs the query and prints entries.
func logsCommand() error {
	if err := validatePriority(logsPriority); err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	runner := exec.NewLocalRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	gate := detectGate(ctx, runner, cfg)
	ctrl := control.New(runner, gate, cfg, logger.NewEnvLogger("[control]"))

	entries, err := ctrl.Journal(ctx, journalQueryFromFlags())
	if err != nil {
		if logsJSON {
			_ = WriteJSONFromError(os.Stdout, err)
			return errors.NewExitError(1)
		}
		return err
	}

	if logsJSON {
		return WriteJSONSuccess(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries matched.")
		return nil
	}
	for _, e := range entries {
		fmt.Println(formatJournalEntry(e))
	}
	return nil
}

// formatJournalEntry renders one entry as a single line. The priority
// column is fixed-width so messages align.
func formatJournalEntry(e control.JournalEntry) string {
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	unit := e.Unit
	if unit == "" {
		unit = "-"
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		mutedStyle.Render(e.Time.Format("Jan 02 15:04:05")),
		priorityStyle(e.Priority).Render(fmt.Sprintf("%-7s", e.Priority)),
		mutedStyle.Render(unit),
		e.Message)
}

// priorityStyle colors a severity label: red for err and above, yellow for
// warning, dim for debug.
func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "emerg", "alert", "crit", "err":
		return lipgloss.NewStyle().Foreground(ui.ColorError)
	case "warning":
		return lipgloss.NewStyle().Foreground(ui.ColorWarning)
	case "debug":
		return lipgloss.NewStyle().Foreground(ui.ColorMuted)
	default:
		return lipgloss.NewStyle()
	}
}
