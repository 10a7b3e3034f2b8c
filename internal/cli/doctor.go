package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/doctor"
	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/ui"
	"github.com/spf13/cobra"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd diagnoses the environment before trusting the dashboard to it.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose telemetry and privilege issues",
	Long: `Run diagnostic checks against the local machine.

Checks:
  - Privilege tier (root, passwordless sudo, or read-only)
  - systemd tooling (systemctl, journalctl, timedatectl)
  - Container telemetry (docker CLI and daemon reachability)
  - GPU telemetry (nvidia-smi)
  - Config file validity and boot config access

Exits non-zero when any check fails, so it can gate scripts.

Examples:
  vigil doctor
  vigil doctor --json
  vigil doctor --fix`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
}

// DoctorOutput is the JSON shape for the doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput groups check results under their category name.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput totals the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand() error {
	// A broken config file is itself a finding; fall back to defaults so
	// the CONFIG checks can report it instead of aborting here.
	cfgPath, _ := config.Find(configFlag)
	cfg := config.DefaultConfig()
	if cfgPath != "" {
		if loaded, err := config.Load(cfgPath); err == nil {
			cfg = loaded
		}
	}

	runner := exec.NewLocalRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gate := detectGate(ctx, runner, cfg)
	checks := doctor.All(gate, runner, cfg, cfgPath)
	results := doctor.RunAllParallel(ctx, checks)

	if doctorFix {
		results = attemptFixes(ctx, checks, results)
	}

	if doctorJSON {
		if err := writeDoctorJSON(os.Stdout, checks, results); err != nil {
			return err
		}
	} else {
		printDoctorText(checks, results)
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

// attemptFixes tries to fix fixable issues, re-running each check afterwards
// so the report shows the post-fix state.
func attemptFixes(ctx context.Context, checks []doctor.Check, results []doctor.CheckResult) []doctor.CheckResult {
	for i, result := range results {
		if result.Fixable && result.Status != doctor.StatusPass {
			if err := checks[i].Fix(); err == nil {
				results[i] = checks[i].Run(ctx)
			}
		}
	}
	return results
}

// writeDoctorJSON emits results grouped by category with a summary block.
func writeDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := make(map[string][]doctor.CheckResult)
	var order []string
	for i, check := range checks {
		cat := check.Category()
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(order)),
	}
	for _, cat := range order {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}

	return WriteJSONSuccess(w, output)
}

// printDoctorText renders the human report.
func printDoctorText(checks []doctor.Check, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	fmt.Println()
	fmt.Println(headerStyle.Render("Vigil Diagnostic Report"))
	fmt.Println()
	fmt.Print(ui.RenderDoctorTable(doctorRows(checks, results)))
	fmt.Println(strings.Repeat("━", 60))
	fmt.Println()

	if doctor.HasIssues(results) {
		fmt.Printf("%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !doctorFix {
			fmt.Println()
			fmt.Printf("  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	} else {
		fmt.Printf("%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	}
	fmt.Println()
}

// doctorRows adapts check results for the shared table renderer.
func doctorRows(checks []doctor.Check, results []doctor.CheckResult) []ui.DoctorCheckRow {
	rows := make([]ui.DoctorCheckRow, len(results))
	for i, res := range results {
		rows[i] = ui.DoctorCheckRow{
			Status:     res.Status.String(),
			Category:   checks[i].Category(),
			Message:    res.Message,
			Suggestion: res.Suggestion,
		}
	}
	return rows
}
