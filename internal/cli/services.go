package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mfenwick/vigil/internal/control"
	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
	"github.com/mfenwick/vigil/internal/ui"
	"github.com/mfenwick/vigil/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// serviceTimeout bounds one-shot systemctl invocations. Unit jobs that run
// longer than this are stuck, not slow.
const serviceTimeout = 30 * time.Second

var servicesYes bool

// servicesCmd lists services; subcommands drive lifecycle actions.
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List and control systemd services",
	Long: `List systemd services or apply a lifecycle action to a unit.

Listing works at any privilege tier. Actions need root or passwordless
sudo, and destructive actions (stop, restart, disable) ask for confirmation
unless --yes is given.

Examples:
  vigil services
  vigil services start nginx.service
  vigil services stop nginx.service --yes
  vigil services enable docker.service`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicesListCommand()
	},
}

// servicesListCmd is the explicit form of the default listing.
var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List systemd services",
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicesListCommand()
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
	servicesCmd.AddCommand(servicesListCmd)

	for _, action := range []control.Action{
		control.ActionStart,
		control.ActionStop,
		control.ActionRestart,
		control.ActionEnable,
		control.ActionDisable,
	} {
		servicesCmd.AddCommand(newServiceActionCmd(action))
	}

	servicesCmd.PersistentFlags().BoolVar(&servicesYes, "yes", false, "skip confirmation prompts")
}

// newServiceActionCmd builds one lifecycle subcommand. All five verbs share
// the same shape; only the action differs.
func newServiceActionCmd(action control.Action) *cobra.Command {
	verb := string(action)
	return &cobra.Command{
		Use:   verb + " <unit>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a service unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serviceActionCommand(action, args[0])
		},
	}
}

// servicesListCommand prints the unit table.
func servicesListCommand() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	runner := exec.NewLocalRunner()
	ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	defer cancel()

	gate := detectGate(ctx, runner, cfg)
	ctrl := control.New(runner, gate, cfg, logger.NewEnvLogger("[control]"))

	units, err := ctrl.Services(ctx)
	if err != nil {
		return err
	}

	fmt.Print(ui.RenderUnitTable(unitRows(units, descriptionWidth())))
	return nil
}

// descriptionWidth returns the column budget for a unit's description,
// derived from the terminal width. Piped output gets no limit so nothing
// is lost when scripting.
func descriptionWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	budget := w - ui.UnitTableDescColumn
	if budget < 20 {
		budget = 20
	}
	return budget
}

// serviceActionCommand applies one lifecycle action, confirming first when
// the action can interrupt a live service.
func serviceActionCommand(action control.Action, unit string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	runner := exec.NewLocalRunner()
	ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	defer cancel()

	gate := detectGate(ctx, runner, cfg)
	ctrl := control.New(runner, gate, cfg, logger.NewEnvLogger("[control]"))

	if action.NeedsConfirmation() && !servicesYes {
		// No terminal means no way to ask; refuse rather than act unconfirmed.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Confirmation required to %s %s", action, unit),
				"Re-run with --yes when scripting.")
		}

		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Really %s %s?", action, unit)).
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrExternal,
				"Failed to get confirmation",
				"Re-run with --yes to skip the prompt.")
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := ctrl.ApplyService(ctx, action, unit); err != nil {
		return err
	}

	okStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	fmt.Printf("%s %s %s: done\n", okStyle.Render(ui.SymbolSuccess), action, unit)
	return nil
}

// unitRows adapts service units for the shared table renderer. maxDesc
// bounds the description column; 0 leaves descriptions whole.
func unitRows(units []control.ServiceUnit, maxDesc int) []ui.UnitTableRow {
	rows := make([]ui.UnitTableRow, len(units))
	for i, u := range units {
		desc := u.Description
		if maxDesc > 0 {
			desc = util.Truncate(desc, maxDesc)
		}
		rows[i] = ui.UnitTableRow{
			Name:        u.Name,
			Load:        u.LoadState,
			Active:      u.ActiveState,
			Sub:         u.SubState,
			Description: desc,
		}
	}
	return rows
}
