package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/privilege"
	"github.com/spf13/cobra"
)

// Global flags, available to every subcommand.
var (
	configFlag string
	safeFlag   bool
)

// Dashboard tuning flags, root command only.
var (
	refreshFlag    string
	historyFlag    int
	noDockerFlag   bool
	noGPUFlag      bool
	noNetworkFlag  bool
	showSystemFlag bool
)

// rootCmd is the base command. Running vigil with no arguments starts the
// dashboard.
var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "Terminal dashboard for system telemetry and control",
	Long: `Vigil is a terminal dashboard for watching and steering a single Linux
machine: CPU, memory, disk, network, GPU, and container telemetry alongside
systemd service control, journal browsing, and boot configuration editing.

Run with no arguments to start the interactive dashboard. Subcommands expose
the same data and actions for scripts and one-shot queries.

Examples:
  vigil
  vigil --safe
  vigil --refresh 2s --no-docker
  vigil doctor
  vigil snapshot | jq .data.cpu.percent`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&safeFlag, "safe", false, "read-only mode: never poll GPU/containers or mutate the system")

	rootCmd.Flags().StringVar(&refreshFlag, "refresh", "", "telemetry refresh interval (e.g., 500ms, 2s)")
	rootCmd.Flags().IntVar(&historyFlag, "history", 0, "sparkline history depth in ticks")
	rootCmd.Flags().BoolVar(&noDockerFlag, "no-docker", false, "disable container telemetry")
	rootCmd.Flags().BoolVar(&noGPUFlag, "no-gpu", false, "disable GPU telemetry")
	rootCmd.Flags().BoolVar(&noNetworkFlag, "no-network", false, "disable network telemetry")
	rootCmd.Flags().BoolVar(&showSystemFlag, "show-system", false, "show kernel threads in the process table")
}

// Config returns the value of the --config flag.
func Config() string {
	return configFlag
}

// Execute runs the root command. This is the single entry point called from
// main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}
		os.Exit(1)
	}
}

// printError renders an error for the terminal. Structured errors carry
// their own formatting; ExitErrors are silent because the command already
// reported the failure before choosing an exit code.
func printError(err error) {
	if _, ok := errors.GetExitCode(err); ok {
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

// loadConfig resolves and loads the config file, honoring --config. When no
// config exists anywhere in the search path the defaults are used; every
// command must work on a machine that has never been configured.
func loadConfig() (*config.Config, string, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return config.DefaultConfig(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyRootFlags overlays dashboard command-line flags onto the loaded
// config and re-clamps the result. The returned notes describe values that
// were adjusted into range.
func applyRootFlags(cfg *config.Config) ([]string, error) {
	if safeFlag {
		cfg.SafeMode = true
	}
	if refreshFlag != "" {
		d, err := time.ParseDuration(refreshFlag)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid refresh interval: %s", refreshFlag),
				"Use a duration like 500ms, 1s, or 2s.")
		}
		cfg.RefreshMS = int(d / time.Millisecond)
	}
	if historyFlag > 0 {
		cfg.History = historyFlag
	}
	if noDockerFlag {
		cfg.Docker = false
	}
	if noGPUFlag {
		cfg.GPU = false
	}
	if noNetworkFlag {
		cfg.Network = false
	}
	if showSystemFlag {
		cfg.ShowSystemProcesses = true
	}
	return cfg.Normalize(), nil
}

// detectGate probes privileges for this invocation. The --safe flag forces
// the safe tier regardless of what the config allows.
func detectGate(ctx context.Context, runner exec.Runner, cfg *config.Config) privilege.Gate {
	return privilege.Detect(ctx, runner, cfg.SafeMode || safeFlag)
}
