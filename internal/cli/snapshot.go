package cli

import (
	"context"
	"os"
	"time"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
	"github.com/spf13/cobra"
)

// snapshotCmd collects one telemetry tick and prints it as JSON.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Collect one telemetry snapshot as JSON",
	Long: `Collect a single telemetry snapshot and print it as indented JSON.

Two collection passes run back to back because rate readings (CPU percent,
disk and network throughput) need a delta. Output always uses the machine
envelope {"success": ..., "data": ...} so scripts can branch on failures.

Examples:
  vigil snapshot
  vigil snapshot | jq .data.memory.percent
  vigil snapshot --safe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand()
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

// snapshotCommand runs the collectors twice and emits the second pass.
func snapshotCommand() error {
	cfg, _, err := loadConfig()
	if err != nil {
		_ = WriteJSONFromError(os.Stdout, err)
		return errors.NewExitError(1)
	}

	runner := exec.NewLocalRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gate := detectGate(ctx, runner, cfg)
	sched := newScheduler(runner, gate, cfg, logger.NewEnvLogger("[sched]"))

	// The first pass primes rate counters; the second produces the
	// reported values.
	sched.CollectNow(ctx)
	time.Sleep(250 * time.Millisecond)
	snap := sched.CollectNow(ctx)

	return WriteJSONSuccess(os.Stdout, snap)
}
