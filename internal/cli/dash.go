package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/control"
	"github.com/mfenwick/vigil/internal/dash"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
	"github.com/mfenwick/vigil/internal/metrics"
	"github.com/mfenwick/vigil/internal/privilege"
)

// dashCommand assembles the telemetry and control planes and runs the
// dashboard until the user quits.
func dashCommand() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	notes, err := applyRootFlags(cfg)
	if err != nil {
		return err
	}
	// The alternate screen restores the prior terminal contents on exit,
	// so notes printed here stay readable after the dashboard closes.
	for _, note := range notes {
		fmt.Fprintf(os.Stderr, "vigil: %s\n", note)
	}

	runner := exec.NewLocalRunner()
	gate := detectGate(context.Background(), runner, cfg)

	// Anything logged to stderr while the alternate screen is active tears
	// the display, so the whole engine runs on the noop logger.
	log := logger.Noop()
	logger.SetDefault(log)

	sched := newScheduler(runner, gate, cfg, log)
	ctrl := control.New(runner, gate, cfg, log)
	model := dash.New(sched, ctrl, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newScheduler builds the collector set honoring config toggles and the
// privilege gate. Disabled sources still appear in snapshots, marked
// DISABLED, so consumers can tell "off" from "broken".
func newScheduler(runner exec.Runner, gate privilege.Gate, cfg *config.Config, log logger.Logger) *metrics.Scheduler {
	hist := metrics.NewHistory(cfg.History)
	sched := metrics.NewScheduler(metrics.BuildCollectors(runner), cfg.Refresh(), hist, log)
	if !cfg.Docker || !gate.PollContainers() {
		sched.SetEnabled("docker", false)
	}
	if !cfg.GPU || !gate.PollGPU() {
		sched.SetEnabled("gpu", false)
	}
	if !cfg.Network {
		sched.SetEnabled("network", false)
	}
	return sched
}
