package doctor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mfenwick/vigil/internal/exec"
)

// SystemctlCheck verifies systemctl is present and answering.
type SystemctlCheck struct {
	Runner exec.Runner
}

func (c *SystemctlCheck) Name() string     { return "systemctl" }
func (c *SystemctlCheck) Category() string { return "SERVICES" }

func (c *SystemctlCheck) Run(ctx context.Context) CheckResult {
	res, err := c.Runner.Run(ctx, "systemctl", "--version")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "systemctl not found",
			Suggestion: "vigil manages services through systemd; the services tab needs systemctl on PATH",
		}
	}

	if !res.Ok() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("systemctl returned exit code %d", res.ExitCode),
			Suggestion: "Is this machine booted with systemd as PID 1?",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("systemd %s", parseSystemdVersion(res.Stdout)),
	}
}

func (c *SystemctlCheck) Fix() error {
	return nil // System package installation is out of scope
}

// JournalctlCheck verifies journalctl is present for the logs tab.
type JournalctlCheck struct {
	Runner exec.Runner
}

func (c *JournalctlCheck) Name() string     { return "journalctl" }
func (c *JournalctlCheck) Category() string { return "SERVICES" }

func (c *JournalctlCheck) Run(ctx context.Context) CheckResult {
	res, err := c.Runner.Run(ctx, "journalctl", "--version")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "journalctl not found",
			Suggestion: "The logs tab reads the systemd journal; install systemd's journal tools",
		}
	}

	if !res.Ok() {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("journalctl returned exit code %d", res.ExitCode),
		}
	}

	// Reading the journal needs group membership when not root.
	res, err = c.Runner.Run(ctx, "journalctl", "-n", "1", "--no-pager", "--quiet")
	if err == nil && !res.Ok() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "journalctl present but the journal is not readable",
			Suggestion: "Add this user to the systemd-journal group, or run vigil as root",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "journal readable",
	}
}

func (c *JournalctlCheck) Fix() error {
	return nil // Group membership changes are the operator's call
}

var systemdVersionRe = regexp.MustCompile(`systemd (\d+)`)

// parseSystemdVersion extracts the version number from `systemctl --version`
// output ("systemd 252 (252.22-1~deb12u1)" and a feature-flag line).
func parseSystemdVersion(output string) string {
	if m := systemdVersionRe.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}

	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	if line == "" {
		return "unknown"
	}
	return line
}

// NewServiceChecks creates the systemd tooling checks.
func NewServiceChecks(runner exec.Runner) []Check {
	return []Check{
		&SystemctlCheck{Runner: runner},
		&JournalctlCheck{Runner: runner},
	}
}
