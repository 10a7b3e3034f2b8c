package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/privilege"
)

// CapabilityCheck reports the privilege tier the process detected at startup.
type CapabilityCheck struct {
	Gate privilege.Gate
}

func (c *CapabilityCheck) Name() string     { return "capability" }
func (c *CapabilityCheck) Category() string { return "PRIVILEGE" }

func (c *CapabilityCheck) Run(ctx context.Context) CheckResult {
	switch c.Gate.Capability {
	case privilege.Full:
		how := "running as root"
		if c.Gate.UseSudo {
			how = fmt.Sprintf("uid %d with cached sudo credentials", os.Geteuid())
		}
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("full control (%s)", how),
		}
	case privilege.Safe:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "safe mode: GPU and container polling off, mutations disabled",
			Suggestion: "Remove --safe (or safe_mode from the config) to enable them",
		}
	default:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "read-only: service control and boot-config edits are disabled",
			Suggestion: "Run as root, or cache sudo credentials with 'sudo -v' before starting",
		}
	}
}

func (c *CapabilityCheck) Fix() error {
	return nil // Privilege escalation is the operator's call
}

// SudoSystemctlCheck verifies the sudo grant actually covers systemctl.
// Some sudoers policies whitelist specific commands, so a successful
// `sudo -n true` probe does not guarantee service control will work.
type SudoSystemctlCheck struct {
	Gate   privilege.Gate
	Runner exec.Runner
}

func (c *SudoSystemctlCheck) Name() string     { return "sudo_systemctl" }
func (c *SudoSystemctlCheck) Category() string { return "PRIVILEGE" }

func (c *SudoSystemctlCheck) Run(ctx context.Context) CheckResult {
	if !c.Gate.UseSudo {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "not using sudo",
		}
	}

	res, err := c.Runner.Run(ctx, "sudo", "-n", "systemctl", "--version")
	if err != nil || !res.Ok() {
		msg := "sudo cannot run systemctl non-interactively"
		if err == nil && strings.TrimSpace(res.Stderr) != "" {
			msg = fmt.Sprintf("%s: %s", msg, strings.TrimSpace(res.Stderr))
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    msg,
			Suggestion: "Service actions will fail; check the sudoers policy for systemctl",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "sudo covers systemctl",
	}
}

func (c *SudoSystemctlCheck) Fix() error {
	return nil // Sudoers policy is out of scope
}

// NewPrivilegeChecks creates the privilege-tier checks.
func NewPrivilegeChecks(gate privilege.Gate, runner exec.Runner) []Check {
	return []Check{
		&CapabilityCheck{Gate: gate},
		&SudoSystemctlCheck{Gate: gate, Runner: runner},
	}
}
