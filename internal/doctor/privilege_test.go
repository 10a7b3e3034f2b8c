package doctor

import (
	"context"
	"strings"
	"testing"

	"github.com/mfenwick/vigil/internal/exec"
	exectest "github.com/mfenwick/vigil/internal/exec/testing"
	"github.com/mfenwick/vigil/internal/privilege"
)

func TestCapabilityCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("full as root", func(t *testing.T) {
		check := &CapabilityCheck{Gate: privilege.Gate{Capability: privilege.Full}}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "full control") {
			t.Errorf("unexpected message: %s", result.Message)
		}
	})

	t.Run("full via sudo", func(t *testing.T) {
		check := &CapabilityCheck{Gate: privilege.Gate{Capability: privilege.Full, UseSudo: true}}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "sudo") {
			t.Errorf("expected sudo mention, got %s", result.Message)
		}
	})

	t.Run("read-only warns", func(t *testing.T) {
		check := &CapabilityCheck{Gate: privilege.Gate{Capability: privilege.ReadOnly}}
		result := check.Run(ctx)

		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
		if !strings.Contains(result.Suggestion, "sudo") {
			t.Errorf("expected sudo suggestion, got %s", result.Suggestion)
		}
	})

	t.Run("safe mode warns", func(t *testing.T) {
		check := &CapabilityCheck{Gate: privilege.Gate{Capability: privilege.Safe}}
		result := check.Run(ctx)

		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "safe mode") {
			t.Errorf("unexpected message: %s", result.Message)
		}
	})

	t.Run("name and category", func(t *testing.T) {
		check := &CapabilityCheck{}
		if check.Name() != "capability" {
			t.Errorf("expected name 'capability', got %s", check.Name())
		}
		if check.Category() != "PRIVILEGE" {
			t.Errorf("expected category 'PRIVILEGE', got %s", check.Category())
		}
	})
}

func TestSudoSystemctlCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("not using sudo", func(t *testing.T) {
		runner := exectest.NewFakeRunner()
		check := &SudoSystemctlCheck{
			Gate:   privilege.Gate{Capability: privilege.Full},
			Runner: runner,
		}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v", result.Status)
		}
		if runner.CallCount() != 0 {
			t.Errorf("expected no probe, got %d calls", runner.CallCount())
		}
	})

	t.Run("sudo covers systemctl", func(t *testing.T) {
		runner := exectest.NewFakeRunner()
		runner.Respond("sudo -n systemctl --version", exec.Result{Stdout: "systemd 252\n"})
		check := &SudoSystemctlCheck{
			Gate:   privilege.Gate{Capability: privilege.Full, UseSudo: true},
			Runner: runner,
		}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
	})

	t.Run("sudoers policy blocks systemctl", func(t *testing.T) {
		runner := exectest.NewFakeRunner()
		runner.Respond("sudo -n systemctl --version", exec.Result{
			ExitCode: 1,
			Stderr:   "sudo: a password is required\n",
		})
		check := &SudoSystemctlCheck{
			Gate:   privilege.Gate{Capability: privilege.Full, UseSudo: true},
			Runner: runner,
		}
		result := check.Run(ctx)

		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "a password is required") {
			t.Errorf("expected stderr in message, got %s", result.Message)
		}
	})
}
