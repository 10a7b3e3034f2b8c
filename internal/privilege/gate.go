// Package privilege determines the capability tier for the process lifetime.
// The tier is computed once at startup and passed explicitly to everything
// that needs it; nothing re-checks privileges mid-run.
package privilege

import (
	"context"
	"os"
	"time"

	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
)

// Capability is the mutation-permission tier for the process lifetime.
type Capability int

const (
	// Full permits every operation, including service lifecycle and
	// boot-config mutations.
	Full Capability = iota
	// ReadOnly permits all polling and journal reads; every mutation is
	// rejected before any external call.
	ReadOnly
	// Safe is ReadOnly with GPU and container polling disabled as well.
	Safe
)

// String returns a human-readable tier name.
func (c Capability) String() string {
	switch c {
	case Full:
		return "full"
	case ReadOnly:
		return "read-only"
	case Safe:
		return "safe"
	default:
		return "unknown"
	}
}

// Gate is the immutable privilege decision handed to the scheduler and the
// control subsystem at startup.
type Gate struct {
	Capability Capability

	// UseSudo is set when mutations must be wrapped in `sudo -n`; a root
	// process talks to systemctl directly.
	UseSudo bool
}

// AllowMutations reports whether mutating control operations are permitted.
func (g Gate) AllowMutations() bool {
	return g.Capability == Full
}

// PollGPU reports whether GPU adapters may run under this gate.
func (g Gate) PollGPU() bool {
	return g.Capability != Safe
}

// PollContainers reports whether the container adapter may run under this gate.
func (g Gate) PollContainers() bool {
	return g.Capability != Safe
}

// sudoProbeTimeout bounds the non-interactive sudo check so startup never
// hangs on a password prompt misconfiguration.
const sudoProbeTimeout = 2 * time.Second

// Detect computes the gate from the effective identity and the safe-mode
// request. Called once at startup.
func Detect(ctx context.Context, runner exec.Runner, safeMode bool) Gate {
	return detect(ctx, runner, safeMode, os.Geteuid())
}

func detect(ctx context.Context, runner exec.Runner, safeMode bool, euid int) Gate {
	if safeMode {
		return Gate{Capability: Safe}
	}

	if euid == 0 {
		return Gate{Capability: Full}
	}

	probeCtx, cancel := context.WithTimeout(ctx, sudoProbeTimeout)
	defer cancel()

	// -n fails instead of prompting when no cached credential exists.
	res, err := runner.Run(probeCtx, "sudo", "-n", "true")
	if err == nil && res.Ok() {
		return Gate{Capability: Full, UseSudo: true}
	}

	logger.Default().Debug("sudo probe failed, running read-only: %v", err)
	return Gate{Capability: ReadOnly}
}
