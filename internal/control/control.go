// Package control is the privileged side of vigil: service lifecycle,
// journal queries, boot-configuration edits, and host identity changes.
// Every mutation is checked against the privilege gate before any external
// command is attempted, and mutations are serialized relative to each other.
package control

import (
	"sync"

	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/exec"
	"github.com/mfenwick/vigil/internal/logger"
	"github.com/mfenwick/vigil/internal/privilege"
)

// Controller executes control-plane operations through the runner. Reads are
// safe from any goroutine; mutations take an internal lock so two actions
// never interleave their external commands.
type Controller struct {
	runner exec.Runner
	gate   privilege.Gate
	log    logger.Logger

	grubPath     string
	journalLines int

	// mu serializes mutations only; reads (listing, journal) stay lock-free.
	mu sync.Mutex
}

// New creates a controller bound to the given gate. The gate is fixed for
// the process lifetime, so a controller never re-checks privileges.
func New(runner exec.Runner, gate privilege.Gate, cfg *config.Config, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{
		runner:       runner,
		gate:         gate,
		log:          log,
		grubPath:     cfg.GrubPath,
		journalLines: cfg.JournalLines,
	}
}

// Gate returns the privilege decision this controller operates under.
func (c *Controller) Gate() privilege.Gate {
	return c.gate
}

// command wraps a privileged command in `sudo -n` when the process is not
// root. -n fails instead of prompting: the terminal belongs to the UI.
func (c *Controller) command(name string, args ...string) (string, []string) {
	if c.gate.UseSudo {
		return "sudo", append([]string{"-n", name}, args...)
	}
	return name, args
}
