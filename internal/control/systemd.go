package control

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/exec"
)

// ServiceUnit is one systemd service as shown in the services view. Name
// keeps the full ".service" form so it can be passed back to systemctl.
type ServiceUnit struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LoadState   string `json:"load_state"`
	ActiveState string `json:"active_state"`
	SubState    string `json:"sub_state"`

	// UnitFileState is the raw state column from list-unit-files
	// (enabled, disabled, static, masked, ...).
	UnitFileState string `json:"unit_file_state,omitempty"`
	Enabled       bool   `json:"enabled"`
}

// Running reports whether the unit is actively running.
func (u ServiceUnit) Running() bool {
	return u.ActiveState == "active"
}

// Failed reports whether the unit is in a failed state.
func (u ServiceUnit) Failed() bool {
	return u.ActiveState == "failed"
}

// Action is one service lifecycle verb.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// NeedsConfirmation reports whether the action must be confirmed before
// execution. Stopping, restarting, and disabling can interrupt a live
// service; starting and enabling cannot.
func (a Action) NeedsConfirmation() bool {
	return a == ActionStop || a == ActionRestart || a == ActionDisable
}

func (a Action) valid() bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart, ActionEnable, ActionDisable:
		return true
	}
	return false
}

// Services enumerates all installed service units, not only loaded ones.
// The listing is always fresh; callers must re-invoke it after any action
// instead of patching a cached copy.
func (c *Controller) Services(ctx context.Context) ([]ServiceUnit, error) {
	res, err := c.runner.Run(ctx, "systemctl",
		"list-units", "--type=service", "--all", "--plain", "--no-legend", "--no-pager")
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, commandFailed("systemctl list-units", res)
	}

	units := parseListUnits(res.Stdout)

	// list-unit-files adds installed-but-unloaded units and carries the
	// enabled state for everything, saving a per-unit is-enabled call.
	fres, err := c.runner.Run(ctx, "systemctl",
		"list-unit-files", "--type=service", "--no-legend", "--no-pager")
	if err == nil && fres.Ok() {
		mergeUnitFiles(&units, parseUnitFiles(fres.Stdout))
	} else {
		c.log.Debug("list-unit-files failed, enabled states unknown: %v", err)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}

// ApplyService runs one lifecycle action on a unit. The caller is
// responsible for surfacing the confirmation step for actions that need
// one before invoking this; ApplyService itself executes unconditionally
// once the gate allows it.
func (c *Controller) ApplyService(ctx context.Context, action Action, unit string) error {
	if !action.valid() {
		return errors.New(errors.ErrParse,
			fmt.Sprintf("Unknown service action %q", string(action)), "")
	}
	if !c.gate.AllowMutations() {
		return errors.NewPermissionDenied(string(action) + "ing services")
	}
	if unit == "" {
		return errors.New(errors.ErrParse, "No service selected", "")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name, args := c.command("systemctl", string(action), unit)
	res, err := c.runner.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return commandFailed(fmt.Sprintf("systemctl %s %s", action, unit), res)
	}

	c.log.Info("service %s: %s", unit, action)
	return nil
}

// commandFailed builds the external-failure error, carrying the command's
// stderr verbatim.
func commandFailed(what string, res exec.Result) error {
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = fmt.Sprintf("exit code %d", res.ExitCode)
	}
	return errors.New(errors.ErrExternal,
		fmt.Sprintf("%s failed: %s", what, detail), "")
}

// parseListUnits parses `systemctl list-units --plain --no-legend` output.
// Each line: UNIT LOAD ACTIVE SUB DESCRIPTION...
func parseListUnits(output string) []ServiceUnit {
	var units []ServiceUnit

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || !strings.HasSuffix(fields[0], ".service") {
			continue
		}

		units = append(units, ServiceUnit{
			Name:        fields[0],
			LoadState:   fields[1],
			ActiveState: fields[2],
			SubState:    fields[3],
			Description: strings.Join(fields[4:], " "),
		})
	}

	return units
}

// parseUnitFiles parses `systemctl list-unit-files --no-legend` output into
// unit name -> state. Each line: UNIT-FILE STATE [PRESET]
func parseUnitFiles(output string) map[string]string {
	states := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasSuffix(fields[0], ".service") {
			continue
		}
		states[fields[0]] = fields[1]
	}

	return states
}

// mergeUnitFiles annotates loaded units with their file state and appends
// installed units that are not loaded at all, so a stopped-but-installed
// service still shows up.
func mergeUnitFiles(units *[]ServiceUnit, states map[string]string) {
	seen := make(map[string]bool, len(*units))

	for i := range *units {
		u := &(*units)[i]
		seen[u.Name] = true
		if state, ok := states[u.Name]; ok {
			u.UnitFileState = state
			u.Enabled = enabledState(state)
		}
	}

	for name, state := range states {
		if seen[name] {
			continue
		}
		// Template units need an instance name to run; skip the bare form.
		if strings.Contains(name, "@.") {
			continue
		}
		*units = append(*units, ServiceUnit{
			Name:          name,
			ActiveState:   "inactive",
			SubState:      "dead",
			UnitFileState: state,
			Enabled:       enabledState(state),
		})
	}
}

func enabledState(state string) bool {
	return state == "enabled" || state == "enabled-runtime"
}
