package cli

import (
	"testing"

	"github.com/mfenwick/vigil/internal/control"
	"github.com/mfenwick/vigil/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitRows(t *testing.T) {
	units := []control.ServiceUnit{
		{
			Name:        "nginx.service",
			Description: "A high performance web server",
			LoadState:   "loaded",
			ActiveState: "active",
			SubState:    "running",
		},
		{
			Name:        "backup.service",
			LoadState:   "loaded",
			ActiveState: "failed",
			SubState:    "failed",
		},
	}

	rows := unitRows(units, 0)
	require.Len(t, rows, 2)

	assert.Equal(t, ui.UnitTableRow{
		Name:        "nginx.service",
		Load:        "loaded",
		Active:      "active",
		Sub:         "running",
		Description: "A high performance web server",
	}, rows[0])
	assert.Equal(t, "failed", rows[1].Active)
}

func TestUnitRows_TruncatesDescriptions(t *testing.T) {
	units := []control.ServiceUnit{
		{Name: "nginx.service", Description: "A high performance web server"},
	}

	rows := unitRows(units, 12)
	require.Len(t, rows, 1)
	assert.Equal(t, "A high pe...", rows[0].Description)

	rows = unitRows(units, 0)
	assert.Equal(t, "A high performance web server", rows[0].Description,
		"zero budget leaves descriptions whole")
}

func TestUnitRows_Empty(t *testing.T) {
	assert.Empty(t, unitRows(nil, 0))
}

func TestNewServiceActionCmd(t *testing.T) {
	cmd := newServiceActionCmd(control.ActionStop)

	assert.Equal(t, "stop <unit>", cmd.Use)
	assert.Equal(t, "Stop a service unit", cmd.Short)

	assert.Error(t, cmd.Args(cmd, []string{}), "unit argument is required")
	assert.NoError(t, cmd.Args(cmd, []string{"nginx.service"}))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}), "only one unit per invocation")
}

func TestServicesCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range servicesCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"list", "start", "stop", "restart", "enable", "disable"} {
		assert.True(t, names[want], "missing services subcommand %q", want)
	}
}

func TestServicesCmd_YesFlag(t *testing.T) {
	assert.NotNil(t, servicesCmd.PersistentFlags().Lookup("yes"))
}
