package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDoctorTable(t *testing.T) {
	rows := []DoctorCheckRow{
		{Status: "pass", Category: "SERVICES", Message: "systemd 252"},
		{Status: "warn", Category: "SERVICES", Message: "journal not readable", Suggestion: "Add this user to the systemd-journal group"},
		{Status: "fail", Category: "CONFIG", Message: "Config missing", Suggestion: "Run vigil init"},
	}

	output := RenderDoctorTable(rows)

	assert.Contains(t, output, "SERVICES")
	assert.Contains(t, output, "CONFIG")
	assert.Contains(t, output, "systemd 252")
	assert.Contains(t, output, "journal not readable")
	assert.Contains(t, output, "Add this user to the systemd-journal group")
	assert.Contains(t, output, "Config missing")
	assert.Contains(t, output, "Run vigil init")
}

func TestRenderDoctorTable_EmptyRows(t *testing.T) {
	rows := []DoctorCheckRow{}
	output := RenderDoctorTable(rows)
	assert.Equal(t, "No checks to display", output)
}

func TestRenderDoctorTable_GroupsByCategory(t *testing.T) {
	rows := []DoctorCheckRow{
		{Status: "pass", Category: "Cat1", Message: "Check 1"},
		{Status: "pass", Category: "Cat2", Message: "Check 2"},
		{Status: "pass", Category: "Cat1", Message: "Check 3"},
	}

	output := RenderDoctorTable(rows)

	// Categories appear in the order they were first seen
	cat1First := output[:len(output)/2]
	cat2Second := output[len(output)/2:]

	assert.Contains(t, cat1First, "Cat1")
	assert.Contains(t, output, "Check 1")
	assert.Contains(t, output, "Check 3")
	assert.Contains(t, cat2Second, "Cat2")
}

func TestRenderDoctorTable_NoSuggestionForPass(t *testing.T) {
	rows := []DoctorCheckRow{
		{Status: "pass", Category: "Test", Message: "All good", Suggestion: "This should not appear"},
	}

	output := RenderDoctorTable(rows)

	assert.Contains(t, output, "All good")
	assert.NotContains(t, output, "This should not appear")
}

func TestRenderUnitTable(t *testing.T) {
	rows := []UnitTableRow{
		{Name: "nginx.service", Load: "loaded", Active: "active", Sub: "running", Description: "A high performance web server"},
		{Name: "postgresql.service", Load: "loaded", Active: "failed", Sub: "failed", Description: "PostgreSQL RDBMS"},
		{Name: "bluetooth.service", Load: "loaded", Active: "inactive", Sub: "dead", Description: "Bluetooth service"},
	}

	output := RenderUnitTable(rows)

	assert.Contains(t, output, "UNIT")
	assert.Contains(t, output, "LOAD")
	assert.Contains(t, output, "ACTIVE")
	assert.Contains(t, output, "SUB")
	assert.Contains(t, output, "DESCRIPTION")
	assert.Contains(t, output, "nginx.service")
	assert.Contains(t, output, "postgresql.service")
	assert.Contains(t, output, "bluetooth.service")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "A high performance web server")
}

func TestRenderUnitTable_EmptyRows(t *testing.T) {
	rows := []UnitTableRow{}
	output := RenderUnitTable(rows)
	assert.Equal(t, "No units found", output)
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "shorter than width",
			input:    "foo",
			width:    5,
			expected: "foo  ",
		},
		{
			name:     "equal to width",
			input:    "foobar",
			width:    6,
			expected: "foobar",
		},
		{
			name:     "longer than width",
			input:    "foobar",
			width:    3,
			expected: "foobar",
		},
		{
			name:     "empty string",
			input:    "",
			width:    3,
			expected: "   ",
		},
		{
			name:     "zero width",
			input:    "foo",
			width:    0,
			expected: "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := padRight(tt.input, tt.width)
			assert.Equal(t, tt.expected, result)
		})
	}
}
