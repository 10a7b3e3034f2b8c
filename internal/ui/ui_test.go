package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSemanticColorsExist(t *testing.T) {
	tests := []struct {
		name  string
		color lipgloss.Color
	}{
		{"ColorSuccess", ColorSuccess},
		{"ColorError", ColorError},
		{"ColorWarning", ColorWarning},
		{"ColorInfo", ColorInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, string(tt.color), "%s should not be empty", tt.name)
		})
	}
}

func TestColorValues(t *testing.T) {
	// ANSI palette indices, not hex, so output follows the terminal theme
	tests := []struct {
		name     string
		color    lipgloss.Color
		expected string
	}{
		{"ColorSuccess is green", ColorSuccess, "2"},
		{"ColorError is red", ColorError, "1"},
		{"ColorWarning is yellow", ColorWarning, "3"},
		{"ColorInfo is cyan", ColorInfo, "6"},
		{"ColorPrimary is white", ColorPrimary, "7"},
		{"ColorSecondary is blue", ColorSecondary, "4"},
		{"ColorMuted is gray", ColorMuted, "8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.color), "%s should be ANSI index %s", tt.name, tt.expected)
		})
	}
}

func TestSymbolsExist(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected string
	}{
		{"SymbolSuccess", SymbolSuccess, "✓"},
		{"SymbolFail", SymbolFail, "✗"},
		{"SymbolPending", SymbolPending, "○"},
		{"SymbolProgress", SymbolProgress, "◐"},
		{"SymbolComplete", SymbolComplete, "●"},
		{"SymbolSkipped", SymbolSkipped, "⊘"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.symbol, "%s should be %q", tt.name, tt.expected)
		})
	}
}

func TestColorsAreUnique(t *testing.T) {
	semanticColors := []lipgloss.Color{
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
	}

	seen := make(map[string]bool)
	for _, c := range semanticColors {
		colorStr := string(c)
		assert.False(t, seen[colorStr], "semantic colors should be unique, found duplicate: %s", colorStr)
		seen[colorStr] = true
	}
}

func TestSymbolsAreUnique(t *testing.T) {
	symbols := []string{
		SymbolSuccess,
		SymbolFail,
		SymbolPending,
		SymbolProgress,
		SymbolComplete,
		SymbolSkipped,
	}

	seen := make(map[string]bool)
	for _, s := range symbols {
		assert.False(t, seen[s], "symbols should be unique, found duplicate: %s", s)
		seen[s] = true
	}
}
