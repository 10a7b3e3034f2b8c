// Package ui provides styled terminal output for vigil's CLI commands.
//
// The package covers the inline output surface: doctor diagnostic tables,
// systemd unit tables, and the shared color and symbol vocabulary. The
// full-screen dashboard carries its own styling and does not use this
// package.
//
// # Color Scheme
//
// Colors are defined as ANSI codes so output follows the terminal theme:
//
//	ColorSuccess   (green)  - Healthy state, successful actions
//	ColorError     (red)    - Failures and failed units
//	ColorWarning   (yellow) - Warnings and degraded state
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, suggestions
//	ColorSecondary (blue)   - Accents
//
// # Symbols
//
// Unicode symbols provide visual status indicators:
//
//	SymbolSuccess  (checkmark)  - Action completed successfully
//	SymbolFail     (X)          - Action failed
//	SymbolPending  (circle)     - Not yet run
//	SymbolProgress (half-fill)  - In progress
//	SymbolComplete (filled)     - Done (alternative)
//	SymbolSkipped  (slashed)    - Skipped or cancelled
//
// # Tables
//
// RenderDoctorTable groups check results by category with status icons
// and muted suggestions. RenderUnitTable lists systemd units with the
// active state colored by health.
package ui
