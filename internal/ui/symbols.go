package ui

// Unicode symbols for status indicators in CLI output.
const (
	SymbolSuccess  = "✓" // Action completed successfully
	SymbolFail     = "✗" // Action failed
	SymbolPending  = "○" // Not yet run
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Done (alternative to success)
	SymbolSkipped  = "⊘" // Skipped or cancelled
)
