// Package cli implements the vigil command-line interface.
//
// The package is organized around Cobra commands. The root command starts
// the interactive dashboard; subcommands expose the same telemetry and
// control paths as one-shot operations for scripts and remote shells where
// a full-screen TUI is unwelcome.
//
// # Command Structure
//
//	vigil                  - Interactive dashboard (default)
//	vigil doctor           - Diagnose telemetry sources and privileges
//	vigil services         - List systemd services
//	vigil services <verb>  - Apply a lifecycle action to a unit
//	vigil logs             - One-shot journal query
//	vigil snapshot         - One telemetry tick as JSON
//	vigil init             - Write a starter config file
//	vigil version          - Build information
//	vigil completion       - Shell completion scripts
//
// # Assembly
//
// Every command builds the same small engine: resolve config, probe the
// privilege gate, construct a command runner, and hand those to the metrics
// scheduler and the control plane. The dashboard keeps the engine running;
// one-shot commands use it once and exit.
//
// # Flag Handling
//
// Global flags (--config, --safe) are defined on the root command and
// available to all subcommands. Dashboard tuning flags (--refresh,
// --history, --no-docker, --no-gpu, --no-network, --show-system) apply to
// the root invocation only; one-shot commands read the same settings from
// the config file.
//
// # Machine Output
//
// Commands with a --json flag, and vigil snapshot always, emit a stable
// envelope {"success": ..., "data": ... | "error": ...} so automation can
// branch on failures without scraping human-oriented text.
package cli
