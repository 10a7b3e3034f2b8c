// Package dash implements the full-screen terminal dashboard.
//
// The dashboard is a bubbletea program fed by two independent cadences: the
// collection scheduler's snapshot subscription, and the spinner tick that
// repaints between snapshots. All blocking work happens in commands that
// complete as messages; Update and View never touch the filesystem, the
// network, or an external process.
//
// Views are laid out as tabs. Telemetry tabs render straight from the latest
// snapshot and the scheduler's history buffers. Control tabs (services,
// journal, boot config, system identity) load on first entry and run their
// mutations through the privilege-gated controller, surfacing rejections in
// the status line.
package dash
