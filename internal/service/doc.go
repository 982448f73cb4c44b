// Package service coordinates the portalkombat daemon.
//
// Daemon owns the current Machine and rebuilds it on config reload. The
// rebuilt machine only takes over between cycles, so a cycle in flight
// always finishes with the profile it started with.
//
// # Event System
//
// Machines publish through EventBus. The SSE hub subscribes to the bus and
// streams state changes, completed cycles and login attempts to status
// clients.
package service
