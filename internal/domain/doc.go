// Package domain defines the core types for the portalkombat captive-portal
// auto-login daemon.
//
// # Core Types
//
// Profile holds the stored credentials. It is loaded once and never
// mutated while a Machine owns it.
//
// PortalSession is the ephemeral working set of one detection cycle: the
// probe URL, the portal URL discovered by the probe, and the ordered
// submission fields scraped from the login page. It is discarded when the
// cycle returns to Idle.
//
// LoginOutcome and MachineState are closed enumerations. Every value is
// declared here and nowhere else.
//
// Attempt is the history record written after each login submission.
//
// # Design Principles
//
// - No network, database or platform dependencies
// - Closed enumerations with String and text marshaling
// - Credentials never leak through fmt or JSON
package domain
