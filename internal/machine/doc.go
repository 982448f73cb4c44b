// Package machine sequences one detection-and-login cycle per poll tick.
//
// A cycle starts in Idle and follows Idle -> AdapterOn -> OnLoginPage ->
// Idle, stopping at the first return to Idle. Transition is a pure
// function of the current state and what was observed while in it; the
// Machine only gathers observations and applies it. Every error inside a
// cycle resolves to a transition, none escapes.
//
// Runner drives the Machine at a fixed interval without ever overlapping
// two cycles.
package machine
