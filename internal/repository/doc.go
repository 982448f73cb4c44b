// Package repository defines the data access interfaces for portalkombat.
//
// Login attempts are the only persisted entity. The daemon records every
// classified submission so `portalkombat history` and the status endpoint
// can show what happened on past cycles. The implementation lives in the
// sqlite subpackage.
//
// # Retention
//
// History is bounded: after each insert the store keeps only the most
// recent attempts, as configured by history.keep.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
