// Package handler implements the HTTP handlers of the local status API.
//
// # Endpoints
//
//   - GET /v1/status returns the daemon snapshot
//   - GET /v1/history?limit=N returns recent login attempts, newest first
//
// Unknown routes answer 404 with {"error":"Not Found"}. Every error is a
// JSON object with a single "error" field.
package handler
