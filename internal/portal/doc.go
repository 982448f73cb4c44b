// Package portal talks to captive portals.
//
// Probe issues one GET to a well-known endpoint and decides whether the
// response was intercepted. ExtractForm scrapes the hidden token fields a
// login submission must echo back. Submit posts the credentials and
// Classifier maps the response body onto a domain.LoginOutcome.
//
// The supported family is FortiGate-style firewall authentication. This is
// not a general scraper: only the first form of a page is considered.
package portal
