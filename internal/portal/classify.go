package portal

import (
	"fmt"
	"regexp"

	"portalkombat/internal/domain"
)

// Markers are the literal phrases and beacon pattern that identify a
// submission outcome
type Markers struct {
	// Concurrent is a case-insensitive substring of the session-limit page
	Concurrent string `yaml:"concurrent"`
	// AuthFailed is a case-insensitive substring of the rejected-login page
	AuthFailed string `yaml:"auth_failed"`
	// Success is a regular expression matching the keepalive beacon URL
	Success string `yaml:"success"`
}

// DefaultMarkers returns the FortiGate markers
func DefaultMarkers() Markers {
	return Markers{
		Concurrent: "concurrent authentication",
		AuthFailed: "Firewall authentication failed",
		Success:    `keepalive\?[0-9A-Za-z]+`,
	}
}

// Classifier maps a submission response body onto a LoginOutcome.
// Patterns are compiled once and never change.
type Classifier struct {
	concurrent *regexp.Regexp
	authFailed *regexp.Regexp
	success    *regexp.Regexp
}

// NewClassifier compiles m. Empty fields fall back to DefaultMarkers.
func NewClassifier(m Markers) (*Classifier, error) {
	def := DefaultMarkers()
	if m.Concurrent == "" {
		m.Concurrent = def.Concurrent
	}
	if m.AuthFailed == "" {
		m.AuthFailed = def.AuthFailed
	}
	if m.Success == "" {
		m.Success = def.Success
	}

	success, err := regexp.Compile(m.Success)
	if err != nil {
		return nil, fmt.Errorf("compile success marker: %w", err)
	}

	return &Classifier{
		concurrent: literal(m.Concurrent),
		authFailed: literal(m.AuthFailed),
		success:    success,
	}, nil
}

// MustClassifier is NewClassifier for known-good markers
func MustClassifier(m Markers) *Classifier {
	c, err := NewClassifier(m)
	if err != nil {
		panic(err)
	}
	return c
}

func literal(s string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(s))
}

// Classify checks the session limit first, then the auth failure, then the
// success beacon. Error pages embedding the beacon are never a success.
func (c *Classifier) Classify(body string) domain.LoginOutcome {
	switch {
	case c.concurrent.MatchString(body):
		return domain.OutcomeMaxConcurrentSessions
	case c.authFailed.MatchString(body):
		return domain.OutcomeWrongCredentials
	case c.success.MatchString(body):
		return domain.OutcomeSuccess
	default:
		return domain.OutcomeUnknown
	}
}
