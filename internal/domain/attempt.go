package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attempt records a single login submission and its classified outcome.
// Credentials are never part of an attempt.
type Attempt struct {
	ID         string       `json:"id"`
	At         time.Time    `json:"at"`
	PortalURL  string       `json:"portal_url"`
	PortalHost string       `json:"portal_host"`
	Outcome    LoginOutcome `json:"outcome"`
	Detail     string       `json:"detail,omitempty"`
}

// NewAttempt creates an attempt stamped with a fresh ID and the current time
func NewAttempt(portalURL, portalHost string, outcome LoginOutcome, detail string) Attempt {
	return Attempt{
		ID:         uuid.NewString(),
		At:         time.Now().UTC(),
		PortalURL:  portalURL,
		PortalHost: portalHost,
		Outcome:    outcome,
		Detail:     detail,
	}
}
