package domain

import "fmt"

// LoginOutcome is the classified result of a login submission
type LoginOutcome int

const (
	OutcomeUnknown LoginOutcome = iota
	OutcomeSuccess
	OutcomeWrongCredentials
	OutcomeMaxConcurrentSessions
)

var outcomeNames = map[LoginOutcome]string{
	OutcomeUnknown:               "unknown",
	OutcomeSuccess:               "success",
	OutcomeWrongCredentials:      "wrong_credentials",
	OutcomeMaxConcurrentSessions: "max_concurrent_sessions",
}

// Outcomes lists every LoginOutcome value
func Outcomes() []LoginOutcome {
	return []LoginOutcome{
		OutcomeSuccess,
		OutcomeWrongCredentials,
		OutcomeMaxConcurrentSessions,
		OutcomeUnknown,
	}
}

func (o LoginOutcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("LoginOutcome(%d)", int(o))
}

// ParseLoginOutcome converts a stored name back to a LoginOutcome.
// Unrecognised names map to OutcomeUnknown.
func ParseLoginOutcome(s string) LoginOutcome {
	for o, name := range outcomeNames {
		if name == s {
			return o
		}
	}
	return OutcomeUnknown
}

// MarshalText implements encoding.TextMarshaler
func (o LoginOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *LoginOutcome) UnmarshalText(text []byte) error {
	*o = ParseLoginOutcome(string(text))
	return nil
}
