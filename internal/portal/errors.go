package portal

import (
	"errors"
	"fmt"
)

// TransportError reports a network failure (timeout, DNS, refused
// connection) while talking to the probe endpoint or the portal
type TransportError struct {
	Op  string // probe, fetch, submit
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a login page without the expected form
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse login page: " + e.Reason
}

// IsTransport reports whether err is or wraps a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsParse reports whether err is or wraps a ParseError
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
