package domain

import (
	"net/url"
	"strings"
)

// DefaultProbeURL returns HTTP 204 when traffic is not intercepted
const DefaultProbeURL = "http://connectivitycheck.gstatic.com/generate_204"

// Field names with special meaning inside Fields
const (
	FieldSubmit   = "submit" // extracted form action, never sent
	FieldUsername = "username"
	FieldPassword = "password"
)

// Field is a single name=value pair of a form submission
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered mapping of field name to value.
// Set replaces an existing entry in place so order follows first insertion.
type Fields []Field

// Get returns the value for name and whether it was present
func (f Fields) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Set adds or replaces the value for name
func (f *Fields) Set(name, value string) {
	for i := range *f {
		if (*f)[i].Name == name {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Name: name, Value: value})
}

// Without returns a copy of f with name removed
func (f Fields) Without(name string) Fields {
	out := make(Fields, 0, len(f))
	for _, field := range f {
		if field.Name != name {
			out = append(out, field)
		}
	}
	return out
}

// Names returns the field names in order
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Encode renders the fields as application/x-www-form-urlencoded in order.
// url.Values is not used because it sorts keys.
func (f Fields) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}

// PortalSession is the working set of a single detection cycle
type PortalSession struct {
	ProbeURL         string
	PortalURL        string // empty until the probe reports interception
	SubmissionFields Fields
}

// NewPortalSession starts a session for one cycle
func NewPortalSession(probeURL string) *PortalSession {
	return &PortalSession{ProbeURL: probeURL}
}

// HasPortal reports whether the probe discovered a portal URL
func (s *PortalSession) HasPortal() bool {
	return s != nil && s.PortalURL != ""
}

// PrepareSubmission merges the scraped fields with the profile credentials.
// Credentials always win over same-named scraped fields.
func (s *PortalSession) PrepareSubmission(scraped Fields, profile Profile) {
	fields := make(Fields, 0, len(scraped)+2)
	fields = append(fields, scraped...)
	fields.Set(FieldUsername, profile.Username)
	fields.Set(FieldPassword, profile.Password)
	s.SubmissionFields = fields
}
