package domain

import "fmt"

// Profile is the stored credential pair submitted to the portal
type Profile struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
}

// Valid reports whether both credentials are present
func (p Profile) Valid() bool {
	return p.Username != "" && p.Password != ""
}

// String redacts the password
func (p Profile) String() string {
	return fmt.Sprintf("Profile{username=%q, password=<redacted>}", p.Username)
}

// GoString redacts the password for %#v
func (p Profile) GoString() string {
	return p.String()
}
