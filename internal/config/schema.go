package config

import (
	"time"

	"portalkombat/internal/domain"
	"portalkombat/internal/portal"
)

// Config is the root configuration structure
type Config struct {
	PollIntervalSeconds int           `yaml:"poll_interval_seconds"`
	ProbeTimeoutSeconds int           `yaml:"probe_timeout_seconds"`
	Profile             ProfileConfig `yaml:"profile"`
	ProbeURL            string        `yaml:"probe_url"`
	ReachabilityAddr    string        `yaml:"reachability_addr"`
	Portal              PortalConfig  `yaml:"portal"`
	History             HistoryConfig `yaml:"history"`
	Status              StatusConfig  `yaml:"status"`
	Reload              ReloadConfig  `yaml:"reload"`
	Log                 LogConfig     `yaml:"log"`
}

// ProfileConfig holds the login credentials
type ProfileConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// PortalConfig tunes portal detection and classification
type PortalConfig struct {
	AllowedHosts []string       `yaml:"allowed_hosts,omitempty"` // CIDR, IP or one-label host globs, empty = any host
	TokenFields  []string       `yaml:"token_fields,omitempty"`  // besides magic and 4Tredir
	Markers      portal.Markers `yaml:"markers"`
}

// HistoryConfig holds login history settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Keep    int    `yaml:"keep"` // attempts retained after each insert, 0 keeps all
}

// StatusConfig holds the local status endpoint settings
type StatusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Socket  string `yaml:"socket"` // unix socket path or Windows pipe name
}

// ReloadConfig controls config file watching
type ReloadConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Debounce Duration `yaml:"debounce"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DomainProfile returns the credentials as a domain.Profile
func (c *Config) DomainProfile() domain.Profile {
	return domain.Profile{Username: c.Profile.Username, Password: c.Profile.Password}
}

// PollInterval returns the poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// ProbeTimeout returns the probe timeout as a duration
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
