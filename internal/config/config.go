// Package config provides configuration management for portalkombat.
//
// Config file locations (priority order):
//  1. $PORTALKOMBAT_CONFIG
//  2. ./portalkombat.yaml
//  3. $XDG_CONFIG_HOME/portalkombat/config.yaml
//  4. ~/.config/portalkombat/config.yaml
//  5. /etc/portalkombat/config.yaml
//
// The file carries the login password, so it is written with mode 0600.
// $PORTALKOMBAT_PASSWORD overrides profile.password when set.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"portalkombat/internal/domain"
	"portalkombat/internal/platform"
	"portalkombat/internal/portal"
)

// EnvPassword overrides profile.password
const EnvPassword = "PORTALKOMBAT_PASSWORD"

const (
	DefaultPollIntervalSeconds = 30
	DefaultHistoryKeep         = 500
	DefaultReloadDebounce      = 500 * time.Millisecond
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Parse decodes YAML over the defaults and applies environment overrides
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := ensurePrivateDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(path, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		ProbeTimeoutSeconds: int(portal.DefaultTimeout / time.Second),
		ProbeURL:            domain.DefaultProbeURL,
		ReachabilityAddr:    platform.DefaultReachabilityAddr,
		Portal: PortalConfig{
			TokenFields: append([]string(nil), portal.DefaultTokenFields...),
			Markers:     portal.DefaultMarkers(),
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
			Keep:    DefaultHistoryKeep,
		},
		Status: StatusConfig{
			Enabled: true,
			Socket:  DefaultStatusSocket(),
		},
		Reload: ReloadConfig{
			Enabled:  true,
			Debounce: Duration(DefaultReloadDebounce),
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// applyDefaults fills in values an explicit empty entry cleared
func (c *Config) applyDefaults() {
	if c.ProbeURL == "" {
		c.ProbeURL = domain.DefaultProbeURL
	}
	if c.ReachabilityAddr == "" {
		c.ReachabilityAddr = platform.DefaultReachabilityAddr
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
	c.History.Path = ExpandHome(c.History.Path)
	if c.Status.Socket == "" {
		c.Status.Socket = DefaultStatusSocket()
	}
	if c.Reload.Debounce <= 0 {
		c.Reload.Debounce = Duration(DefaultReloadDebounce)
	}

	def := portal.DefaultMarkers()
	if c.Portal.Markers.Concurrent == "" {
		c.Portal.Markers.Concurrent = def.Concurrent
	}
	if c.Portal.Markers.AuthFailed == "" {
		c.Portal.Markers.AuthFailed = def.AuthFailed
	}
	if c.Portal.Markers.Success == "" {
		c.Portal.Markers.Success = def.Success
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) applyEnv() {
	if pw := os.Getenv(EnvPassword); pw != "" {
		c.Profile.Password = pw
	}
}

// Summary returns a human-readable config summary without secrets
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Profile: %s, Poll: %s, Probe timeout: %s\n",
		c.DomainProfile(), c.PollInterval(), c.ProbeTimeout())
	summary += fmt.Sprintf("Probe: %s, Reachability: %s\n", c.ProbeURL, c.ReachabilityAddr)
	if len(c.Portal.AllowedHosts) == 0 {
		summary += "Allowed portal hosts: any\n"
	} else {
		summary += fmt.Sprintf("Allowed portal hosts: %v\n", c.Portal.AllowedHosts)
	}
	switch {
	case c.History.Enabled && c.History.Keep == 0:
		summary += fmt.Sprintf("History: %s (keep all)", c.History.Path)
	case c.History.Enabled:
		summary += fmt.Sprintf("History: %s (keep %d)", c.History.Path, c.History.Keep)
	default:
		summary += "History: disabled"
	}
	return summary
}
