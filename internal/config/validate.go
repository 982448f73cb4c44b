package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"portalkombat/internal/portal"
)

// Validate checks the config and returns every problem found
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Profile.Username) == "" {
		errs = append(errs, errors.New("profile.username is required"))
	}
	if c.Profile.Password == "" {
		errs = append(errs, fmt.Errorf("profile.password is required (or set $%s)", EnvPassword))
	}

	if c.PollIntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval_seconds must be positive, got %d", c.PollIntervalSeconds))
	}
	if c.ProbeTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("probe_timeout_seconds must be positive, got %d", c.ProbeTimeoutSeconds))
	} else if c.PollIntervalSeconds > 0 && c.ProbeTimeoutSeconds >= c.PollIntervalSeconds {
		errs = append(errs, fmt.Errorf("probe_timeout_seconds (%d) must be less than poll_interval_seconds (%d)",
			c.ProbeTimeoutSeconds, c.PollIntervalSeconds))
	}

	if u, err := url.Parse(c.ProbeURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("probe_url %q must be an absolute http(s) URL", c.ProbeURL))
	}

	if _, err := portal.NewHostMatcher(c.Portal.AllowedHosts); err != nil {
		errs = append(errs, fmt.Errorf("portal.allowed_hosts: %w", err))
	}
	if _, err := portal.NewClassifier(c.Portal.Markers); err != nil {
		errs = append(errs, fmt.Errorf("portal.markers: %w", err))
	}

	if c.History.Enabled && c.History.Keep < 0 {
		errs = append(errs, fmt.Errorf("history.keep must not be negative, got %d", c.History.Keep))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}

	return errors.Join(errs...)
}
