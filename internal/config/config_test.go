package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portalkombat/internal/domain"
	"portalkombat/internal/portal"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PollIntervalSeconds != 30 {
		t.Errorf("PollIntervalSeconds = %d, want 30", cfg.PollIntervalSeconds)
	}
	if cfg.ProbeTimeoutSeconds != 5 {
		t.Errorf("ProbeTimeoutSeconds = %d, want 5", cfg.ProbeTimeoutSeconds)
	}
	if cfg.ProbeURL != domain.DefaultProbeURL {
		t.Errorf("ProbeURL = %q", cfg.ProbeURL)
	}
	if cfg.ReachabilityAddr != "8.8.8.8:53" {
		t.Errorf("ReachabilityAddr = %q", cfg.ReachabilityAddr)
	}
	if cfg.Portal.Markers != portal.DefaultMarkers() {
		t.Errorf("Markers = %+v", cfg.Portal.Markers)
	}
	if !cfg.History.Enabled || cfg.History.Path == "" {
		t.Errorf("History = %+v, want enabled with a path", cfg.History)
	}
	if cfg.Reload.Debounce.Duration() != 500*time.Millisecond {
		t.Errorf("Reload.Debounce = %s", cfg.Reload.Debounce.Duration())
	}
}

func TestParse(t *testing.T) {
	t.Setenv(EnvPassword, "")

	data := []byte(`
poll_interval_seconds: 60
probe_timeout_seconds: 3
profile:
  username: alice
  password: hunter2
portal:
  allowed_hosts: ["10.0.0.0/8", "*.campus.example.edu"]
  token_fields: [csrf_token]
  markers:
    auth_failed: "Invalid login"
history:
  enabled: false
reload:
  debounce: 2s
log:
  level: debug
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.PollInterval() != time.Minute {
		t.Errorf("PollInterval() = %s, want 1m", cfg.PollInterval())
	}
	if cfg.ProbeTimeout() != 3*time.Second {
		t.Errorf("ProbeTimeout() = %s, want 3s", cfg.ProbeTimeout())
	}
	if p := cfg.DomainProfile(); p.Username != "alice" || p.Password != "hunter2" {
		t.Errorf("DomainProfile() = %#v", p)
	}
	if len(cfg.Portal.AllowedHosts) != 2 {
		t.Errorf("AllowedHosts = %v", cfg.Portal.AllowedHosts)
	}
	if len(cfg.Portal.TokenFields) != 1 || cfg.Portal.TokenFields[0] != "csrf_token" {
		t.Errorf("TokenFields = %v, want [csrf_token]", cfg.Portal.TokenFields)
	}
	if cfg.Portal.Markers.AuthFailed != "Invalid login" {
		t.Errorf("AuthFailed = %q", cfg.Portal.Markers.AuthFailed)
	}
	// Unset markers keep their defaults
	if cfg.Portal.Markers.Concurrent != portal.DefaultMarkers().Concurrent {
		t.Errorf("Concurrent = %q", cfg.Portal.Markers.Concurrent)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.Reload.Debounce.Duration() != 2*time.Second {
		t.Errorf("Reload.Debounce = %s, want 2s", cfg.Reload.Debounce.Duration())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("poll_interval_seconds: [1, 2")); err == nil {
		t.Error("Parse() error = nil for malformed YAML")
	}
	if _, err := Parse([]byte("reload:\n  debounce: soon\n")); err == nil {
		t.Error("Parse() error = nil for bad duration")
	}
}

func TestHistoryKeep(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{"omitted uses default", "history: {enabled: true}\n", DefaultHistoryKeep},
		{"zero keeps everything", "history: {enabled: true, keep: 0}\n", 0},
		{"explicit", "history: {enabled: true, keep: 50}\n", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.History.Keep != tt.want {
				t.Errorf("History.Keep = %d, want %d", cfg.History.Keep, tt.want)
			}
		})
	}

	cfg, _ := Parse([]byte("history: {enabled: true, keep: 0}\n"))
	if !strings.Contains(cfg.Summary(), "keep all") {
		t.Errorf("Summary() = %q, want keep all", cfg.Summary())
	}
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv(EnvPassword, "from-env")

	cfg, err := Parse([]byte("profile: {username: bob, password: from-file}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Profile.Password != "from-env" {
		t.Errorf("Password = %q, want from-env", cfg.Profile.Password)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Profile = ProfileConfig{Username: "alice", Password: "pw"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no username", func(c *Config) { c.Profile.Username = " " }, "profile.username"},
		{"no password", func(c *Config) { c.Profile.Password = "" }, "profile.password"},
		{"zero poll", func(c *Config) { c.PollIntervalSeconds = 0 }, "poll_interval_seconds"},
		{"negative timeout", func(c *Config) { c.ProbeTimeoutSeconds = -1 }, "probe_timeout_seconds"},
		{"timeout not below poll", func(c *Config) { c.ProbeTimeoutSeconds = 30 }, "must be less than"},
		{"relative probe url", func(c *Config) { c.ProbeURL = "/generate_204" }, "probe_url"},
		{"ftp probe url", func(c *Config) { c.ProbeURL = "ftp://example.com/" }, "probe_url"},
		{"bad glob", func(c *Config) { c.Portal.AllowedHosts = []string{"[10.*"} }, "allowed_hosts"},
		{"bad marker", func(c *Config) { c.Portal.Markers.Success = "keepalive(" }, "markers"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(EnvPassword, "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Profile = ProfileConfig{Username: "alice", Password: "pw"}
	cfg.PollIntervalSeconds = 45
	cfg.Portal.AllowedHosts = []string{"10.0.0.0/8"}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if path != configPath {
		t.Errorf("path = %q, want %q", path, configPath)
	}
	if loaded.PollIntervalSeconds != 45 {
		t.Errorf("PollIntervalSeconds = %d, want 45", loaded.PollIntervalSeconds)
	}
	if loaded.Profile != cfg.Profile {
		t.Errorf("Profile = %+v", loaded.Profile)
	}
	if len(loaded.Portal.AllowedHosts) != 1 || loaded.Portal.AllowedHosts[0] != "10.0.0.0/8" {
		t.Errorf("AllowedHosts = %v", loaded.Portal.AllowedHosts)
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadFromPath() error = nil for missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	os.Chdir(tmpDir)
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	// XDG location
	xdgPath := filepath.Join(tmpDir, "xdg", ConfigDirName, "config.yaml")
	os.MkdirAll(filepath.Dir(xdgPath), 0755)
	os.WriteFile(xdgPath, []byte("poll_interval_seconds: 30\n"), 0600)

	if got := FindConfigPath(); got != xdgPath {
		t.Errorf("FindConfigPath() = %q, want %q (XDG)", got, xdgPath)
	}

	// Working directory wins over XDG
	os.WriteFile(ConfigFileName, []byte("poll_interval_seconds: 30\n"), 0600)
	if got := FindConfigPath(); filepath.Base(got) != ConfigFileName {
		t.Errorf("FindConfigPath() = %q, want working directory file", got)
	}

	// Env var wins over everything
	envPath := filepath.Join(tmpDir, "env.yaml")
	os.WriteFile(envPath, []byte("poll_interval_seconds: 30\n"), 0600)
	t.Setenv(EnvConfigPath, envPath)
	if got := FindConfigPath(); got != envPath {
		t.Errorf("FindConfigPath() = %q, want %q (env)", got, envPath)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvConfigPath, "/srv/pk.yaml")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	paths := SearchPaths()
	want := []string{
		"/srv/pk.yaml",
		ConfigFileName,
		filepath.Join(tmpDir, "xdg", ConfigDirName, "config.yaml"),
		filepath.Join(tmpDir, "home", ".config", ConfigDirName, "config.yaml"),
		filepath.Join("/etc", ConfigDirName, "config.yaml"),
	}
	if len(paths) != len(want) {
		t.Fatalf("SearchPaths() = %v, want %d entries", paths, len(want))
	}
	for i := range want {
		got := paths[i]
		if i == 1 {
			got = filepath.Base(got)
		}
		if got != want[i] {
			t.Errorf("SearchPaths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	if got := DefaultConfigPath(); got != want[2] {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want[2])
	}

	t.Setenv(EnvConfigPath, "")
	if got := SearchPaths(); len(got) != len(want)-1 {
		t.Errorf("SearchPaths() without env = %v", got)
	}
}

func TestFindConfigPathSkipsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(tmpDir)

	t.Setenv(EnvConfigPath, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	os.Mkdir(ConfigFileName, 0755)

	if got := FindConfigPath(); got != "" && filepath.Dir(got) != "/etc/"+ConfigDirName {
		t.Errorf("FindConfigPath() = %q, directories must not match", got)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	tests := []struct {
		in   string
		want string
	}{
		{"~/state/history.db", "/home/alice/state/history.db"},
		{"~", "/home/alice"},
		{"/var/lib/history.db", "/var/lib/history.db"},
		{"relative.db", "relative.db"},
		{"~bob/x", "~bob/x"},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
