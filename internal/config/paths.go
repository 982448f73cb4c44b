package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "PORTALKOMBAT_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "portalkombat.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "portalkombat"
)

// SearchPaths lists config file candidates, highest priority first:
// $PORTALKOMBAT_CONFIG, ./portalkombat.yaml, the XDG and ~/.config user
// files, then the system file under /etc
func SearchPaths() []string {
	var paths []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	paths = append(paths, userConfigPaths()...)
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing SearchPaths entry, or "" when
// there is none
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// DefaultConfigPath is where init writes a new config: the first per-user
// location, or the working directory when no home is known
func DefaultConfigPath() string {
	if paths := userConfigPaths(); len(paths) > 0 {
		return paths[0]
	}
	return ConfigFileName
}

func userConfigPaths() []string {
	var paths []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return paths
}

// DefaultHistoryPath returns $XDG_STATE_HOME/portalkombat/history.db,
// falling back to ~/.local/state
func DefaultHistoryPath() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, ConfigDirName, "history.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", ConfigDirName, "history.db")
	}
	return "portalkombat-history.db"
}

// DefaultStatusSocket returns the status endpoint address for this OS
func DefaultStatusSocket() string {
	if runtime.GOOS == "windows" {
		return `\\.\pipe\portalkombat`
	}
	return filepath.Join(os.TempDir(), "portalkombat.sock")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ensurePrivateDir creates the parent directory of path with mode 0700
func ensurePrivateDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0700)
}
