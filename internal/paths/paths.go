// Package paths resolves the filesystem locations bbh reads and writes
// outside of a run's output directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "BBH_CONFIG"

// ConfigDir returns the bbh configuration directory (~/.config/bbh).
// Falls back to ".bbh" in the working directory if the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".bbh"
	}
	return filepath.Join(home, ".config", "bbh")
}

// DefaultConfigPath returns the config file used when --config is not given:
// $BBH_CONFIG if set, otherwise ConfigDir()/config.yaml.
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return ExpandHome(p)
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultHistoryPath returns the run-history database location.
func DefaultHistoryPath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

// ResolveHistoryPath returns p with ~ expanded, or DefaultHistoryPath if p is empty.
func ResolveHistoryPath(p string) string {
	if strings.TrimSpace(p) == "" {
		return DefaultHistoryPath()
	}
	return ExpandHome(p)
}

// ExpandHome replaces a leading "~/" (or a lone "~") with the home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
