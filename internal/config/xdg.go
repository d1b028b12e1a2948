// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "pathdrag"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the SQLite path. PATHDRAG_DB overrides it.
func DefaultDBPath() string {
	if v := os.Getenv("PATHDRAG_DB"); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the TOML config path. PATHDRAG_CONFIG overrides it.
func DefaultConfigPath() string {
	if v := os.Getenv("PATHDRAG_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultLogPath returns the debug log path.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, "debug.log")
}
