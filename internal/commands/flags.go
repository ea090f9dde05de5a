package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/iossign/internal/core/config"
	"github.com/colonyops/iossign/internal/core/launch"
	"github.com/colonyops/iossign/internal/core/signing"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Catalog lists the identities and profiles that currently exist
	Catalog signing.Provider

	// Launches stores launch configurations
	Launches launch.Store
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "iossign", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "iossign")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/iossign/iossign.log
// On Linux: $XDG_STATE_HOME/iossign/iossign.log (defaults to ~/.local/state/iossign/iossign.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "iossign", "iossign.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "iossign", "iossign.log")
	}

	return filepath.Join(home, ".local", "state", "iossign", "iossign.log")
}
