package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// HomeEnv overrides the configuration directory
	HomeEnv = "ITEMCONSOLE_HOME"
	// DebugEnv enables the TUI debug log when set to a non-empty value
	DebugEnv = "ITEMCONSOLE_DEBUG"
)

var (
	// ConfigDir is the global configuration directory (~/.itemconsole)
	ConfigDir string

	// DatabasePath is the SQLite database file for the request history
	DatabasePath string

	// SessionFile is the persisted key/value store holding the base URL
	SessionFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// DebugLogFile receives TUI diagnostics when DebugEnv is set
	DebugLogFile string
)

// Initialize sets up the configuration directory and files
// It creates ~/.itemconsole/ (or $ITEMCONSOLE_HOME) if it doesn't exist
func Initialize() error {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".itemconsole")
	}

	SetConfigDir(dir)

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		defaultSession := []byte(`{"values":{},"historyEnabled":true}`)
		if err := os.WriteFile(SessionFile, defaultSession, FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	return nil
}

// SetConfigDir points every derived path at dir without touching the filesystem
func SetConfigDir(dir string) {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "itemconsole.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	DebugLogFile = filepath.Join(ConfigDir, "debug.log")
}

// LocalSessionExists checks if there's a .session.json in the working directory
func LocalSessionExists() bool {
	_, err := os.Stat(".session.json")
	return err == nil
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	if LocalSessionExists() {
		return ".session.json"
	}
	return SessionFile
}

// DebugEnabled reports whether TUI diagnostics should be written to DebugLogFile
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}
