// Package constants defines shared constants used across the omg codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	EnvConfigDir = "OMG_CONFIG"
	// EnvGlobalDir overrides the directory that holds the global pattern
	// file. Used by tests and by setups where $HOME is not writable.
	EnvGlobalDir = "OMG_GLOBAL_DIR"
)

// Application paths
const (
	AppName          = "omg"
	XDGConfigSubdir  = ".config"
	ConfigFileName   = "config.toml"
	PatternsFileName = "omg-patterns.json"
	ClaudeDir        = ".claude"
	CursorDir        = ".cursor"
)
