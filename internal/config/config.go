// Package config handles engine settings for omg.
//
// Settings are ambient tuning knobs (default platform, audit log,
// timeouts), not patterns: patterns live in the JSON stores managed by
// the store package.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/omglearn/omg/internal/constants"
	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/pattern"
)

//go:embed config.toml
var defaultConfig []byte

// Config holds the engine settings.
type Config struct {
	// Platform is the default host dialect ("claude" or "cursor")
	// when no --platform flag is given. Empty means auto-detect.
	Platform string `toml:"platform"`
	// RunTimeout is the default run-action timeout in seconds.
	RunTimeout int `toml:"run_timeout"`
	// CheckScriptTimeout bounds predicate scripts, in seconds.
	CheckScriptTimeout int `toml:"check_script_timeout"`

	Audit AuditConfig `toml:"audit"`
}

// AuditConfig controls the decision audit log.
type AuditConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// MaxSizeMB rotates (and gzips) the log once it grows past this
	// size. Zero disables rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

var (
	globalConfig      *Config
	configInitialized bool
	initErr           error
)

// GetConfigDir returns the config directory path.
// Uses OMG_CONFIG env var if set, otherwise ~/.config/omg
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// GetConfigPath returns the path of the active config file, or "".
func GetConfigPath() string {
	dir, err := GetConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, constants.ConfigFileName)
}

// Load parses TOML data into a Config, applying defaults for absent
// fields.
func Load(data []byte) (*Config, error) {
	cfg := &Config{
		RunTimeout:         pattern.DefaultRunTimeout,
		CheckScriptTimeout: pattern.CheckScriptTimeout,
		Audit:              AuditConfig{Enabled: true, MaxSizeMB: 10},
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, nil
}

// loadEmbeddedDefaults loads the embedded default config file.
func loadEmbeddedDefaults() *Config {
	cfg, _ := Load(defaultConfig)
	return cfg
}

// Init loads configuration from the config file, falling back to the
// embedded defaults on any failure. A broken config must never stop a
// hook invocation.
func Init() error {
	if configInitialized {
		return initErr
	}
	configInitialized = true

	path := GetConfigPath()
	if path == "" {
		logger.Debug("failed to resolve config dir, using embedded defaults")
		globalConfig = loadEmbeddedDefaults()
		initErr = fmt.Errorf("failed to resolve config directory")
		return initErr
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("failed to read config file, using embedded defaults", "path", path, "error", err)
			initErr = fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err)
		}
		globalConfig = loadEmbeddedDefaults()
		return initErr
	}

	globalConfig, err = Load(data)
	if err != nil {
		logger.Debug("failed to parse config, using embedded defaults", "path", path, "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = fmt.Errorf("failed to load config: %w", err)
		return initErr
	}

	logger.Debug("config loaded", "path", path)
	return nil
}

// InitError returns the error from Init, if any.
func InitError() error {
	return initErr
}

// Get returns the current configuration, initializing with defaults
// if Init has not been called.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	initErr = nil
}

// GetDefaultConfig returns the embedded default configuration.
func GetDefaultConfig() []byte {
	return defaultConfig
}
