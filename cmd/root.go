// Package cmd implements the CLI commands for omg.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/omglearn/omg/internal/audit"
	"github.com/omglearn/omg/internal/config"
	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/store"
)

var (
	// Global flags
	verbose      bool
	platformFlag string
	noAuditLog   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "omg",
	Short: "Pattern-based lifecycle hooks for AI coding agents",
	Long: `omg intercepts lifecycle events emitted by an AI coding agent host
(Claude Code or Cursor) and matches them against configurable patterns
to allow, warn about, block, or react to the event.

Wire the hook subcommands into your host, e.g. ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "*",
      "hooks": [{"type": "command", "command": "omg hook pre-tool"}]
    }]
  }

Manage patterns with 'omg pattern' and try them with 'omg test'.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initApp)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&platformFlag, "platform", "", "Host dialect: claude or cursor (default: from config, else auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
}

// initApp initializes the application (logger, config, audit)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})
	config.Init()

	cfg := config.Get()
	audit.Init(cfg.Audit.Path, cfg.Audit.MaxSizeMB, noAuditLog || !cfg.Audit.Enabled)
}

// activePlatform resolves the host dialect: flag first, then config,
// then directory auto-detection.
func activePlatform() store.Platform {
	switch platformFlag {
	case string(store.PlatformClaude):
		return store.PlatformClaude
	case string(store.PlatformCursor):
		return store.PlatformCursor
	}
	switch config.Get().Platform {
	case string(store.PlatformClaude):
		return store.PlatformClaude
	case string(store.PlatformCursor):
		return store.PlatformCursor
	}
	return store.DetectPlatform()
}
