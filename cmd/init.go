package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omglearn/omg/internal/config"
	"github.com/omglearn/omg/internal/constants"
	"github.com/omglearn/omg/internal/store"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the omg configuration and pattern stores",
	Long: `Init creates the default configuration file and an empty global
pattern store.

The config file is written to ~/.config/omg/config.toml (or the path
specified by OMG_CONFIG environment variable). The pattern store is
created under the platform's dotfolder (~/.claude or ~/.cursor).

Use --force to overwrite an existing configuration file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, config.GetDefaultConfig(), constants.FileMode); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Printf("Configuration written to: %s\n", configPath)

	// Seed an empty global pattern store so the file location is
	// discoverable; an existing store is left alone.
	s := store.New(activePlatform())
	globalPath := s.Path(store.ScopeGlobal)
	if _, err := os.Stat(globalPath); os.IsNotExist(err) {
		if err := s.Save(store.ScopeGlobal, nil); err != nil {
			return fmt.Errorf("failed to create pattern store: %w", err)
		}
		fmt.Printf("Pattern store created at: %s\n", globalPath)
	}

	fmt.Println("Run 'omg validate' to verify your patterns.")
	return nil
}
