/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/store"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml and the task database",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		config := model.DefaultConfig()
		if dbPath != "" {
			config.DBPath = dbPath
		}

		if err := store.SaveConfig(configPath, config); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		logger := mustMakeLogger(config.LogLevel)
		st, err := store.OpenTaskStore(logger, store.ExpandHomeDir(config.DBPath))
		if err != nil {
			return fmt.Errorf("failed to create task database: %w", err)
		}
		closeStore(st, logger)

		fmt.Fprintln(cmd.OutOrStdout(), "✅ taskboard initialized successfully!")
		fmt.Fprintln(cmd.OutOrStdout(), "📄 Config file created at:", configPath)
		fmt.Fprintln(cmd.OutOrStdout(), "🗄️  Task database at:", store.ExpandHomeDir(config.DBPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}
