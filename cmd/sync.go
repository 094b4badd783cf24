/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/util"
	"github.com/spf13/cobra"
)

var errSyncDisabled = errors.New("sync is disabled (set sync.enable and sync.bucket in config.yaml)")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back up the task database to S3 and restore it",
}

func loadSyncConfig() (*model.Config, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !config.Sync.Enable || config.Sync.Bucket == "" {
		return nil, errSyncDisabled
	}
	return config, nil
}

func runSync(cmd *cobra.Command, direction string) error {
	log.Printf("🔄 Running `taskboard sync %s`...", direction)
	config, err := loadSyncConfig()
	if err != nil {
		return err
	}

	s3Client, err := util.NewS3Client(cmd.Context(), *config)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	if err := SyncWithS3(cmd.Context(), s3Client, *config, direction); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	log.Printf("✅ `taskboard sync %s` completed successfully.", direction)
	return nil
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local database to S3 if it changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, "push")
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local database with a newer copy from S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, "pull")
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show differences between the local database and S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadSyncConfig()
		if err != nil {
			return err
		}

		s3Client, err := util.NewS3Client(cmd.Context(), *config)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}

		return ShowSyncStatus(cmd.Context(), s3Client, *config)
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
