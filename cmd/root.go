/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/session"
	"github.com/nakachan-ing/taskboard/internal/store"
	"github.com/spf13/cobra"
)

var configFile string
var dbPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Manage tasks in a local SQLite file",
	Long: `taskboard keeps tasks (category, title, content, priority, deadline)
in a single SQLite file. Use the task subcommands from scripts, or run
"taskboard board" for the interactive list and form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		switch {
		case errors.Is(err, store.ErrTaskInvalidArgs), errors.Is(err, store.ErrTaskNotFound):
			log.Printf("⚠️ %v", err)
		default:
			log.Printf("❌ %v", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $TASKBOARD_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides db_path)")
}

func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return store.GetConfigPath()
}

func loadConfig() (*model.Config, error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	config, err := store.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if dbPath != "" {
		config.DBPath = store.ExpandHomeDir(dbPath)
	}
	return config, nil
}

// openStore loads the config and opens the task database it points to.
func openStore() (*store.TaskStore, *model.Config, *slog.Logger, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := mustMakeLogger(config.LogLevel)

	st, err := store.OpenTaskStore(logger, config.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open task database (%s): %w", config.DBPath, err)
	}
	return st, config, logger, nil
}

func closeStore(st *store.TaskStore, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("failed to close db connection", "error", err)
	}
}

func newSession(config *model.Config) *session.Session {
	return session.New(session.WithKeepAfterUpdate(config.Session.KeepAfterUpdate))
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
