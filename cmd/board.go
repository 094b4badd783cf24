/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/nakachan-ing/taskboard/internal/ui"
	"github.com/nakachan-ing/taskboard/internal/util"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Open the interactive task board",
	Aliases: []string{"b"},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		lockFileName := st.Path() + ".lock"
		lock, err := util.CreateLockFile(lockFileName, st.Path())
		if err != nil {
			if errors.Is(err, util.ErrLocked) {
				log.Printf("⚠️ Another board is open on this database: %v", err)
				log.Printf("⚠️ Remove %s if that board is no longer running.", lockFileName)
				return nil
			}
			return err
		}
		defer func() {
			if err := util.RemoveLockFile(lockFileName, lock.ID); err != nil {
				log.Printf("⚠️ Failed to remove lock file: %v", err)
			}
		}()

		if err := ui.Run(cmd.Context(), st, newSession(config), logger); err != nil {
			return fmt.Errorf("error running board: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
