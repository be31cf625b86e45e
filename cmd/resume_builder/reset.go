package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/server"
)

var (
	resetYes  bool
	resetUser string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all state in the configured backend",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the wipe; without this flag nothing happens")
	resetCmd.Flags().StringVar(&resetUser, "user", server.DefaultUserID, "User whose state to wipe")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to wipe state without --yes")
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, resetUser)
	if err != nil {
		return err
	}
	if err := st.ClearAll(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println("State cleared")
	return nil
}
