package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/store"
)

var (
	backupOut   string
	backupUser  string
	restoreIn   string
	restoreUser string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup envelope of the configured backend's state",
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the configured backend's state with a backup envelope",
	RunE:  runRestore,
}

func init() {
	backupCmd.Flags().StringVar(&backupOut, "out", "", "File to write the envelope to (default: stdout)")
	backupCmd.Flags().StringVar(&backupUser, "user", server.DefaultUserID, "User whose state to back up")
	restoreCmd.Flags().StringVar(&restoreIn, "in", "", "File containing the backup envelope")
	restoreCmd.Flags().StringVar(&restoreUser, "user", server.DefaultUserID, "User whose state to restore")
	_ = restoreCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

// openStore opens the configured backend for a user and loads its state.
func openStore(ctx context.Context, userID string) (*store.Store, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	gw, err := newGatewayFactory(cfg)(ctx, cfg.Backend, userID)
	if err != nil {
		return nil, err
	}
	st := store.New(gw)
	if err := st.Load(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func runBackup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx, backupUser)
	if err != nil {
		return err
	}

	envelope, err := st.Backup(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if backupOut == "" {
		fmt.Println(envelope)
		return nil
	}
	if err := os.WriteFile(backupOut, []byte(envelope), 0o600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	fmt.Printf("Backup written to %s\n", backupOut)
	return nil
}

func runRestore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	envelope, err := os.ReadFile(restoreIn)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	st, err := openStore(ctx, restoreUser)
	if err != nil {
		return err
	}
	if err := st.Restore(ctx, string(envelope)); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Println("State restored")
	return nil
}
