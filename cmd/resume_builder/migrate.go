package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/storage"
)

var (
	migrateFrom string
	migrateTo   string
	migrateUser string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all state from one storage backend to another",
	Long: `Copy all state from one storage backend to another. The source is read in
full and written to the destination in full; the source is left untouched.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Source backend: local, database, or memory")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Destination backend: local, database, or memory")
	migrateCmd.Flags().StringVar(&migrateUser, "user", server.DefaultUserID, "User whose state to migrate")
	_ = migrateCmd.MarkFlagRequired("from")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migrateFrom == migrateTo {
		return fmt.Errorf("source and destination backends are both %q", migrateFrom)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gateways := newGatewayFactory(cfg)

	from, err := gateways(ctx, migrateFrom, migrateUser)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	to, err := gateways(ctx, migrateTo, migrateUser)
	if err != nil {
		return fmt.Errorf("failed to open destination: %w", err)
	}

	if err := storage.Migrate(ctx, from, to); err != nil {
		return err
	}
	fmt.Printf("Migrated state from %s to %s\n", from.Name(), to.Name())
	return nil
}
