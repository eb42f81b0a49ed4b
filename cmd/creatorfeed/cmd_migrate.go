package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect the backend schema migrations",
	Long: `Manage the goose migrations of a local or test backend database: tables,
the get_follower_count and mark_all_notifications_read functions and the
realtime change triggers.

Examples:
  creatorfeed migrate up
  creatorfeed migrate down
  creatorfeed migrate status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *postgres.Migrator) error {
			applied, err := m.Up(ctx)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %05d\n", v)
			}
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *postgres.Migrator) error {
			rolled, err := m.Down(ctx)
			if err != nil {
				return err
			}
			for _, v := range rolled {
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %05d\n", v)
			}
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *postgres.Migrator) error {
			states, err := m.Status(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSOURCE\tAPPLIED")
			for _, s := range states {
				fmt.Fprintf(w, "%05d\t%s\t%t\n", s.Version, s.Source, s.Applied)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m *postgres.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	m, err := postgres.NewMigrator(ctx, cfg.Database.DSN, migrations.FS)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(ctx, m)
}
