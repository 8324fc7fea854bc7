package main

import (
	"fmt"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/johnquangdev/zyquraflow/internal/infrastructure/database"
	"github.com/johnquangdev/zyquraflow/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ZyquraFlow database schema",
		Long: `Apply, roll back or inspect the embedded SQL migrations.

The database is selected with the same environment as the API server
(DB_DRIVER=sqlite|postgres, DB_PATH, DB_HOST, ...).

Examples:
  migrate up              # Apply all pending migrations
  migrate down -n 1       # Roll back the last migration
  migrate status          # Show applied and pending migrations`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		upCmd(),
		downCmd(),
		statusCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Printf("✅ Connected to %s database", cfg.Database.Driver)
	return db, nil
}

func upCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(migrate.Up, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of migrations to apply (0 = all)")
	return cmd
}

func downCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(migrate.Down, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 1, "Number of migrations to roll back (0 = all)")
	return cmd
}

func run(direction migrate.MigrationDirection, limit int) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := database.Migrate(db, direction, limit)
	if err != nil {
		return err
	}

	verb := "applied"
	if direction == migrate.Down {
		verb = "rolled back"
	}
	log.Printf("✅ Successfully %s %d migration(s)", verb, n)
	return nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			states, err := database.Status(db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range states {
				mark := "pending"
				if s.Applied {
					mark = "applied"
				}
				fmt.Fprintf(out, "%-8s %s\n", mark, s.ID)
			}
			return nil
		},
	}
}
