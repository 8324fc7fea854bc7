package database

import (
	"embed"
	"fmt"
	"log"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationFS embed.FS

// dialect maps the GORM dialector to the sql-migrate dialect and migration directory
func dialect(db *gorm.DB) (string, string, error) {
	switch name := db.Dialector.Name(); name {
	case "sqlite":
		return "sqlite3", "migrations/sqlite", nil
	case "postgres":
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported database dialect %q", name)
	}
}

func migrationSource(root string) migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFS,
		Root:       root,
	}
}

// Migrate applies (or rolls back) the embedded migrations. max <= 0 means all.
func Migrate(db *gorm.DB, direction migrate.MigrationDirection, max int) (int, error) {
	d, root, err := dialect(db)
	if err != nil {
		return 0, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate, error: %v", err)
	}

	n, err := migrate.ExecMax(sqlDB, d, migrationSource(root), direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migration, error: %v", err)
	}
	return n, nil
}

// AutoMigrate runs all pending up migrations
func AutoMigrate(db *gorm.DB) error {
	log.Println("🔄 Applying embedded migrations using sql-migrate...")

	n, err := Migrate(db, migrate.Up, 0)
	if err != nil {
		return err
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// MigrationState describes one known migration and whether it has been applied
type MigrationState struct {
	ID      string
	Applied bool
}

// Status lists known migrations in order with their applied flag
func Status(db *gorm.DB) ([]MigrationState, error) {
	d, root, err := dialect(db)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	known, err := migrationSource(root).FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	records, err := migrate.GetMigrationRecords(sqlDB, d)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration records: %w", err)
	}

	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.Id] = true
	}

	out := make([]MigrationState, 0, len(known))
	for _, m := range known {
		out = append(out, MigrationState{ID: m.Id, Applied: applied[m.Id]})
	}
	return out, nil
}
