package sqlstore

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. With cfg.Migrations set it applies
// the embedded SQL migrations through golang-migrate, otherwise it falls back
// to gorm's AutoMigrate.
func Migrate(db *gorm.DB, cfg Config) error {
	if cfg.Migrations {
		if cfg.Driver != DriverPostgres {
			return fmt.Errorf("sql migrations require the postgres driver, got %q", cfg.Driver)
		}
		if err := runSQLMigrations(cfg.DSN); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if err := db.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}

	for _, table := range []string{"users", "journals", "questions", "test_results", "ai_summaries", "ai_logs"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
