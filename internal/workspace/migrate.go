package workspace

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func (s *SQLiteStore) migrate() error {
	return MigrateWithDB(s.db)
}

// MigrateWithDB runs pending migrations on a raw database connection.
func MigrateWithDB(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running workspace migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (s *SQLiteStore) MigrationVersion() (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("setting migration dialect: %w", err)
	}
	return goose.GetDBVersion(s.db)
}
