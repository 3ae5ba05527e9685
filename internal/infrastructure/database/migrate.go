package database

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"scamscan/internal/config"
	"scamscan/pkg/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate runs all pending schema migrations. goose needs a database/sql
// handle, so this opens a short-lived stdlib connection separate from
// the pgx pool.
func Migrate(cfg config.DatabaseConfig, log *logger.Logger) error {
	log = log.WithComponent("migrate")

	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info().Int64("version", version).Msg("schema migrations applied")

	return nil
}
