package repo

import (
	"context"
	"fmt"

	"todoassign/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigratePostgres applies the embedded postgres migrations over a short-lived
// database/sql handle.
func MigratePostgres(ctx context.Context, dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	return migrations.Up(ctx, db, goose.DialectPostgres)
}
