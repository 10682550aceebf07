package migrations

import (
	"context"
	_ "embed"
	"strings"

	"github.com/uptrace/bun"
)

//go:embed 0001_create_tables.sql
var createTablesSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			// the sqlite driver takes one statement per Exec
			for _, stmt := range strings.Split(createTablesSQL, ";") {
				if strings.TrimSpace(stmt) == "" {
					continue
				}
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			for _, table := range []string{"achievements", "results", "users", "questions"} {
				if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
