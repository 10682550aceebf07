package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return RebuildLegacyResults(ctx, db)
		},
		func(ctx context.Context, db *bun.DB) error {
			return nil // the rebuild keeps all rows; nothing to undo
		},
	)
}

// RebuildLegacyResults upgrades a pre-account results table (one without a
// user_id column) to the current shape, backfilling existing rows to user
// id 1 and swapping the table in place. Running it against an already
// current table is a no-op, so repeated runs are safe and no rows are lost.
func RebuildLegacyResults(ctx context.Context, db *bun.DB) error {
	columns, err := tableColumns(ctx, db, "results")
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil // table absent; nothing legacy to rebuild
	}
	for _, col := range columns {
		if col == "user_id" {
			return nil
		}
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS results_new (
				id INTEGER PRIMARY KEY,
				user_id INTEGER NOT NULL,
				type TEXT NOT NULL,
				points INTEGER NOT NULL,
				date TEXT NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users (id)
			)`,
			`INSERT INTO results_new (id, user_id, type, points, date)
			 SELECT id, 1, type, points, date FROM results`,
			`DROP TABLE results`,
			`ALTER TABLE results_new RENAME TO results`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("rebuild results: %w", err)
			}
		}
		return nil
	})
}

func tableColumns(ctx context.Context, db *bun.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dfltValue  interface{}
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &primaryKey); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
