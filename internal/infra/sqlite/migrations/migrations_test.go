package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebuildLegacyResultsBackfills(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	stmts := []string{
		`CREATE TABLE results (
			id INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			points INTEGER NOT NULL,
			date TEXT NOT NULL
		)`,
		`INSERT INTO results (id, type, points, date) VALUES (1, 'single', 7, '2023-05-01 12:00:00')`,
		`INSERT INTO results (id, type, points, date) VALUES (2, 'open', 3, '2023-05-02 12:00:00')`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("prepare legacy table: %v", err)
		}
	}

	// Running twice must be safe and lose nothing.
	for i := 0; i < 2; i++ {
		if err := RebuildLegacyResults(ctx, db); err != nil {
			t.Fatalf("rebuild run %d: %v", i+1, err)
		}
	}

	rows, err := db.QueryContext(ctx, "SELECT id, user_id, points FROM results ORDER BY id")
	if err != nil {
		t.Fatalf("select rebuilt rows: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, userID, points int
		if err := rows.Scan(&id, &userID, &points); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if userID != 1 {
			t.Fatalf("expected backfill to user 1, got %d", userID)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected both rows preserved, got %d", count)
	}
}

func TestRebuildLegacyResultsNoTableIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	if err := RebuildLegacyResults(ctx, db); err != nil {
		t.Fatalf("expected no-op without a results table, got %v", err)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	for i := 0; i < 2; i++ {
		if err := Run(ctx, db); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}

	for _, table := range []string{"questions", "users", "results", "achievements"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}
