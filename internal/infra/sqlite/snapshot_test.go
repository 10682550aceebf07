package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"knowledge-quiz/internal/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestStore(t)
	if _, err := source.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i, points := range []int{3, 8, 5} {
		kind := domain.Single
		if i == 1 {
			kind = domain.Open
		}
		if err := source.SaveResult(ctx, "alice", kind, points, "2026-02-01 09:00:00"); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "results.json")
	exported, err := source.ExportResults(ctx, path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exported != 3 {
		t.Fatalf("expected 3 rows exported, got %d", exported)
	}

	target := newTestStore(t)
	if _, err := target.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	imported, err := target.ImportResults(ctx, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 3 {
		t.Fatalf("expected 3 rows imported, got %d", imported)
	}

	want, err := source.ResultsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("source results: %v", err)
	}
	got, err := target.ResultsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("target results: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestImportMissingSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ImportResults(ctx, filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestImportMalformedSnapshotLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.ImportResults(ctx, path); err == nil {
		t.Fatalf("expected parse error")
	}

	var count int
	if err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows after failed import, got %d", count)
	}
}
