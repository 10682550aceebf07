package memory

import (
	"context"
	"fmt"
	"testing"

	"knowledge-quiz/internal/domain"
)

func TestRecordStoreConflictAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateUser(ctx, "alice", "other@example.com", "hash"); err != domain.ErrConflict {
		t.Fatalf("expected username conflict, got %v", err)
	}
	if _, err := store.CreateUser(ctx, "bob", "alice@example.com", "hash"); err != domain.ErrConflict {
		t.Fatalf("expected email conflict, got %v", err)
	}
	if _, err := store.UserByUsername(ctx, "nobody"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecordStoreResultsOrderAndIntegrity(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()
	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := store.SaveResult(ctx, "ghost", domain.Single, 1, "2026-01-01 10:00:00"); err != domain.ErrUserNotFound {
		t.Fatalf("expected result write for unknown user to fail, got %v", err)
	}

	for i, points := range []int{3, 7, 7, 5} {
		date := fmt.Sprintf("2026-01-01 10:00:0%d", i)
		if err := store.SaveResult(ctx, "alice", domain.Single, points, date); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}
	results, err := store.ResultsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	wantPoints := []int{7, 7, 5, 3}
	for i, r := range results {
		if r.Points != wantPoints[i] {
			t.Fatalf("expected points order %v, got %+v", wantPoints, results)
		}
	}
	// Equal points keep insertion order.
	if results[0].ID > results[1].ID {
		t.Fatalf("expected stable tie-break by insertion, got %+v", results[:2])
	}
}
