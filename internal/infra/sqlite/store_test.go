package sqlite

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"knowledge-quiz/internal/domain"
	"knowledge-quiz/internal/infra/sqlite/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := migrations.Run(context.Background(), store.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestCreateUserConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateUser(ctx, "alice", "new@example.com", "hash"); err != domain.ErrConflict {
		t.Fatalf("expected username conflict, got %v", err)
	}
	if _, err := store.CreateUser(ctx, "bob", "alice@example.com", "hash"); err != domain.ErrConflict {
		t.Fatalf("expected email conflict, got %v", err)
	}

	user, err := store.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.PasswordHash != "hash" || user.ID == 0 {
		t.Fatalf("unexpected user row %+v", user)
	}
}

func TestResultsOrderedByPoints(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i, points := range []int{2, 9, 9, 4} {
		date := fmt.Sprintf("2026-02-01 09:00:0%d", i)
		if err := store.SaveResult(ctx, "alice", domain.Single, points, date); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}

	results, err := store.ResultsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	wantPoints := []int{9, 9, 4, 2}
	for i, r := range results {
		if r.Points != wantPoints[i] {
			t.Fatalf("expected %v, got %+v", wantPoints, results)
		}
	}
	if results[0].ID > results[1].ID {
		t.Fatalf("expected ties in insertion order, got %+v", results[:2])
	}
}

func TestStatsRoundsAverage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	stats, err := store.StatsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("stats without results: %v", err)
	}
	if stats.Count != 0 || stats.Best != 0 || stats.Average != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	for _, points := range []int{1, 1, 2} {
		if err := store.SaveResult(ctx, "alice", domain.Open, points, "2026-02-01 09:00:00"); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}
	stats, err = store.StatsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 3 || stats.Best != 2 || stats.Average != 1.33 {
		t.Fatalf("expected {3 2 1.33}, got %+v", stats)
	}
}

func TestRankingLimitsAndOrders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("user%02d", i)
		if _, err := store.CreateUser(ctx, name, name+"@example.com", "hash"); err != nil {
			t.Fatalf("create user: %v", err)
		}
		if err := store.SaveResult(ctx, name, domain.Single, i%6, "2026-02-01 09:00:00"); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}

	ranking, err := store.Ranking(ctx, 10)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(ranking) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(ranking))
	}
	for i := 1; i < len(ranking); i++ {
		prev, cur := ranking[i-1], ranking[i]
		if cur.TotalPoints > prev.TotalPoints {
			t.Fatalf("expected descending points, got %+v", ranking)
		}
		if cur.TotalPoints == prev.TotalPoints && cur.Username < prev.Username {
			t.Fatalf("expected username tie-break ascending, got %+v", ranking)
		}
	}
}

func TestGrantAchievementIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if _, err := store.CreateUser(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.GrantAchievement(ctx, "alice", "First Quiz", "Completed your first quiz.", "2026-02-01 09:00:00"); err != nil {
			t.Fatalf("grant: %v", err)
		}
	}
	achievements, err := store.AchievementsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	if len(achievements) != 1 {
		t.Fatalf("expected one row, got %d", len(achievements))
	}

	if err := store.GrantAchievement(ctx, "ghost", "First Quiz", "x", "2026-02-01 09:00:00"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}

func TestQuestionBankRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := []domain.Question{
		{
			Text:    "Which port is default for HTTPS?",
			Kind:    domain.Single,
			Options: []string{"80", "21", "22", "443"},
			Correct: []string{"443"},
		},
		{
			Text:    "Which protocols operate at the transport layer?",
			Kind:    domain.Multiple,
			Options: []string{"TCP", "UDP", "IP", "HTTP"},
			Correct: []string{"TCP", "UDP"},
		},
		{
			Text:    "Explain the concept of a transaction.",
			Kind:    domain.Open,
			Correct: []string{"operations executed in their entirety or not at all"},
		},
	}
	if err := store.InsertQuestions(ctx, seed); err != nil {
		t.Fatalf("insert questions: %v", err)
	}

	bank := NewQuestionBankWithRand(store, rand.New(rand.NewSource(1)))

	singles, err := bank.QuestionsOfType(ctx, domain.Single)
	if err != nil {
		t.Fatalf("singles: %v", err)
	}
	if len(singles) != 1 {
		t.Fatalf("expected 1 single question, got %d", len(singles))
	}
	if len(singles[0].Options) != 4 {
		t.Fatalf("expected 4 assembled options, got %v", singles[0].Options)
	}
	found := false
	for _, opt := range singles[0].Options {
		if opt == "443" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected correct answer among options, got %v", singles[0].Options)
	}

	multiples, err := bank.QuestionsOfType(ctx, domain.Multiple)
	if err != nil {
		t.Fatalf("multiples: %v", err)
	}
	if len(multiples[0].Correct) != 2 || len(multiples[0].Options) != 4 {
		t.Fatalf("unexpected multiple decode %+v", multiples[0])
	}

	// No questions of a kind is an empty slice, not an error.
	none, err := bank.QuestionsOfType(ctx, "essay")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty slice, got %v/%v", none, err)
	}
}
