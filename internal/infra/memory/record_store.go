package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"knowledge-quiz/internal/domain"
)

// RecordStore is an in-memory implementation of app.RecordStore, used by
// tests and demos. It mirrors the durable store's semantics: combined
// username/email conflict checks, insertion-ordered results, idempotent
// achievements.
type RecordStore struct {
	mu           sync.RWMutex
	nextUserID   int64
	nextResultID int64
	users        []domain.User
	results      []domain.Result
	achievements []domain.Achievement
}

func NewRecordStore() *RecordStore {
	return &RecordStore{nextUserID: 1, nextResultID: 1}
}

func (s *RecordStore) CreateUser(_ context.Context, username, email, passwordHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return domain.User{}, domain.ErrConflict
		}
	}
	user := domain.User{ID: s.nextUserID, Username: username, Email: email, PasswordHash: passwordHash}
	s.nextUserID++
	s.users = append(s.users, user)
	return user, nil
}

func (s *RecordStore) UserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *RecordStore) SaveResult(ctx context.Context, username string, quizType domain.QuestionKind, points int, date string) error {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, domain.Result{
		ID:       s.nextResultID,
		UserID:   user.ID,
		QuizType: quizType,
		Points:   points,
		Date:     date,
	})
	s.nextResultID++
	return nil
}

func (s *RecordStore) ResultsByUser(ctx context.Context, username string) ([]domain.Result, error) {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Result, 0)
	for _, r := range s.results {
		if r.UserID == user.ID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out, nil
}

func (s *RecordStore) StatsByUser(ctx context.Context, username string) (domain.Stats, error) {
	results, err := s.ResultsByUser(ctx, username)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.Stats{}
	total := 0
	for _, r := range results {
		stats.Count++
		total += r.Points
		if r.Points > stats.Best {
			stats.Best = r.Points
		}
	}
	if stats.Count > 0 {
		stats.Average = math.Round(float64(total)/float64(stats.Count)*100) / 100
	}
	return stats, nil
}

func (s *RecordStore) Ranking(_ context.Context, limit int) ([]domain.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := make(map[int64]int)
	for _, r := range s.results {
		totals[r.UserID] += r.Points
	}
	entries := make([]domain.RankingEntry, 0, len(totals))
	for _, u := range s.users {
		if total, ok := totals[u.ID]; ok {
			entries = append(entries, domain.RankingEntry{Username: u.Username, TotalPoints: total})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *RecordStore) GrantAchievement(ctx context.Context, username, name, description, date string) error {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.achievements {
		if a.UserID == user.ID && a.Name == name {
			return nil
		}
	}
	s.achievements = append(s.achievements, domain.Achievement{
		UserID:      user.ID,
		Name:        name,
		Description: description,
		Date:        date,
	})
	return nil
}

func (s *RecordStore) AchievementsByUser(ctx context.Context, username string) ([]domain.Achievement, error) {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Achievement, 0)
	for _, a := range s.achievements {
		if a.UserID == user.ID {
			out = append(out, a)
		}
	}
	return out, nil
}
