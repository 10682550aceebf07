package app

import (
	"context"
	"errors"
	"time"

	"knowledge-quiz/internal/domain"
)

// RankingSize caps how many users the global ranking returns.
const RankingSize = 10

// RecordStore abstracts how accounts, results, and achievements are stored
// (SQLite, in-memory, ...). Implementations enforce referential integrity:
// result and achievement writes for unknown users fail with
// domain.ErrUserNotFound, and CreateUser fails with domain.ErrConflict on a
// duplicate username or email.
type RecordStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	SaveResult(ctx context.Context, username string, quizType domain.QuestionKind, points int, date string) error
	ResultsByUser(ctx context.Context, username string) ([]domain.Result, error)
	StatsByUser(ctx context.Context, username string) (domain.Stats, error)
	Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error)
	GrantAchievement(ctx context.Context, username, name, description, date string) error
	AchievementsByUser(ctx context.Context, username string) ([]domain.Achievement, error)
}

// AccountService contains the account and records use cases.
type AccountService struct {
	store RecordStore
	now   func() time.Time
}

func NewAccountService(store RecordStore) *AccountService {
	return NewAccountServiceWithClock(store, time.Now)
}

// NewAccountServiceWithClock is for deterministic timestamps in tests.
func NewAccountServiceWithClock(store RecordStore, now func() time.Time) *AccountService {
	return &AccountService{store: store, now: now}
}

// Register creates an account, storing only a salted hash of the password.
// A taken username or email surfaces as domain.ErrConflict with no partial
// write.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	return s.store.CreateUser(ctx, username, email, hash)
}

// Login authenticates a user. Unknown username and wrong password both
// yield domain.ErrInvalidCredentials so callers cannot tell which failed.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// SaveResult appends an immutable result row stamped with the current time.
func (s *AccountService) SaveResult(ctx context.Context, username string, quizType domain.QuestionKind, points int) error {
	return s.store.SaveResult(ctx, username, quizType, points, domain.FormatDate(s.now()))
}

// FinishQuiz persists a completed session's result and evaluates the
// built-in achievement rules for the user.
func (s *AccountService) FinishQuiz(ctx context.Context, username string, session *Session) error {
	if err := s.SaveResult(ctx, username, session.QuizType(), session.Score()); err != nil {
		return err
	}

	stats, err := s.store.StatsByUser(ctx, username)
	if err != nil {
		return err
	}
	if stats.Count == 1 {
		if err := s.GrantAchievement(ctx, username, "First Quiz", "Completed your first quiz."); err != nil {
			return err
		}
	}
	if session.Len() > 0 && session.Score() == session.Len() && len(session.Mistakes()) == 0 {
		if err := s.GrantAchievement(ctx, username, "Flawless", "Finished a quiz with a perfect score."); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the user's results ordered by points descending, ties
// broken by insertion order.
func (s *AccountService) Records(ctx context.Context, username string) ([]domain.Result, error) {
	return s.store.ResultsByUser(ctx, username)
}

// Stats aggregates the user's results; all zero when none exist.
func (s *AccountService) Stats(ctx context.Context, username string) (domain.Stats, error) {
	return s.store.StatsByUser(ctx, username)
}

// Ranking returns the top users by summed points, at most RankingSize
// entries, ties broken by username ascending.
func (s *AccountService) Ranking(ctx context.Context) ([]domain.RankingEntry, error) {
	return s.store.Ranking(ctx, RankingSize)
}

// GrantAchievement is idempotent: granting a name the user already holds is
// a no-op, never a duplicate row.
func (s *AccountService) GrantAchievement(ctx context.Context, username, name, description string) error {
	return s.store.GrantAchievement(ctx, username, name, description, domain.FormatDate(s.now()))
}

// Achievements lists the user's achievements.
func (s *AccountService) Achievements(ctx context.Context, username string) ([]domain.Achievement, error) {
	return s.store.AchievementsByUser(ctx, username)
}

// QuestionBank loads questions filtered by kind. An empty slice (not an
// error) means there is nothing to quiz.
type QuestionBank interface {
	QuestionsOfType(ctx context.Context, kind domain.QuestionKind) ([]domain.Question, error)
}
