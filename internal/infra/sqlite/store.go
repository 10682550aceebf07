package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"knowledge-quiz/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Store is the durable record store backed by a single long-lived SQLite
// handle. The connection pool is pinned to one connection, which doubles as
// the per-user serialization point for writes.
type Store struct {
	db *bun.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for
// an in-process throwaway database in tests.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return &Store{db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *bun.DB { return s.db }

// Close releases the database handle. Safe on every shutdown path.
func (s *Store) Close() error { return s.db.Close() }

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Username string `bun:"username"`
	Email    string `bun:"email"`
	Password string `bun:"password"`
}

type resultRow struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID     int64  `bun:"id,pk,autoincrement"`
	UserID int64  `bun:"user_id"`
	Type   string `bun:"type"`
	Points int    `bun:"points"`
	Date   string `bun:"date"`
}

type achievementRow struct {
	bun.BaseModel `bun:"table:achievements,alias:a"`

	ID          int64  `bun:"id,pk,autoincrement"`
	UserID      int64  `bun:"user_id"`
	Name        string `bun:"name"`
	Description string `bun:"description"`
	Date        string `bun:"date"`
}

// CreateUser inserts an account after a combined username/email conflict
// pre-check; duplicates fail with domain.ErrConflict and write nothing.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (domain.User, error) {
	exists, err := s.db.NewSelect().
		Model((*userRow)(nil)).
		Where("username = ? OR email = ?", username, email).
		Exists(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return domain.User{}, domain.ErrConflict
	}

	row := userRow{Username: username, Email: email, Password: passwordHash}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return domain.User{ID: row.ID, Username: username, Email: email, PasswordHash: passwordHash}, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return domain.User{ID: row.ID, Username: row.Username, Email: row.Email, PasswordHash: row.Password}, nil
}

func (s *Store) SaveResult(ctx context.Context, username string, quizType domain.QuestionKind, points int, date string) error {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	row := resultRow{UserID: user.ID, Type: string(quizType), Points: points, Date: date}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// ResultsByUser returns the user's results ordered by points descending,
// ties broken by insertion order.
func (s *Store) ResultsByUser(ctx context.Context, username string) ([]domain.Result, error) {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	var rows []resultRow
	err = s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", user.ID).
		Order("points DESC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	results := make([]domain.Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, domain.Result{
			ID:       r.ID,
			UserID:   r.UserID,
			QuizType: domain.QuestionKind(r.Type),
			Points:   r.Points,
			Date:     r.Date,
		})
	}
	return results, nil
}

func (s *Store) StatsByUser(ctx context.Context, username string) (domain.Stats, error) {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return domain.Stats{}, err
	}
	var count, best int
	var average float64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(points), 0), COALESCE(AVG(points), 0) FROM results WHERE user_id = ?`,
		user.ID,
	).Scan(&count, &best, &average)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("select stats: %w", err)
	}
	return domain.Stats{
		Count:   count,
		Best:    best,
		Average: math.Round(average*100) / 100,
	}, nil
}

func (s *Store) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, SUM(r.points) AS total
		   FROM users u
		   JOIN results r ON u.id = r.user_id
		  GROUP BY u.username
		  ORDER BY total DESC, u.username ASC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select ranking: %w", err)
	}
	defer rows.Close()

	var entries []domain.RankingEntry
	for rows.Next() {
		var entry domain.RankingEntry
		if err := rows.Scan(&entry.Username, &entry.TotalPoints); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranking: %w", err)
	}
	return entries, nil
}

// GrantAchievement inserts the achievement unless the user already holds
// one with that name.
func (s *Store) GrantAchievement(ctx context.Context, username, name, description, date string) error {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	held, err := s.db.NewSelect().
		Model((*achievementRow)(nil)).
		Where("user_id = ? AND name = ?", user.ID, name).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check achievement: %w", err)
	}
	if held {
		return nil
	}
	row := achievementRow{UserID: user.ID, Name: name, Description: description, Date: date}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	return nil
}

func (s *Store) AchievementsByUser(ctx context.Context, username string) ([]domain.Achievement, error) {
	user, err := s.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	var rows []achievementRow
	err = s.db.NewSelect().Model(&rows).Where("user_id = ?", user.ID).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select achievements: %w", err)
	}
	achievements := make([]domain.Achievement, 0, len(rows))
	for _, a := range rows {
		achievements = append(achievements, domain.Achievement{
			UserID:      a.UserID,
			Name:        a.Name,
			Description: a.Description,
			Date:        a.Date,
		})
	}
	return achievements, nil
}
