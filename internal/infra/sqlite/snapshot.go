package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"knowledge-quiz/internal/domain"
	"github.com/uptrace/bun"
)

// ExportResults writes every result row to path as a JSON array and returns
// how many rows were written.
func (s *Store) ExportResults(ctx context.Context, path string) (int, error) {
	var rows []resultRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return 0, fmt.Errorf("select results: %w", err)
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
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(results), nil
}

// ImportResults loads a JSON snapshot from path into the results table,
// keeping the snapshot's ids. A missing file surfaces as
// domain.ErrSnapshotNotFound, a malformed one as an error. All inserts run
// in one transaction, so neither case leaves partial writes behind.
func (s *Store) ImportResults(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, domain.ErrSnapshotNotFound
		}
		return 0, fmt.Errorf("read snapshot: %w", err)
	}
	var results []domain.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return 0, fmt.Errorf("parse snapshot: %w", err)
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, r := range results {
			row := resultRow{
				ID:     r.ID,
				UserID: r.UserID,
				Type:   string(r.QuizType),
				Points: r.Points,
				Date:   r.Date,
			}
			if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
				return fmt.Errorf("insert result %d: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(results), nil
}
