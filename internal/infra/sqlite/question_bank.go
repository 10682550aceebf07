package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"knowledge-quiz/internal/domain"
	"github.com/uptrace/bun"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID               int64          `bun:"id,pk,autoincrement"`
	Question         string         `bun:"question"`
	Type             string         `bun:"type"`
	CorrectAnswer    string         `bun:"correct_answer"`
	IncorrectOptions sql.NullString `bun:"incorrect_options"`
}

// QuestionBank loads questions from the questions table. Single-choice
// options are assembled from the stored distractors plus the correct answer
// and shuffled at load time; multiple-choice rows store the full option
// list in incorrect_options.
type QuestionBank struct {
	db  *bun.DB
	rnd *rand.Rand
}

func NewQuestionBank(store *Store) *QuestionBank {
	return NewQuestionBankWithRand(store, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuestionBankWithRand is for deterministic option shuffles in tests.
func NewQuestionBankWithRand(store *Store, rnd *rand.Rand) *QuestionBank {
	return &QuestionBank{db: store.DB(), rnd: rnd}
}

// QuestionsOfType returns all questions of the kind; an empty slice (not an
// error) when none exist.
func (b *QuestionBank) QuestionsOfType(ctx context.Context, kind domain.QuestionKind) ([]domain.Question, error) {
	var rows []questionRow
	err := b.db.NewSelect().Model(&rows).Where("type = ?", string(kind)).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, b.decode(row))
	}
	return questions, nil
}

func (b *QuestionBank) decode(row questionRow) domain.Question {
	q := domain.Question{
		ID:   row.ID,
		Text: row.Question,
		Kind: domain.QuestionKind(row.Type),
	}
	switch q.Kind {
	case domain.Single:
		q.Correct = []string{row.CorrectAnswer}
		q.Options = append(splitOptions(row.IncorrectOptions.String), row.CorrectAnswer)
		b.rnd.Shuffle(len(q.Options), func(i, j int) {
			q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
		})
	case domain.Multiple:
		q.Correct = splitOptions(row.CorrectAnswer)
		q.Options = splitOptions(row.IncorrectOptions.String)
	default:
		q.Correct = []string{row.CorrectAnswer}
	}
	return q
}

// InsertQuestions seeds the bank, encoding each question into the persisted
// row shape.
func (s *Store) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	for _, q := range questions {
		row := encodeQuestion(q)
		if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("insert question %q: %w", q.Text, err)
		}
	}
	return nil
}

func encodeQuestion(q domain.Question) questionRow {
	row := questionRow{
		Question: q.Text,
		Type:     string(q.Kind),
	}
	switch q.Kind {
	case domain.Single:
		row.CorrectAnswer = q.Correct[0]
		correct := q.Correct[0]
		var distractors []string
		for _, opt := range q.Options {
			if opt != correct {
				distractors = append(distractors, opt)
			}
		}
		row.IncorrectOptions = joinOptions(distractors)
	case domain.Multiple:
		row.CorrectAnswer = strings.Join(q.Correct, ",")
		row.IncorrectOptions = joinOptions(q.Options)
	default:
		row.CorrectAnswer = strings.Join(q.Correct, " ")
	}
	return row
}

func splitOptions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func joinOptions(options []string) sql.NullString {
	if len(options) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(options, ","), Valid: true}
}
