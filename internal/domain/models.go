package domain

import (
	"strings"
	"time"
)

// QuestionKind discriminates how a question is presented and scored.
type QuestionKind string

const (
	Single   QuestionKind = "single"
	Multiple QuestionKind = "multiple"
	Open     QuestionKind = "open"
)

// Question is a snapshot of a bank entry as presented during a session.
type Question struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Kind    QuestionKind `json:"kind"`
	Options []string     `json:"options,omitempty"` // empty for Open
	Correct []string     `json:"correct"`           // one element for Single/Open
	Hint    string       `json:"hint,omitempty"`    // optional; callers fall back when empty
}

// CorrectDisplay renders the correct answer(s) for user-facing messages.
func (q Question) CorrectDisplay() string {
	return strings.Join(q.Correct, ",")
}

// Answer is a candidate answer as collected by the presentation layer.
// Text carries single-choice and open answers, Choices carries the
// multiple-choice selection.
type Answer struct {
	Text    string
	Choices []string
}

// EmptyFor reports whether the answer is blank for the given question kind.
func (a Answer) EmptyFor(kind QuestionKind) bool {
	if kind == Multiple {
		return len(a.Choices) == 0
	}
	return strings.TrimSpace(a.Text) == ""
}

// Mistake records a question answered incorrectly or timed out.
type Mistake struct {
	Index         int // zero-based position within the session
	Question      string
	CorrectAnswer string
}

// User is an account row. PasswordHash is a salted hex-encoded hash,
// never the plaintext.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// Result is an immutable quiz outcome row.
type Result struct {
	ID       int64        `json:"id"`
	UserID   int64        `json:"user_id"`
	QuizType QuestionKind `json:"type"`
	Points   int          `json:"points"`
	Date     string       `json:"date"`
}

// Achievement is granted at most once per (user, name).
type Achievement struct {
	UserID      int64
	Name        string
	Description string
	Date        string
}

// Stats aggregates a user's results; zero-valued when the user has none.
type Stats struct {
	Count   int
	Best    int
	Average float64
}

// RankingEntry is one row of the global top list.
type RankingEntry struct {
	Username    string
	TotalPoints int
}

// DateFormat is the timestamp layout used across the persisted schema.
const DateFormat = "2006-01-02 15:04:05"

// FormatDate renders t in the persisted timestamp layout.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
