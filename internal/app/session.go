package app

import (
	"math/rand"
	"time"

	"knowledge-quiz/internal/domain"
)

// Lifeline identifies a single-use session aid.
type Lifeline string

const (
	FiftyFifty Lifeline = "fifty_fifty"
	Hint       Lifeline = "hint"
	Skip       Lifeline = "skip"
)

// FallbackHint is shown when a question carries no hint of its own.
const FallbackHint = "Think carefully and use your knowledge!"

// Session is the state machine for one quiz run. The question order is
// frozen at creation (shuffled copy of the input); position ranges over
// [0, len(questions)], where len(questions) means completed.
//
// A Session is owned by a single presentation flow and must be mutated
// from one goroutine only; timer callbacks are expected to be dispatched
// through the same event loop as user input.
type Session struct {
	quizType  domain.QuestionKind
	questions []domain.Question
	position  int
	score     int
	lifelines map[Lifeline]bool
	mistakes  []domain.Mistake
	// timedOut guards OnTimeout per question-visit so a late or duplicate
	// timer fire cannot advance the session twice.
	timedOut []bool
	rnd      *rand.Rand
}

// SubmitOutcome reports what a submission did to the session.
type SubmitOutcome struct {
	Correct       bool
	CorrectAnswer string
	Completed     bool
}

// NewSession builds a session over a shuffled snapshot of questions.
func NewSession(quizType domain.QuestionKind, questions []domain.Question) *Session {
	return NewSessionWithRand(quizType, questions, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithRand is for deterministic shuffling and 50/50 picks in tests.
func NewSessionWithRand(quizType domain.QuestionKind, questions []domain.Question, rnd *rand.Rand) *Session {
	snapshot := make([]domain.Question, len(questions))
	copy(snapshot, questions)
	rnd.Shuffle(len(snapshot), func(i, j int) {
		snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
	})
	return &Session{
		quizType:  quizType,
		questions: snapshot,
		lifelines: map[Lifeline]bool{FiftyFifty: true, Hint: true, Skip: true},
		timedOut:  make([]bool, len(snapshot)),
		rnd:       rnd,
	}
}

// QuizType returns the kind this session was drawn for.
func (s *Session) QuizType() domain.QuestionKind { return s.quizType }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.questions) }

// Position returns the current question index; equal to Len when completed.
func (s *Session) Position() int { return s.position }

// Score returns the number of correct submissions so far.
func (s *Session) Score() int { return s.score }

// Completed reports whether the session has run past its last question.
func (s *Session) Completed() bool { return s.position >= len(s.questions) }

// Current returns the question at the current position.
func (s *Session) Current() (domain.Question, bool) {
	if s.Completed() {
		return domain.Question{}, false
	}
	return s.questions[s.position], true
}

// Mistakes returns the log of incorrect or timed-out questions, in order.
func (s *Session) Mistakes() []domain.Mistake {
	out := make([]domain.Mistake, len(s.mistakes))
	copy(out, s.mistakes)
	return out
}

// LifelineAvailable reports whether the lifeline is still unused.
func (s *Session) LifelineAvailable(l Lifeline) bool { return s.lifelines[l] }

// Submit evaluates the candidate against the current question and advances.
// An empty candidate is rejected with domain.ErrEmptyAnswer and mutates
// nothing; the caller should re-prompt.
//
// Resubmitting a question reached again via GoPrevious evaluates and counts
// a second time, exactly as the original application did.
func (s *Session) Submit(a domain.Answer) (SubmitOutcome, error) {
	if s.Completed() {
		return SubmitOutcome{}, domain.ErrSessionCompleted
	}
	q := s.questions[s.position]
	if a.EmptyFor(q.Kind) {
		return SubmitOutcome{}, domain.ErrEmptyAnswer
	}

	correct := Evaluate(q, a)
	if correct {
		s.score++
	} else {
		s.mistakes = append(s.mistakes, domain.Mistake{
			Index:         s.position,
			Question:      q.Text,
			CorrectAnswer: q.CorrectDisplay(),
		})
	}
	s.position++
	return SubmitOutcome{
		Correct:       correct,
		CorrectAnswer: q.CorrectDisplay(),
		Completed:     s.Completed(),
	}, nil
}

// GoPrevious steps back one question. It does not undo the score or mistake
// effects already recorded for that question. Returns false at position 0
// or once the session is completed.
func (s *Session) GoPrevious() bool {
	if s.position == 0 || s.Completed() {
		return false
	}
	s.position--
	// Revisiting re-arms the timeout guard for this question.
	s.timedOut[s.position] = false
	return true
}

// UseFiftyFifty removes all but one incorrect option from the current
// question's choices, keeping every correct one. The reduced option list
// preserves the original option order. It is a no-op (ok=false) for open
// questions, after the session completes, or once already consumed; only a
// successful use consumes the lifeline.
func (s *Session) UseFiftyFifty() ([]string, bool) {
	if !s.lifelines[FiftyFifty] {
		return nil, false
	}
	q, ok := s.Current()
	if !ok || (q.Kind != domain.Single && q.Kind != domain.Multiple) {
		return nil, false
	}

	correct := make(map[string]struct{}, len(q.Correct))
	for _, c := range q.Correct {
		correct[c] = struct{}{}
	}
	var incorrect []string
	for _, opt := range q.Options {
		if _, ok := correct[opt]; !ok {
			incorrect = append(incorrect, opt)
		}
	}

	keepIncorrect := ""
	if len(incorrect) > 0 {
		keepIncorrect = incorrect[s.rnd.Intn(len(incorrect))]
	}
	var reduced []string
	for _, opt := range q.Options {
		if _, ok := correct[opt]; ok || opt == keepIncorrect {
			reduced = append(reduced, opt)
		}
	}
	s.lifelines[FiftyFifty] = false
	return reduced, true
}

// UseHint returns the current question's hint, or FallbackHint when the
// question has none. A second use in the same session is a no-op (ok=false).
func (s *Session) UseHint() (string, bool) {
	if !s.lifelines[Hint] {
		return "", false
	}
	q, ok := s.Current()
	if !ok {
		return "", false
	}
	s.lifelines[Hint] = false
	if q.Hint == "" {
		return FallbackHint, true
	}
	return q.Hint, true
}

// UseSkip advances past the current question without evaluating an answer
// and without recording a mistake.
func (s *Session) UseSkip() bool {
	if !s.lifelines[Skip] || s.Completed() {
		return false
	}
	s.lifelines[Skip] = false
	s.position++
	return true
}

// OnTimeout applies the expiry of the timer armed for the question at index:
// the question is logged as a mistake and the session advances, with no
// score change. It is a no-op unless index is still the current question and
// has not already timed out this visit, which makes duplicate timer fires
// and submit-versus-timeout races resolve to exactly one state change.
func (s *Session) OnTimeout(index int) bool {
	if s.Completed() || index != s.position || s.timedOut[index] {
		return false
	}
	q := s.questions[index]
	s.timedOut[index] = true
	s.mistakes = append(s.mistakes, domain.Mistake{
		Index:         index,
		Question:      q.Text,
		CorrectAnswer: q.CorrectDisplay(),
	})
	s.position++
	return true
}
