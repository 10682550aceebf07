package app

import "knowledge-quiz/internal/domain"

// PracticeSession is the non-scored learning variant: checking an answer
// does not advance, wrong answers bump a per-question error counter, and
// hints are not rationed.
type PracticeSession struct {
	questions []domain.Question
	current   int
	errors    map[int]int
}

// NewPracticeSession drills the questions in the order given.
func NewPracticeSession(questions []domain.Question) *PracticeSession {
	snapshot := make([]domain.Question, len(questions))
	copy(snapshot, questions)
	return &PracticeSession{questions: snapshot, errors: make(map[int]int)}
}

// Current returns the question being practiced.
func (p *PracticeSession) Current() (domain.Question, bool) {
	if p.Done() {
		return domain.Question{}, false
	}
	return p.questions[p.current], true
}

// Done reports whether every question has been passed.
func (p *PracticeSession) Done() bool { return p.current >= len(p.questions) }

// Check evaluates the candidate without advancing. Incorrect attempts are
// tallied against the current question.
func (p *PracticeSession) Check(a domain.Answer) (bool, error) {
	q, ok := p.Current()
	if !ok {
		return false, domain.ErrSessionCompleted
	}
	if a.EmptyFor(q.Kind) {
		return false, domain.ErrEmptyAnswer
	}
	correct := Evaluate(q, a)
	if !correct {
		p.errors[p.current]++
	}
	return correct, nil
}

// Next moves to the following question.
func (p *PracticeSession) Next() {
	if !p.Done() {
		p.current++
	}
}

// Hint returns the current question's hint or the generic fallback.
func (p *PracticeSession) Hint() string {
	q, ok := p.Current()
	if !ok || q.Hint == "" {
		return FallbackHint
	}
	return q.Hint
}

// ErrorCount returns the number of wrong attempts at the current question.
func (p *PracticeSession) ErrorCount() int { return p.errors[p.current] }

// TotalErrors sums wrong attempts across the whole drill.
func (p *PracticeSession) TotalErrors() int {
	total := 0
	for _, n := range p.errors {
		total += n
	}
	return total
}
