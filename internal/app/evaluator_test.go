package app_test

import (
	"testing"

	"knowledge-quiz/internal/app"
	"knowledge-quiz/internal/domain"
)

func TestEvaluateSingleIgnoresCaseAndWhitespace(t *testing.T) {
	q := domain.Question{
		Kind:    domain.Single,
		Options: []string{"RIP", "BGP", "OSPF"},
		Correct: []string{"OSPF"},
	}
	if !app.Evaluate(q, domain.Answer{Text: "  ospf "}) {
		t.Fatalf("expected trimmed, case-folded match to be correct")
	}
	if app.Evaluate(q, domain.Answer{Text: "RIP"}) {
		t.Fatalf("expected wrong option to be incorrect")
	}
}

func TestEvaluateMultipleIsSetEquality(t *testing.T) {
	q := domain.Question{
		Kind:    domain.Multiple,
		Options: []string{"TCP", "UDP", "IP", "HTTP"},
		Correct: []string{"TCP", "UDP"},
	}
	if !app.Evaluate(q, domain.Answer{Choices: []string{"UDP", "TCP"}}) {
		t.Fatalf("expected order-insensitive match to be correct")
	}
	if app.Evaluate(q, domain.Answer{Choices: []string{"TCP"}}) {
		t.Fatalf("expected subset to be incorrect")
	}
	if app.Evaluate(q, domain.Answer{Choices: []string{"TCP", "UDP", "IP"}}) {
		t.Fatalf("expected superset to be incorrect")
	}
}

func TestEvaluateOpenKeyWordRule(t *testing.T) {
	q := domain.Question{
		Kind:    domain.Open,
		Correct: []string{"Atomicity Consistency Isolation Durability"},
	}
	// Two key words present as substrings.
	if !app.Evaluate(q, domain.Answer{Text: "atomicity and consistency matter most"}) {
		t.Fatalf("expected two key-word matches to be correct")
	}
	// Exactly one key word present.
	if app.Evaluate(q, domain.Answer{Text: "atomicity only"}) {
		t.Fatalf("expected a single key-word match to be incorrect")
	}
	// "atomic" is not one of the extracted key words, but key words are
	// matched as substrings of the candidate, not the other way round.
	if app.Evaluate(q, domain.Answer{Text: "atomic and consistent only"}) {
		t.Fatalf("expected truncated words not to count as matches")
	}
}

func TestEvaluateOpenCapsKeyWordsAtFive(t *testing.T) {
	q := domain.Question{
		Kind:    domain.Open,
		Correct: []string{"alpha bravo charlie delta echos foxtrot golfs"},
	}
	// Only words beyond the first five are present: no credit.
	if app.Evaluate(q, domain.Answer{Text: "foxtrot golfs"}) {
		t.Fatalf("expected words past the five-word cap to be ignored")
	}
	if !app.Evaluate(q, domain.Answer{Text: "alpha echos"}) {
		t.Fatalf("expected first and fifth key words to count")
	}
}

func TestEvaluateOpenNeverCorrectWithFewKeyWords(t *testing.T) {
	q := domain.Question{
		Kind:    domain.Open,
		Correct: []string{"it is red"}, // no word longer than 3 chars
	}
	if app.Evaluate(q, domain.Answer{Text: "it is red"}) {
		t.Fatalf("expected open question with <2 key words to never be correct")
	}
}

func TestEvaluateUnknownKindIsFalse(t *testing.T) {
	q := domain.Question{Kind: "essay", Correct: []string{"anything"}}
	if app.Evaluate(q, domain.Answer{Text: "anything"}) {
		t.Fatalf("expected unknown kind to evaluate to false")
	}
}
