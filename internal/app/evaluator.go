package app

import (
	"strings"

	"knowledge-quiz/internal/domain"
)

const (
	// keyWordLimit caps how many key words are extracted from an open
	// question's correct answer.
	keyWordLimit = 5
	// keyWordMinLen filters out short filler words (length must exceed it).
	keyWordMinLen = 3
	// keyWordThreshold is how many key words a candidate must contain.
	keyWordThreshold = 2
)

// Evaluate decides whether a candidate answers the question correctly.
// It is pure and never panics; an unknown question kind evaluates to false
// so that bad bank data stays a logged condition rather than a crash.
func Evaluate(q domain.Question, a domain.Answer) bool {
	switch q.Kind {
	case domain.Single:
		if len(q.Correct) == 0 {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(q.Correct[0]))
	case domain.Multiple:
		return equalSets(a.Choices, q.Correct)
	case domain.Open:
		if len(q.Correct) == 0 {
			return false
		}
		return matchKeyWords(q.Correct[0], a.Text)
	default:
		return false
	}
}

// equalSets compares two string slices as sets of trimmed elements.
// No credit for subsets or supersets.
func equalSets(candidate, correct []string) bool {
	want := make(map[string]struct{}, len(correct))
	for _, c := range correct {
		want[strings.TrimSpace(c)] = struct{}{}
	}
	got := make(map[string]struct{}, len(candidate))
	for _, c := range candidate {
		got[strings.TrimSpace(c)] = struct{}{}
	}
	if len(got) != len(want) {
		return false
	}
	for c := range got {
		if _, ok := want[c]; !ok {
			return false
		}
	}
	return true
}

// matchKeyWords implements the open-question rule: at least two of the key
// words extracted from the correct answer must occur in the candidate text.
// With fewer than two key words available the question can never be correct.
func matchKeyWords(correct, candidate string) bool {
	candidate = strings.ToLower(candidate)
	matches := 0
	for _, word := range keyWords(correct) {
		if strings.Contains(candidate, word) {
			matches++
		}
	}
	return matches >= keyWordThreshold
}

// keyWords returns the first keyWordLimit words of the lower-cased correct
// answer longer than keyWordMinLen, in original order, not deduplicated.
func keyWords(correct string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(correct)) {
		if len(word) > keyWordMinLen {
			words = append(words, word)
			if len(words) == keyWordLimit {
				break
			}
		}
	}
	return words
}
