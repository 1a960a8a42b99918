package app

import (
	"slices"

	"eduquiz-service/internal/domain"
)

// Grade checks a candidate answer against the question's answer key. It is a
// pure function: no state, no side effects. Missing candidate fields grade as
// incorrect rather than erroring, and unrecognized question types fail closed.
func Grade(q domain.Question, candidate domain.Answer) bool {
	switch q.Type {
	case domain.MultipleChoice:
		return q.Key.Selected != nil && candidate.Selected != nil &&
			*candidate.Selected == *q.Key.Selected
	case domain.DragDrop:
		return slices.Equal(candidate.Order, q.Key.Order)
	case domain.FillBlank:
		return gradeFills(q.Key.Fills, candidate.Fills)
	case domain.TrueFalse:
		return q.Key.Bool != nil && candidate.Bool != nil &&
			*candidate.Bool == *q.Key.Bool
	default:
		// Deliberate fails-closed default for unknown types.
		return false
	}
}

// gradeFills requires every blank in the key to be filled with exactly the
// same text. Comparison is case-sensitive and untrimmed; extra candidate
// blanks are ignored.
func gradeFills(key, candidate map[string]string) bool {
	for blank, want := range key {
		got, ok := candidate[blank]
		if !ok || got != want {
			return false
		}
	}
	return true
}
