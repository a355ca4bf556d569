package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrAnswerCount = errors.New("quiz: wrong number of answers")
	ErrAnswerValue = errors.New("quiz: answer must be option 0 or 1")
)

// Answers holds the chosen option index per question, in bank order.
type Answers []int

// Type is the personality type derived from the type A count.
type Type string

const (
	TypeIntuitive         Type = "Ultra-intuitive passionate artist"
	TypeBalancedIntuitive Type = "Balanced (intuitive-leaning)"
	TypeBalancedLogical   Type = "Balanced (logic-leaning)"
	TypeLogical           Type = "Ultra-logical structured creator"
)

// Result is the scored outcome of a completed quiz.
type Result struct {
	TypeACount int    `json:"type_a_count"`
	Total      int    `json:"total"`
	Percent    int    `json:"percent"`
	Type       Type   `json:"type"`
	Label      string `json:"label"`
}

// Score tallies answers against the bank.
func Score(answers Answers) (Result, error) {
	if len(answers) != QuestionCount {
		return Result{}, fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), QuestionCount)
	}

	count := 0
	for i, a := range answers {
		if a != 0 && a != 1 {
			return Result{}, fmt.Errorf("%w: question %d has %d", ErrAnswerValue, i+1, a)
		}
		if a == bank[i].IntuitiveIndex {
			count++
		}
	}
	return NewResult(count), nil
}

// NewResult derives the full Result from a type A count. Counts outside
// 0..QuestionCount are clamped.
func NewResult(typeACount int) Result {
	typeACount = max(0, min(typeACount, QuestionCount))
	percent := typeACount * 100 / QuestionCount
	t := TypeFor(typeACount)
	return Result{
		TypeACount: typeACount,
		Total:      QuestionCount,
		Percent:    percent,
		Type:       t,
		Label:      fmt.Sprintf("%s (passion: %d%%)", t, percent),
	}
}

// TypeFor maps a type A count to a Type.
func TypeFor(typeACount int) Type {
	switch {
	case typeACount >= 20:
		return TypeIntuitive
	case typeACount >= 16:
		return TypeBalancedIntuitive
	case typeACount >= 11:
		return TypeBalancedLogical
	default:
		return TypeLogical
	}
}
