package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseAnswers reads answers for the batch command. It accepts a JSON array
// or an object with an "answers" array. Elements are option indexes (0, 1)
// or the letters "a" and "b".
func ParseAnswers(r io.Reader) (Answers, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	data = bytes.TrimSpace(data)

	var raw []json.RawMessage
	if len(data) > 0 && data[0] == '{' {
		var wrapper struct {
			Answers []json.RawMessage `json:"answers"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		raw = wrapper.Answers
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	out := make(Answers, len(raw))
	for i, item := range raw {
		v, err := parseAnswer(item)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
		out[i] = v
	}
	if len(out) != QuestionCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(out), QuestionCount)
	}
	return out, nil
}

func parseAnswer(item json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(item, &n); err == nil {
		if n != 0 && n != 1 {
			return 0, ErrAnswerValue
		}
		return n, nil
	}

	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrAnswerValue, item)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "0":
		return 0, nil
	case "b", "1":
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrAnswerValue, s)
	}
}
