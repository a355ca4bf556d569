package quiz

import (
	"errors"
	"strings"
	"testing"
)

func answersWithTypeA(n int) Answers {
	out := make(Answers, QuestionCount)
	for i, q := range Bank() {
		if i < n {
			out[i] = q.IntuitiveIndex
		} else {
			out[i] = 1 - q.IntuitiveIndex
		}
	}
	return out
}

func TestBank(t *testing.T) {
	b := Bank()
	if len(b) != QuestionCount {
		t.Fatalf("bank has %d questions, want %d", len(b), QuestionCount)
	}
	for i, q := range b {
		if q.ID != i+1 {
			t.Errorf("question %d has ID %d", i, q.ID)
		}
		if q.Prompt == "" || q.Options[0] == "" || q.Options[1] == "" {
			t.Errorf("question %d has empty text", q.ID)
		}
		if q.IntuitiveIndex != 0 && q.IntuitiveIndex != 1 {
			t.Errorf("question %d has intuitive index %d", q.ID, q.IntuitiveIndex)
		}
	}

	b[0].Prompt = "mutated"
	if Bank()[0].Prompt == "mutated" {
		t.Error("Bank returned the shared slice")
	}
}

func TestScoreThresholds(t *testing.T) {
	tests := []struct {
		typeA   int
		percent int
		want    Type
	}{
		{30, 100, TypeIntuitive},
		{20, 66, TypeIntuitive},
		{19, 63, TypeBalancedIntuitive},
		{16, 53, TypeBalancedIntuitive},
		{15, 50, TypeBalancedLogical},
		{11, 36, TypeBalancedLogical},
		{10, 33, TypeLogical},
		{1, 3, TypeLogical},
		{0, 0, TypeLogical},
	}
	for _, tt := range tests {
		r, err := Score(answersWithTypeA(tt.typeA))
		if err != nil {
			t.Fatalf("Score(%d type A): %v", tt.typeA, err)
		}
		if r.TypeACount != tt.typeA {
			t.Errorf("TypeACount = %d, want %d", r.TypeACount, tt.typeA)
		}
		if r.Percent != tt.percent {
			t.Errorf("%d type A: percent = %d, want %d", tt.typeA, r.Percent, tt.percent)
		}
		if r.Type != tt.want {
			t.Errorf("%d type A: type = %q, want %q", tt.typeA, r.Type, tt.want)
		}
		if r.Total != QuestionCount {
			t.Errorf("total = %d", r.Total)
		}
	}
}

func TestScoreLabel(t *testing.T) {
	r, err := Score(answersWithTypeA(22))
	if err != nil {
		t.Fatal(err)
	}
	want := "Ultra-intuitive passionate artist (passion: 73%)"
	if r.Label != want {
		t.Errorf("label = %q, want %q", r.Label, want)
	}
}

func TestScoreErrors(t *testing.T) {
	if _, err := Score(make(Answers, 29)); !errors.Is(err, ErrAnswerCount) {
		t.Errorf("short answers: err = %v, want ErrAnswerCount", err)
	}
	bad := answersWithTypeA(5)
	bad[7] = 2
	if _, err := Score(bad); !errors.Is(err, ErrAnswerValue) {
		t.Errorf("out of range: err = %v, want ErrAnswerValue", err)
	}
	bad[7] = -1
	if _, err := Score(bad); !errors.Is(err, ErrAnswerValue) {
		t.Errorf("negative: err = %v, want ErrAnswerValue", err)
	}
}

func TestNewResultClamps(t *testing.T) {
	if r := NewResult(45); r.TypeACount != 30 || r.Percent != 100 {
		t.Errorf("NewResult(45) = %+v", r)
	}
	if r := NewResult(-3); r.TypeACount != 0 || r.Type != TypeLogical {
		t.Errorf("NewResult(-3) = %+v", r)
	}
}

func TestParseAnswers(t *testing.T) {
	ints := "[" + strings.TrimSuffix(strings.Repeat("0,", 29)+"1,", ",") + "]"
	letters := `{"answers":[` + strings.TrimSuffix(strings.Repeat(`"a",`, 28)+`"B","b",`, ",") + `]}`

	tests := []struct {
		name     string
		in       string
		wantErr  error
		wantLast int
	}{
		{"int array", ints, nil, 1},
		{"letter object", letters, nil, 1},
		{"too short", "[0,1]", ErrAnswerCount, 0},
		{"bad int", "[" + strings.Repeat("0,", 29) + "3]", ErrAnswerValue, 0},
		{"bad letter", `["c"` + strings.Repeat(",0", 29) + "]", ErrAnswerValue, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswers(strings.NewReader(tt.in))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != QuestionCount || got[29] != tt.wantLast {
				t.Fatalf("answers = %v", got)
			}
		})
	}

	if _, err := ParseAnswers(strings.NewReader("not json")); err == nil {
		t.Error("expected decode error")
	}
}
