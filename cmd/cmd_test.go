package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/selfupdate"
)

// isolate points the data dir at a temp dir and clears provider keys.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("ATELIER_DB", "")
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func TestQuestionsJSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, "questions", "--json")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}

	var bank []quiz.Question
	if err := json.Unmarshal([]byte(out), &bank); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(bank) != quiz.QuestionCount {
		t.Errorf("got %d questions, want %d", len(bank), quiz.QuestionCount)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "atelier ") {
		t.Errorf("output = %q", out)
	}
}

func TestReportWithFallback(t *testing.T) {
	dir := isolate(t)

	answers := make([]string, quiz.QuestionCount)
	for i := range answers {
		answers[i] = "a"
	}
	answersPath := filepath.Join(dir, "answers.json")
	data, _ := json.Marshal(answers)
	if err := os.WriteFile(answersPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	past := filepath.Join(dir, "past.png")
	future := filepath.Join(dir, "future.png")
	writePNG(t, past)
	writePNG(t, future)
	pdfPath := filepath.Join(dir, "out.pdf")
	dbPath := filepath.Join(dir, "test.db")

	out, err := execute(t, "report",
		"--db", dbPath,
		"--answers", answersPath,
		"--past", past,
		"--future", future,
		"--out", pdfPath,
		"--fallback",
	)
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	if !strings.Contains(out, "sample analysis") {
		t.Errorf("expected the sample analysis note:\n%s", out)
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	out, err = execute(t, "history", "--db", dbPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "*") || strings.Contains(out, "No assessments") {
		t.Errorf("expected one sample assessment:\n%s", out)
	}
}

func TestLLMListEmpty(t *testing.T) {
	isolate(t)
	out, err := execute(t, "llm", "list")
	if err != nil {
		t.Fatalf("llm list: %v", err)
	}
	if !strings.Contains(out, "No LLM calls recorded.") {
		t.Errorf("output = %q", out)
	}
}

func TestUpdateRefusesDevBuild(t *testing.T) {
	isolate(t)
	_, err := execute(t, "update")
	if !errors.Is(err, selfupdate.ErrDevBuild) {
		t.Errorf("err = %v, want ErrDevBuild", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("gemini-2.5-flash", 8); got != "gemini-…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("gpt-4o", 8); got != "gpt-4o" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("gpt-4o", 1); got != "…" {
		t.Errorf("truncate width 1 = %q", got)
	}
	for _, n := range []int{0, -3} {
		if got := truncate("gpt-4o", n); got != "" {
			t.Errorf("truncate width %d = %q, want empty", n, got)
		}
	}
}
