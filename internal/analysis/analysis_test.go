package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/quiz"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testImages(t *testing.T, n int, name string) []Image {
	t.Helper()
	out := make([]Image, n)
	for i := range out {
		img, err := DecodeImage(name, testPNG(t))
		if err != nil {
			t.Fatal(err)
		}
		out[i] = img
	}
	return out
}

func validAnalysisJSON() json.RawMessage {
	return json.RawMessage(`{
		"five_keywords": ["tide", "salt", "glass", "dawn", "hush", "extra"],
		"analysis_scores": {"originality": 82.6, "technique": 140, "passion": 90, "market": -5, "potential": 77},
		"current_worldview": {"catchphrase": " Salt on glass ", "features": "Cool blues and soft edges."},
		"ideal_worldview": {"catchphrase": "Dawn over the harbor", "features": "Warmer light, bolder scale."},
		"roadmap_advice": "・[Point 1]: Warm the palette.\r\n・[Point 2]: Scale up.\n・[Point 3]: Keep the hush.",
		"roadmap_steps": ["Paint one sunrise study", " "]
	}`)
}

func TestDecodeImage(t *testing.T) {
	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black}), nil); err != nil {
		t.Fatal(err)
	}
	corruptPNG := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...)

	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantErr  error
	}{
		{"png", testPNG(t), "image/png", nil},
		{"jpeg", testJPEG(t), "image/jpeg", nil},
		{"gif", gifBuf.Bytes(), "", ErrUnsupportedImage},
		{"text", []byte("hello world"), "", ErrUnsupportedImage},
		{"too large", make([]byte, MaxImageBytes+1), "", ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.name, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.MIMEType != tt.wantMIME {
				t.Errorf("mime = %q, want %q", img.MIMEType, tt.wantMIME)
			}
			if img.Width == 0 || img.Height == 0 {
				t.Errorf("dimensions not decoded: %dx%d", img.Width, img.Height)
			}
		})
	}

	if _, err := DecodeImage("corrupt.png", corruptPNG); err == nil {
		t.Error("expected error for corrupt PNG")
	}
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "work.png")
	if err := os.WriteFile(good, testPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}

	imgs, err := LoadImages([]string{good})
	if err != nil {
		t.Fatalf("LoadImages: %v", err)
	}
	if len(imgs) != 1 || imgs[0].Name != "work.png" || imgs[0].Width != 4 {
		t.Errorf("images = %+v", imgs)
	}

	if _, err := LoadImages([]string{good, good, good, good}); !errors.Is(err, ErrTooManyImages) {
		t.Errorf("four paths: err = %v, want ErrTooManyImages", err)
	}
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestCheckCounts(t *testing.T) {
	one := testImages(t, 1, "a.png")
	four := testImages(t, 4, "a.png")

	if err := CheckCounts(one, one); err != nil {
		t.Errorf("1/1: %v", err)
	}
	if err := CheckCounts(nil, one); !errors.Is(err, ErrMissingImages) {
		t.Errorf("0/1: err = %v", err)
	}
	if err := CheckCounts(one, four); !errors.Is(err, ErrTooManyImages) {
		t.Errorf("1/4: err = %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	result := quiz.NewResult(22)
	got := BuildPrompt(result, 2, 1)

	for _, want := range []string{
		result.Label,
		"Images 1-2 show the creator's current work",
		"Image 3 shows the ideal",
		"・[Point 1]",
		"・[Point 3]",
		"22 of 30",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}

	if !strings.Contains(BuildPrompt(result, 1, 3), "Images 2-4 show the ideal") {
		t.Error("future range wrong for 1 past, 3 future")
	}
	if !strings.Contains(systemPrompt, "Never name tools") {
		t.Error("system prompt lost the no-tools rule")
	}
}

func TestDecodeNormalizes(t *testing.T) {
	a, err := Decode(validAnalysisJSON())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(a.Keywords) != KeywordCount || a.Keywords[4] != "hush" {
		t.Errorf("keywords = %v", a.Keywords)
	}
	want := Scores{Originality: 83, Technique: 100, Passion: 90, Market: 0, Potential: 77}
	if a.Scores != want {
		t.Errorf("scores = %+v, want %+v", a.Scores, want)
	}
	if a.Current.Catchphrase != "Salt on glass" {
		t.Errorf("catchphrase = %q", a.Current.Catchphrase)
	}
	if strings.Contains(a.RoadmapAdvice, "\r") || strings.Count(a.RoadmapAdvice, "\n") != 2 {
		t.Errorf("advice = %q", a.RoadmapAdvice)
	}
	if len(a.RoadmapSteps) != 1 {
		t.Errorf("steps = %q", a.RoadmapSteps)
	}
}

func TestDecodeClampsOutOfRangeScores(t *testing.T) {
	raw := strings.Replace(string(validAnalysisJSON()),
		`"originality": 82.6, "technique": 140, "passion": 90, "market": -5`,
		`"originality": 1e20, "technique": 1e300, "passion": -1e20, "market": 100.4`, 1)

	a, err := Decode(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Scores{Originality: 100, Technique: 100, Passion: 0, Market: 100, Potential: 77}
	if a.Scores != want {
		t.Errorf("scores = %+v, want %+v", a.Scores, want)
	}
}

func TestNormalizePadsKeywords(t *testing.T) {
	a := &Analysis{Keywords: []string{"one", "", "  two  "}}
	Normalize(a)
	want := []string{"one", "two", KeywordFiller, KeywordFiller, KeywordFiller}
	if strings.Join(a.Keywords, "|") != strings.Join(want, "|") {
		t.Errorf("keywords = %v, want %v", a.Keywords, want)
	}
}

func TestScoresEntriesOrder(t *testing.T) {
	s := Scores{Originality: 1, Technique: 2, Passion: 3, Market: 4, Potential: 5}
	entries := s.Entries()
	for i, e := range entries {
		if e.Key != ScoreKeys[i] || e.Value != i+1 || e.Label == "" {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
	if entries[3].Label != "Marketability" {
		t.Errorf("market label = %q", entries[3].Label)
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validAnalysisJSON()})
	a := NewAnalyzer(mock, DefaultConfig(), nil)

	past := testImages(t, 2, "past.png")
	future := []Image{mustJPEG(t)}

	got, err := a.Analyze(t.Context(), Input{
		Result:    quiz.NewResult(18),
		Past:      past,
		Future:    future,
		SubjectID: "sess-1",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Scores.Technique != 100 {
		t.Errorf("result not normalized: %+v", got.Scores)
	}

	req := mock.LastRequest()
	if req.Schema != Schema {
		t.Error("request does not carry the analysis schema")
	}
	if len(req.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(req.Messages))
	}
	imgs := req.Messages[0].Images
	if len(imgs) != 3 {
		t.Fatalf("images = %d, want 3", len(imgs))
	}
	if imgs[0].MIMEType != "image/png" || imgs[2].MIMEType != "image/jpeg" {
		t.Errorf("images out of order: %s, %s", imgs[0].MIMEType, imgs[2].MIMEType)
	}
	if !strings.Contains(req.Messages[0].Content, "Image 3 shows the ideal") {
		t.Errorf("prompt does not match image counts:\n%s", req.Messages[0].Content)
	}
}

func mustJPEG(t *testing.T) Image {
	t.Helper()
	img, err := DecodeImage("future.jpg", testJPEG(t))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestAnalyzer_Errors(t *testing.T) {
	one := testImages(t, 1, "a.png")
	in := Input{Result: quiz.NewResult(5), Past: one, Future: one}

	t.Run("not configured", func(t *testing.T) {
		_, err := NewAnalyzer(nil, DefaultConfig(), nil).Analyze(t.Context(), in)
		if !errors.Is(err, llm.ErrNotConfigured) {
			t.Fatalf("err = %v, want ErrNotConfigured", err)
		}
	})

	t.Run("image count checked before calling provider", func(t *testing.T) {
		mock := llm.NewMockProvider()
		_, err := NewAnalyzer(mock, DefaultConfig(), nil).Analyze(t.Context(), Input{Past: one})
		if !errors.Is(err, ErrMissingImages) {
			t.Fatalf("err = %v, want ErrMissingImages", err)
		}
		if mock.CallCount() != 0 {
			t.Error("provider called despite invalid input")
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"five_keywords":[]}`)})
		_, err := NewAnalyzer(mock, DefaultConfig(), nil).Analyze(t.Context(), in)
		var inv *llm.ErrInvalidResponse
		if !errors.As(err, &inv) {
			t.Fatalf("err = %v, want ErrInvalidResponse", err)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
		_, err := NewAnalyzer(mock, DefaultConfig(), nil).Analyze(context.Background(), in)
		var rl *llm.ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("err = %v, want ErrRateLimit", err)
		}
	})
}

func TestPlaceholder(t *testing.T) {
	for _, count := range []int{25, 17, 12, 3} {
		r := quiz.NewResult(count)
		a := Placeholder(r)
		if len(a.Keywords) != KeywordCount {
			t.Errorf("%s: keywords = %v", r.Type, a.Keywords)
		}
		if a.Scores.Passion != r.Percent {
			t.Errorf("%s: passion = %d, want %d", r.Type, a.Scores.Passion, r.Percent)
		}
		if a.Current.Catchphrase == "" || a.Ideal.Catchphrase == "" {
			t.Errorf("%s: empty worldview", r.Type)
		}
		if strings.Count(a.RoadmapAdvice, "・[Point") != 3 {
			t.Errorf("%s: advice = %q", r.Type, a.RoadmapAdvice)
		}
		again := Placeholder(r)
		if again.Scores != a.Scores || again.Keywords[0] != a.Keywords[0] {
			t.Errorf("%s: placeholder not deterministic", r.Type)
		}
	}
}
