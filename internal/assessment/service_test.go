package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/notify"
	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/store"
)

const analysisJSON = `{
	"five_keywords": ["tide", "salt", "glass", "dawn", "hush"],
	"analysis_scores": {"originality": 80, "technique": 70, "passion": 90, "market": 60, "potential": 85},
	"current_worldview": {"catchphrase": "Salt on glass", "features": "Cool blues and soft edges."},
	"ideal_worldview": {"catchphrase": "Dawn over the harbor", "features": "Warmer light, bolder scale."},
	"roadmap_advice": "・[Point 1]: Warm the palette.\n・[Point 2]: Scale up.\n・[Point 3]: Keep the hush.",
	"roadmap_steps": ["Paint one sunrise study"]
}`

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Delivery
	err  error
}

func (r *recordingSender) Name() string { return "recorder" }

func (r *recordingSender) Accepts(to string) bool { return strings.Contains(to, "@") }

func (r *recordingSender) Send(_ context.Context, d notify.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, d)
	return r.err
}

func testImage(t *testing.T) analysis.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 6))); err != nil {
		t.Fatal(err)
	}
	img, err := analysis.DecodeImage("work.png", buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	return img
}

type fixture struct {
	provider *llm.MockProvider
	store    *store.Store
	sender   *recordingSender
	svc      *Service
	outDir   string
}

func newFixture(t *testing.T, cfg Config, responses ...llm.MockResponse) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	renderer, err := report.NewRenderer(report.Config{})
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		provider: llm.NewMockProvider(responses...),
		store:    st,
		sender:   &recordingSender{},
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(t.TempDir(), "reports")
	}
	f.outDir = cfg.OutputDir

	analyzer := analysis.NewAnalyzer(f.provider, analysis.DefaultConfig(), nil)
	f.svc = NewService(analyzer, renderer, st.AssessmentRepo(), notify.NewMulti(nil, f.sender), cfg, nil)
	return f
}

func (f *fixture) request(t *testing.T) Request {
	img := testImage(t)
	return Request{
		Result:    quiz.NewResult(22),
		Past:      []analysis.Image{img, img},
		Future:    []analysis.Image{img},
		SubjectID: "session-1",
	}
}

func TestRun_Success(t *testing.T) {
	f := newFixture(t, Config{}, llm.MockResponse{Content: json.RawMessage(analysisJSON)})
	ctx := t.Context()

	out, err := f.svc.Run(ctx, f.request(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Placeholder || out.AnalysisErr != nil {
		t.Errorf("unexpected placeholder outcome: %+v", out)
	}
	if out.Analysis.Keywords[0] != "tide" {
		t.Errorf("keywords = %v", out.Analysis.Keywords)
	}
	if !bytes.HasPrefix(out.PDF, []byte("%PDF-")) {
		t.Error("PDF not rendered")
	}
	if out.PDFPath != filepath.Join(f.outDir, out.ID+".pdf") {
		t.Errorf("PDFPath = %q", out.PDFPath)
	}
	if _, err := os.Stat(out.PDFPath); err != nil {
		t.Errorf("report copy missing: %v", err)
	}

	rec, err := f.store.AssessmentRepo().GetAssessment(ctx, out.ID)
	if err != nil || rec == nil {
		t.Fatalf("GetAssessment: %v, %v", rec, err)
	}
	if rec.QuizType != string(quiz.TypeIntuitive) || rec.QuizPercent != 73 || rec.TypeACount != 22 {
		t.Errorf("record quiz fields = %+v", rec)
	}
	if rec.Placeholder {
		t.Error("record marked as placeholder")
	}
	var stored analysis.Analysis
	if err := json.Unmarshal([]byte(rec.AnalysisJSON), &stored); err != nil {
		t.Fatalf("stored analysis: %v", err)
	}
	if stored.Ideal.Catchphrase != "Dawn over the harbor" {
		t.Errorf("stored analysis = %+v", stored)
	}

	if f.provider.CallCount() != 1 {
		t.Errorf("provider calls = %d", f.provider.CallCount())
	}
}

func TestRun_FallbackToPlaceholder(t *testing.T) {
	f := newFixture(t, Config{AllowFallback: true}, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	out, err := f.svc.Run(t.Context(), f.request(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Placeholder {
		t.Fatal("expected placeholder outcome")
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(out.AnalysisErr, &unavail) {
		t.Errorf("AnalysisErr = %v", out.AnalysisErr)
	}
	if out.Analysis.Scores.Passion != 73 {
		t.Errorf("placeholder passion = %d", out.Analysis.Scores.Passion)
	}

	rec, _ := f.store.AssessmentRepo().GetAssessment(t.Context(), out.ID)
	if rec == nil || !rec.Placeholder {
		t.Errorf("record = %+v, want placeholder", rec)
	}
}

func TestRun_FailureWithoutFallback(t *testing.T) {
	f := newFixture(t, Config{}, llm.MockResponse{Err: &llm.ErrRateLimit{}})

	out, err := f.svc.Run(t.Context(), f.request(t))
	if out != nil {
		t.Errorf("outcome = %+v, want nil", out)
	}
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AnalysisError", err)
	}
	if !strings.Contains(Describe(err), "rate limiting") {
		t.Errorf("Describe = %q", Describe(err))
	}

	n, err := f.store.AssessmentRepo().CountAssessments(t.Context())
	if err != nil || n != 0 {
		t.Errorf("assessments = %d, %v; want none", n, err)
	}
}

func TestRun_InputErrorsSkipFallback(t *testing.T) {
	f := newFixture(t, Config{AllowFallback: true})

	req := f.request(t)
	req.Future = nil
	_, err := f.svc.Run(t.Context(), req)
	if !errors.Is(err, analysis.ErrMissingImages) {
		t.Fatalf("err = %v, want ErrMissingImages", err)
	}
	if f.provider.CallCount() != 0 {
		t.Error("provider called for invalid input")
	}
}

func TestRun_Delivery(t *testing.T) {
	f := newFixture(t, Config{}, llm.MockResponse{Content: json.RawMessage(analysisJSON)})

	req := f.request(t)
	req.Recipient = "artist@example.com"
	out, err := f.svc.Run(t.Context(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(out.Delivered) != 1 || out.Delivered[0] != "recorder" || out.DeliveryErr != nil {
		t.Errorf("delivered = %v, err = %v", out.Delivered, out.DeliveryErr)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent = %d", len(f.sender.sent))
	}
	d := f.sender.sent[0]
	if d.Attachment.Filename != report.Filename || !bytes.Equal(d.Attachment.Data, out.PDF) {
		t.Errorf("attachment = %s (%d bytes)", d.Attachment.Filename, len(d.Attachment.Data))
	}
	if !strings.Contains(d.Body, "tide, salt") {
		t.Errorf("body = %q", d.Body)
	}

	rec, _ := f.store.AssessmentRepo().GetAssessment(t.Context(), out.ID)
	if rec == nil || len(rec.DeliveredTo) != 1 {
		t.Errorf("record delivered = %+v", rec)
	}
}

func TestRun_DeliveryFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, Config{}, llm.MockResponse{Content: json.RawMessage(analysisJSON)})
	f.sender.err = errors.New("mailbox full")

	req := f.request(t)
	req.Recipient = "artist@example.com"
	out, err := f.svc.Run(t.Context(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.DeliveryErr == nil || len(out.Delivered) != 0 {
		t.Errorf("delivered = %v, err = %v", out.Delivered, out.DeliveryErr)
	}

	// Unknown recipient kind.
	f.provider.AddResponse(llm.MockResponse{Content: json.RawMessage(analysisJSON)})
	req.Recipient = "tg:42"
	out, err = f.svc.Run(t.Context(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(out.DeliveryErr, notify.ErrNoSender) {
		t.Errorf("DeliveryErr = %v, want ErrNoSender", out.DeliveryErr)
	}
}

func TestCanDeliver(t *testing.T) {
	f := newFixture(t, Config{})
	if !f.svc.CanDeliver("a@example.com") || f.svc.CanDeliver("tg:1") {
		t.Error("CanDeliver does not follow the notifiers")
	}

	bare := NewService(nil, nil, nil, nil, Config{}, nil)
	if bare.CanDeliver("a@example.com") || bare.AllowsFallback() {
		t.Error("service without notifiers should not deliver")
	}
}
