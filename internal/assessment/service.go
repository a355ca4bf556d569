// Package assessment runs the full pipeline: analysis, PDF, storage and
// delivery.
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/metrics"
	"github.com/abhisek/atelier/internal/notify"
	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/store"
)

// Config holds pipeline settings.
type Config struct {
	// AllowFallback replaces a failed analysis with the placeholder.
	AllowFallback bool

	// OutputDir, when set, receives <id>.pdf for every assessment.
	OutputDir string
}

// Request is one pipeline run.
type Request struct {
	Result quiz.Result
	Past   []analysis.Image
	Future []analysis.Image

	// Recipient is an email address or "tg:<chat-id>". Empty skips delivery.
	Recipient string

	// SubjectID tags LLM events, usually the wizard session ID.
	SubjectID string
}

// Outcome is the result of a pipeline run.
type Outcome struct {
	ID          string
	CreatedAt   time.Time
	Analysis    *analysis.Analysis
	PDF         []byte
	PDFPath     string
	Placeholder bool
	Delivered   []string

	// AnalysisErr is the provider error behind a placeholder outcome.
	AnalysisErr error
	// DeliveryErr is set when a recipient was given but delivery failed.
	DeliveryErr error
}

// AnalysisError wraps a provider failure when no fallback was allowed.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return e.Err.Error() }

func (e *AnalysisError) Unwrap() error { return e.Err }

// Service wires the pipeline stages together.
type Service struct {
	analyzer *analysis.Analyzer
	renderer *report.Renderer
	repo     store.AssessmentRepo
	notifier *notify.Multi
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates a Service. repo, notifier and log may be nil.
func NewService(analyzer *analysis.Analyzer, renderer *report.Renderer, repo store.AssessmentRepo,
	notifier *notify.Multi, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		analyzer: analyzer,
		renderer: renderer,
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// AllowsFallback reports whether failed analyses fall back to the placeholder.
func (s *Service) AllowsFallback() bool {
	return s.cfg.AllowFallback
}

// CanDeliver reports whether some notifier accepts to.
func (s *Service) CanDeliver(to string) bool {
	return s.notifier != nil && s.notifier.Accepts(to)
}

// Run analyzes, renders, saves and delivers one assessment.
func (s *Service) Run(ctx context.Context, req Request) (*Outcome, error) {
	out := &Outcome{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}
	log := s.log.With(zap.String("assessment", out.ID), zap.String("subject", req.SubjectID))

	a, err := s.analyzer.Analyze(ctx, analysis.Input{
		Result:    req.Result,
		Past:      req.Past,
		Future:    req.Future,
		SubjectID: req.SubjectID,
	})
	switch {
	case err == nil:
	case isInputError(err):
		return nil, err
	case s.cfg.AllowFallback:
		log.Warn("analysis failed, using placeholder", zap.Error(err))
		a = analysis.Placeholder(req.Result)
		out.Placeholder = true
		out.AnalysisErr = err
	default:
		metrics.AssessmentsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error("analysis failed", zap.Error(err))
		return nil, &AnalysisError{Err: err}
	}
	out.Analysis = a

	pdf, err := s.renderer.RenderBytes(report.Document{
		Date:        out.CreatedAt,
		Result:      req.Result,
		Analysis:    a,
		Past:        req.Past,
		Future:      req.Future,
		Placeholder: out.Placeholder,
	})
	if err != nil {
		metrics.AssessmentsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}
	out.PDF = pdf

	if s.cfg.OutputDir != "" {
		path, err := report.Save(s.cfg.OutputDir, out.ID, pdf)
		if err != nil {
			log.Warn("failed to save report copy", zap.Error(err))
		} else {
			out.PDFPath = path
		}
	}

	if req.Recipient != "" {
		out.Delivered, out.DeliveryErr = s.deliver(ctx, req, out)
		if out.DeliveryErr != nil {
			log.Warn("report delivery incomplete", zap.String("recipient", req.Recipient), zap.Error(out.DeliveryErr))
		}
	}

	s.save(ctx, log, req, out)

	outcome := metrics.OutcomeAnalyzed
	if out.Placeholder {
		outcome = metrics.OutcomePlaceholder
	}
	metrics.AssessmentsTotal.WithLabelValues(outcome).Inc()
	log.Info("assessment complete",
		zap.String("type", string(req.Result.Type)),
		zap.Bool("placeholder", out.Placeholder),
		zap.Int("pdf_bytes", len(pdf)),
		zap.Strings("delivered", out.Delivered))

	return out, nil
}

func (s *Service) deliver(ctx context.Context, req Request, out *Outcome) ([]string, error) {
	if s.notifier == nil {
		return nil, fmt.Errorf("%q: %w", req.Recipient, notify.ErrNoSender)
	}
	return s.notifier.Send(ctx, notify.Delivery{
		To:      req.Recipient,
		Subject: "Your future roadmap report",
		Body:    deliveryBody(req.Result, out),
		Attachment: notify.Attachment{
			Filename:    report.Filename,
			ContentType: "application/pdf",
			Data:        out.PDF,
		},
	})
}

func (s *Service) save(ctx context.Context, log *zap.Logger, req Request, out *Outcome) {
	if s.repo == nil {
		return
	}
	body, err := json.Marshal(out.Analysis)
	if err != nil {
		log.Error("failed to encode analysis", zap.Error(err))
		return
	}
	rec := &store.AssessmentRecord{
		ID:           out.ID,
		CreatedAt:    out.CreatedAt,
		QuizType:     string(req.Result.Type),
		QuizPercent:  req.Result.Percent,
		TypeACount:   req.Result.TypeACount,
		Keywords:     out.Analysis.Keywords,
		AnalysisJSON: string(body),
		Placeholder:  out.Placeholder,
		PDFPath:      out.PDFPath,
		DeliveredTo:  out.Delivered,
	}
	if err := s.repo.SaveAssessment(ctx, rec); err != nil {
		log.Error("failed to store assessment", zap.Error(err))
	}
}

func deliveryBody(result quiz.Result, out *Outcome) string {
	var b strings.Builder
	b.WriteString("Thank you for taking the creator diagnosis.\n\n")
	fmt.Fprintf(&b, "Type: %s\n", result.Label)
	fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(out.Analysis.Keywords, ", "))
	if out.Placeholder {
		b.WriteString("The AI analysis was unavailable, so the attached report is a sample.\n")
	} else {
		b.WriteString("Your full roadmap is in the attached report.\n")
	}
	return b.String()
}

func isInputError(err error) bool {
	return errors.Is(err, analysis.ErrMissingImages) ||
		errors.Is(err, analysis.ErrTooManyImages) ||
		errors.Is(err, analysis.ErrUnsupportedImage)
}

// Describe returns a user-facing message for a Run error.
func Describe(err error) string {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return "Analysis failed: " + llm.Describe(ae.Err)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
