package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/quiz"
)

// Config holds analysis request settings.
type Config struct {
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns sensible defaults for the analysis request.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}
}

// Input is everything one analysis needs.
type Input struct {
	Result quiz.Result
	Past   []Image
	Future []Image

	// SubjectID tags the LLM event with the session or assessment ID.
	SubjectID string
}

// Analyzer turns quiz results and images into an Analysis.
type Analyzer struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil provider makes every call fail
// with llm.ErrNotConfigured.
func NewAnalyzer(provider llm.Provider, cfg Config, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{provider: provider, cfg: cfg, log: log}
}

// Configured reports whether a provider is available.
func (a *Analyzer) Configured() bool {
	return a.provider != nil
}

// Analyze sends the prompt and images to the provider and returns the
// normalized analysis.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Analysis, error) {
	if err := CheckCounts(in.Past, in.Future); err != nil {
		return nil, err
	}
	for _, img := range append(append([]Image{}, in.Past...), in.Future...) {
		if img.MIMEType != "image/jpeg" && img.MIMEType != "image/png" {
			return nil, fmt.Errorf("%s: %w", img.Name, ErrUnsupportedImage)
		}
	}
	if a.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeWorldview)
	if in.SubjectID != "" {
		ctx = llm.WithSubject(ctx, in.SubjectID)
	}

	images := make([]llm.Image, 0, len(in.Past)+len(in.Future))
	for _, img := range in.Past {
		images = append(images, img.LLM())
	}
	for _, img := range in.Future {
		images = append(images, img.LLM())
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: BuildPrompt(in.Result, len(in.Past), len(in.Future)),
			Images:  images,
		}},
		Schema:      Schema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}

	start := time.Now()
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("worldview analysis: %w", err)
	}

	out, err := Decode(resp.Content)
	if err != nil {
		return nil, err
	}

	a.log.Debug("analysis complete",
		zap.String("subject", in.SubjectID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Strings("keywords", out.Keywords))

	return out, nil
}

// Decode parses and normalizes an analysis JSON document.
func Decode(raw []byte) (*Analysis, error) {
	var out Analysis
	if err := json.Unmarshal(llm.StripCodeFence(raw), &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("parse analysis: %w", err)}
	}
	Normalize(&out)
	return &out, nil
}
