package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/config"
	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/notify"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/store"
)

// deps are the collaborators shared by the TUI, serve and report.
type deps struct {
	cfg         *config.Config
	log         *zap.Logger
	store       *store.Store
	renderer    *report.Renderer
	assessments *assessment.Service

	// warning is set when no LLM provider could be built.
	warning string
}

// buildDeps opens the store and wires the pipeline. A missing LLM key is
// not fatal: the analyzer then fails every call, or falls back to the
// sample analysis when allowed.
func buildDeps(ctx context.Context, cfg *config.Config, log *zap.Logger) (*deps, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	renderer, err := report.NewRenderer(cfg.Report)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("report renderer: %w", err)
	}

	d := &deps{cfg: cfg, log: log, store: st, renderer: renderer}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
	if err != nil {
		log.Warn("LLM provider not configured", zap.Error(err))
		d.warning = "No LLM API key configured. Set GEMINI_API_KEY (or another provider key) to analyze your work."
		if cfg.Analysis.AllowFallback {
			d.warning = "No LLM API key configured. A sample analysis will be used."
		}
	}

	analyzer := analysis.NewAnalyzer(provider, cfg.Analysis.Config, log)
	d.assessments = assessment.NewService(analyzer, renderer, st.AssessmentRepo(), buildNotifier(ctx, cfg, log),
		assessment.Config{
			AllowFallback: cfg.Analysis.AllowFallback,
			OutputDir:     cfg.Report.OutputDir,
		}, log)
	return d, nil
}

// buildNotifier creates the enabled senders. A sender that fails to start
// is logged and skipped.
func buildNotifier(ctx context.Context, cfg *config.Config, log *zap.Logger) *notify.Multi {
	var senders []notify.Sender
	if cfg.Email.Enabled {
		s, err := notify.NewSESSender(ctx, cfg.Email)
		if err != nil {
			log.Warn("email delivery disabled", zap.Error(err))
		} else {
			senders = append(senders, s)
		}
	}
	if cfg.Telegram.Enabled {
		s, err := notify.NewTelegramSender(cfg.Telegram)
		if err != nil {
			log.Warn("telegram delivery disabled", zap.Error(err))
		} else {
			senders = append(senders, s)
		}
	}
	return notify.NewMulti(log, senders...)
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", zap.Error(err))
	}
	_ = d.log.Sync()
}
