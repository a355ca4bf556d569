package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry, metrics and logging middleware.
// eventRepo and log may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → metrics → logging → base
	var p Provider = base
	if eventRepo != nil || log != nil {
		p = WithLogging(p, cfg.Provider, eventRepo, log)
	}
	p = WithMetrics(p, cfg.Provider)

	retry := WithRetry(p, cfg.Retry)
	if log != nil {
		retry.OnRetry = func(attempt int, err error, wait time.Duration) {
			log.Info("retrying llm request",
				zap.String("provider", cfg.Provider),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}
	}

	return retry, nil
}
