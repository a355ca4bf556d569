package llm

import (
	"context"
	"time"

	"github.com/abhisek/atelier/internal/metrics"
)

// MetricsProvider observes the duration of every call in the
// atelier_llm_request_duration_seconds histogram.
type MetricsProvider struct {
	inner    Provider
	provider string
}

// WithMetrics wraps a Provider with request duration metrics.
func WithMetrics(p Provider, providerName string) Provider {
	return &MetricsProvider{inner: p, provider: providerName}
}

func (m *MetricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := m.inner.Generate(ctx, req)
	metrics.LLMRequestDuration.
		WithLabelValues(m.provider, PurposeFrom(ctx), metrics.Bool(err == nil)).
		Observe(time.Since(start).Seconds())
	return resp, err
}

func (m *MetricsProvider) ModelID() string {
	return m.inner.ModelID()
}
