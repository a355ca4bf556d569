// Package metrics holds the Prometheus collectors shared by the assessment
// pipeline, the LLM middleware and the notifiers.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry every atelier collector is registered on.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	AssessmentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_assessments_total",
			Help: "Total number of assessments by outcome (analyzed, placeholder, failed)",
		},
		[]string{"outcome"},
	)

	LLMRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atelier_llm_request_duration_seconds",
			Help:    "Duration of LLM provider calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "purpose", "success"},
	)

	PDFRenderDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atelier_pdf_render_duration_seconds",
			Help:    "Duration of PDF report rendering in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	DeliveriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_deliveries_total",
			Help: "Total number of report deliveries per sender",
		},
		[]string{"sender", "success"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Outcome labels for AssessmentsTotal.
const (
	OutcomeAnalyzed    = "analyzed"
	OutcomePlaceholder = "placeholder"
	OutcomeFailed      = "failed"
)

// Bool formats a success label value.
func Bool(ok bool) string {
	return strconv.FormatBool(ok)
}
