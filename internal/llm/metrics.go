package llm

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avika_llm_requests_total",
			Help: "Total number of generative-model requests.",
		},
		[]string{"provider", "model", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avika_llm_request_duration_seconds",
			Help:    "Duration of generative-model requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
)

// Instrumented records request counts and latency around a Generator.
type Instrumented struct {
	next     Generator
	provider string
	model    string
}

// Instrument wraps g with Prometheus metrics.
func Instrument(g Generator, provider, model string) *Instrumented {
	if provider == "" {
		provider = string(ProviderGemini)
	}
	return &Instrumented{next: g, provider: provider, model: model}
}

// Generate implements Generator.
func (i *Instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.next.Generate(ctx, prompt)
	requestDuration.WithLabelValues(i.provider, i.model).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(i.provider, i.model, status(err)).Inc()
	return text, err
}

// Model returns the wrapped backend's model name.
func (i *Instrumented) Model() string { return i.model }

// Unwrap returns the wrapped backend.
func (i *Instrumented) Unwrap() Generator { return i.next }

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyResponse):
		return "error_empty_response"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "error_timeout"
	default:
		return "error"
	}
}
