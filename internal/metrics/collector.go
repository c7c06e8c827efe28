// Package metrics exposes Prometheus metrics for the generation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeError   = "error"
)

// Collector owns a private registry so tests and multiple servers never collide.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal     *prometheus.CounterVec
	providerCallDuration *prometheus.HistogramVec
	providerErrors       *prometheus.CounterVec
	enhancementFailures  *prometheus.CounterVec
	providerFallbacks    prometheus.Counter
}

// NewCollector registers every metric under namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Generation requests by intent, provider and outcome",
			},
			[]string{"intent", "provider", "outcome"},
		),
		providerCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Provider call duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"provider", "stage"},
		),
		providerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Failed provider calls",
			},
			[]string{"provider", "stage"},
		),
		enhancementFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enhancement_failures_total",
				Help:      "Prompt enhancement calls that failed and fell back to the original prompt",
			},
			[]string{"provider"},
		),
		providerFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fallbacks_total",
				Help:      "Requests naming an unknown provider that were served by the default provider",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordProviderCall observes one call to a provider. stage is "enhance" or
// "generate". Model names come from requests and are only logged.
func (c *Collector) RecordProviderCall(provider, stage string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.providerCallDuration.WithLabelValues(provider, stage).Observe(duration.Seconds())
	if err != nil {
		c.providerErrors.WithLabelValues(provider, stage).Inc()
	}
}

func (c *Collector) RecordGeneration(intent, provider, outcome string) {
	if c == nil {
		return
	}
	c.generationsTotal.WithLabelValues(intent, provider, outcome).Inc()
}

func (c *Collector) RecordEnhancementFailure(provider string) {
	if c == nil {
		return
	}
	c.enhancementFailures.WithLabelValues(provider).Inc()
}

func (c *Collector) RecordProviderFallback() {
	if c == nil {
		return
	}
	c.providerFallbacks.Inc()
}
