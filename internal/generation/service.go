// Package generation runs the image and markup generation pipelines.
package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/config"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/metrics"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/postprocess"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sampling"
)

const (
	MaxMaterials  = 8
	MaxReferences = 5
)

// ProviderFactory resolves provider identifiers and builds adapters.
// *selector.Selector is the production implementation.
type ProviderFactory interface {
	Resolve(requested string) (providers.ID, bool)
	New(id providers.ID, modelHint string) (providers.Provider, string, error)
}

// Service runs generation requests. It keeps no per-request state and is safe
// for concurrent use.
type Service struct {
	factory ProviderFactory
	cfg     *config.Config
	table   *sampling.Table
	images  *postprocess.ImageProcessor
	metrics *metrics.Collector
}

type Option func(*Service)

// WithSamplingTable replaces the default strength-to-temperature table.
func WithSamplingTable(t *sampling.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

func WithImageProcessor(p *postprocess.ImageProcessor) Option {
	return func(s *Service) {
		if p != nil {
			s.images = p
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = c
	}
}

// NewService returns a Service that builds adapters through factory.
func NewService(factory ProviderFactory, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		factory: factory,
		cfg:     cfg,
		table:   sampling.DefaultTable(),
		images:  postprocess.NewImageProcessor(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) resolve(requested string) providers.ID {
	id, fellBack := s.factory.Resolve(requested)
	if fellBack {
		s.metrics.RecordProviderFallback()
	}
	return id
}

// call sends one request to p and records its duration.
func (s *Service) call(ctx context.Context, p providers.Provider, model, stage string, contents []providers.Content, cfg *providers.GenerationConfig) (*providers.Result, error) {
	start := time.Now()
	result, err := p.GenerateContent(ctx, contents, cfg)
	duration := time.Since(start)
	s.metrics.RecordProviderCall(string(p.Name()), stage, duration, err)
	if err != nil {
		slog.Debug("Provider call failed", "provider", p.Name(), "model", model, "stage", stage, "duration", duration, "err", err)
	}
	return result, err
}

func userContent(parts []providers.Part) providers.Content {
	return providers.Content{Role: providers.RoleUser, Parts: parts}
}
