package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/metrics"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/postprocess"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/prompt"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sampling"
)

const markupMaxOutputTokens = 16384

// Markup model tiers.
const (
	ModelFast    = "fast"
	ModelQuality = "quality"
)

// MarkupRequest asks for a Tailwind HTML snippet.
type MarkupRequest struct {
	Prompt string

	// Canvas is the rasterized sketch, nil when the canvas is not used.
	Canvas *providers.ImagePart

	// Model is "fast" or "quality" ("pro" is accepted as quality).
	Model string

	References []providers.ImagePart

	Width  int
	Height int

	Provider      string
	ProviderModel string

	// Strengths are 0-100; nil means unset.
	CanvasStrength    *int
	ReferenceStrength *int
}

type MarkupResponse struct {
	UICode      string
	Width       int
	Height      int
	Provider    providers.ID
	Model       string
	Temperature float64
}

// GenerateMarkup runs the markup pipeline: prompt assembly, one provider call
// and fence stripping. The output size is the caller's canvas size.
func (s *Service) GenerateMarkup(ctx context.Context, req MarkupRequest) (*MarkupResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &ValidationError{Field: "prompt", Message: "Prompt is required"}
	}
	if req.Width <= 0 || req.Height <= 0 {
		return nil, &ValidationError{Field: "canvasDimensions", Message: "canvasDimensions with a positive width and height are required"}
	}

	id := s.resolve(req.Provider)
	outcome := metrics.OutcomeError
	defer func() { s.metrics.RecordGeneration("markup", string(id), outcome) }()

	references := req.References
	if len(references) > MaxReferences {
		slog.Warn("Dropping extra reference images", "received", len(references), "kept", MaxReferences)
		references = references[:MaxReferences]
	}

	provider, model, err := s.factory.New(id, s.markupModelHint(id, req))
	if err != nil {
		return nil, err
	}

	canvasStrength := strengthOr(req.CanvasStrength)
	referenceStrength := strengthOr(req.ReferenceStrength)
	strength := MarkupStrength(req.Canvas != nil, canvasStrength, len(references) > 0, referenceStrength)
	temperature := s.table.Temperature(id, model, strength)

	parts := prompt.Markup(prompt.MarkupInput{
		Prompt:            req.Prompt,
		Canvas:            req.Canvas,
		CanvasStrength:    canvasStrength,
		References:        references,
		ReferenceStrength: referenceStrength,
		Width:             req.Width,
		Height:            req.Height,
	})

	slog.Info("Generating markup", "provider", id, "model", model, "strength", strength, "temperature", temperature, "references", len(references), "canvas", req.Canvas != nil)

	result, err := s.call(ctx, provider, model, "generate", []providers.Content{userContent(parts)}, &providers.GenerationConfig{
		Temperature:     providers.Float64(temperature),
		MaxOutputTokens: providers.Int(markupMaxOutputTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("markup generation failed: %w", err)
	}

	code := postprocess.StripFences(result.Text())
	if code == "" {
		return nil, &providers.NoContentError{Provider: id, Model: model}
	}

	outcome = metrics.OutcomeSuccess
	return &MarkupResponse{
		UICode:      code,
		Width:       req.Width,
		Height:      req.Height,
		Provider:    id,
		Model:       model,
		Temperature: temperature,
	}, nil
}

func (s *Service) markupModelHint(id providers.ID, req MarkupRequest) string {
	if req.ProviderModel != "" || id != providers.Gemini {
		return req.ProviderModel
	}
	switch strings.ToLower(req.Model) {
	case ModelQuality, "pro":
		return s.cfg.GeminiMarkupQualityModel
	default:
		return s.cfg.GeminiMarkupFastModel
	}
}

// MarkupStrength is the strength that drives the markup temperature: the
// strongest of the inputs actually present, or the default when none are.
func MarkupStrength(canvasUsed bool, canvasStrength int, referencesPresent bool, referenceStrength int) int {
	strength := -1
	if canvasUsed {
		strength = max(strength, sampling.ClampStrength(canvasStrength))
	}
	if referencesPresent {
		strength = max(strength, sampling.ClampStrength(referenceStrength))
	}
	if strength < 0 {
		return sampling.DefaultStrength
	}
	return strength
}

func strengthOr(v *int) int {
	if v == nil {
		return sampling.DefaultStrength
	}
	return sampling.ClampStrength(*v)
}
