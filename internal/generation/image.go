package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/metrics"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/postprocess"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/prompt"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sampling"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sizing"
)

// Image quality tiers.
const (
	QualityPreview = "preview"
	QualityFinal   = "final"
)

// Sampling settings sent with every image synthesis call.
const (
	imageTopP = 0.95
	imageTopK = 40
)

// ImageRequest asks for a rendered product image.
type ImageRequest struct {
	Prompt string

	// Canvas is the rasterized sketch, nil when the canvas is not used.
	Canvas *providers.ImagePart

	Quality   string
	Preset    string
	Materials []prompt.Material
	Size      sizing.Spec

	Provider      string
	ProviderModel string
}

// ImageResponse is either a generated image or, when Partial is set, only an
// enhanced prompt from a provider that cannot produce images.
type ImageResponse struct {
	ImageURL       string
	Model          string
	EnhancedPrompt string
	Width          int
	Height         int
	SourceMIMEType string
	Provider       providers.ID
	Temperature    float64

	Partial bool
	Message string
}

// GenerateImage runs the image pipeline. With a sketch the prompt is first
// enhanced by a vision call; a failed enhancement falls back to the original
// prompt. The returned image is always a PNG of exactly the resolved size.
func (s *Service) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &ValidationError{Field: "prompt", Message: "Prompt is required"}
	}

	id := s.resolve(req.Provider)
	outcome := metrics.OutcomeError
	defer func() { s.metrics.RecordGeneration("image", string(id), outcome) }()

	materials := req.Materials
	if len(materials) > MaxMaterials {
		slog.Warn("Dropping extra material references", "received", len(materials), "kept", MaxMaterials)
		materials = materials[:MaxMaterials]
	}

	provider, model, err := s.factory.New(id, s.imageModelHint(id, req))
	if err != nil {
		return nil, err
	}

	size := sizing.Resolve(req.Size)
	strength := ImageStrength(materials)
	temperature := s.table.Temperature(id, model, strength)
	basePrompt := prompt.WithLighting(req.Prompt, req.Preset)

	if !provider.Capabilities().ImageOutput {
		resp, err := s.enhanceOnly(ctx, provider, model, basePrompt, req.Canvas, materials, temperature)
		if err != nil {
			return nil, err
		}
		resp.Width, resp.Height = size.Width, size.Height
		outcome = metrics.OutcomePartial
		return resp, nil
	}

	finalPrompt := basePrompt
	if req.Canvas != nil {
		enhanced, err := s.enhance(ctx, id, provider, model, basePrompt, *req.Canvas)
		if err != nil {
			var enhErr *EnhancementError
			if errors.As(err, &enhErr) {
				s.metrics.RecordEnhancementFailure(string(id))
			}
			slog.Warn("Prompt enhancement failed, using original prompt", "provider", id, "err", err)
		} else {
			finalPrompt = enhanced
		}
	}

	parts := prompt.Image(prompt.ImageInput{
		Prompt:    prompt.ImageMainPrompt(finalPrompt, size.Width, size.Height),
		Materials: materials,
		Canvas:    req.Canvas,
	})
	contents := []providers.Content{
		{Role: providers.RoleSystem, Parts: []providers.Part{providers.Text(prompt.ProductSystemInstruction)}},
		userContent(parts),
	}

	slog.Info("Generating image", "provider", id, "model", model, "width", size.Width, "height", size.Height, "materials", len(materials), "temperature", temperature)

	result, err := s.call(ctx, provider, model, "generate", contents, &providers.GenerationConfig{
		Temperature: providers.Float64(temperature),
		TopP:        providers.Float64(imageTopP),
		TopK:        providers.Int(imageTopK),
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	img, err := s.images.Process(ctx, result, size.Width, size.Height)
	if err != nil {
		var noImage *postprocess.NoImageDataError
		if errors.As(err, &noImage) {
			noImage.Provider = id
			if noImage.Model == "" {
				noImage.Model = model
			}
		}
		return nil, err
	}

	resp := &ImageResponse{
		ImageURL:       img.DataURL(),
		Model:          model,
		Width:          img.Width,
		Height:         img.Height,
		SourceMIMEType: img.SourceMIMEType,
		Provider:       id,
		Temperature:    temperature,
	}
	if finalPrompt != req.Prompt {
		resp.EnhancedPrompt = finalPrompt
	}

	outcome = metrics.OutcomeSuccess
	return resp, nil
}

func (s *Service) imageModelHint(id providers.ID, req ImageRequest) string {
	if req.ProviderModel != "" || id != providers.Gemini {
		return req.ProviderModel
	}
	if req.Quality == QualityFinal {
		return s.cfg.GeminiImageFinalModel
	}
	return s.cfg.GeminiImagePreviewModel
}

// enhance asks a vision model to fold the sketch into the prompt. Gemini uses
// its dedicated vision model; other providers reuse the main adapter.
func (s *Service) enhance(ctx context.Context, id providers.ID, main providers.Provider, mainModel, basePrompt string, canvas providers.ImagePart) (string, error) {
	enhancer, model := main, mainModel
	if id == providers.Gemini {
		var err error
		enhancer, model, err = s.factory.New(id, s.cfg.GeminiVisionModel)
		if err != nil {
			return "", &EnhancementError{Provider: id, Model: s.cfg.GeminiVisionModel, Err: err}
		}
	}

	contents := []providers.Content{userContent(prompt.Enhancement(basePrompt, canvas))}
	result, err := s.call(ctx, enhancer, model, "enhance", contents, nil)
	if err != nil {
		return "", &EnhancementError{Provider: id, Model: model, Err: err}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &EnhancementError{Provider: id, Model: model, Err: &providers.NoContentError{Provider: id, Model: model}}
	}

	slog.Debug("Enhanced prompt with canvas", "provider", id, "model", model, "prompt", text)
	return text, nil
}

// enhanceOnly serves an image request on a provider without image output: the
// provider writes a detailed prompt and no image is produced.
func (s *Service) enhanceOnly(ctx context.Context, provider providers.Provider, model, basePrompt string, canvas *providers.ImagePart, materials []prompt.Material, temperature float64) (*ImageResponse, error) {
	id := provider.Name()
	contents := []providers.Content{userContent(prompt.EnhancementFallback(basePrompt, canvas, materials))}

	slog.Info("Provider cannot generate images, returning enhanced prompt only", "provider", id, "model", model)

	result, err := s.call(ctx, provider, model, "generate", contents, &providers.GenerationConfig{
		Temperature: providers.Float64(temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("prompt enhancement failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, &providers.NoContentError{Provider: id, Model: model}
	}

	return &ImageResponse{
		Model:          model,
		EnhancedPrompt: text,
		Provider:       id,
		Temperature:    temperature,
		Partial:        true,
		Message:        fmt.Sprintf("%s cannot generate images; no image was produced. Use the enhanced prompt with an image-capable provider.", id),
	}, nil
}

// ImageStrength derives the image temperature strength from the strongest
// material weight, or the default without materials.
func ImageStrength(materials []prompt.Material) int {
	if len(materials) == 0 {
		return sampling.DefaultStrength
	}
	strongest := 0.0
	for _, m := range materials {
		strongest = math.Max(strongest, m.Weight)
	}
	return sampling.ClampStrength(int(math.Round(strongest * 100)))
}
