package generation

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/metrics"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/postprocess"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/prompt"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sizing"
)

var geminiCaps = providers.Capabilities{ImageInput: true, ImageOutput: true}

func decodeDataURL(t *testing.T, dataURL string) image.Image {
	t.Helper()
	payload, ok := strings.CutPrefix(dataURL, "data:image/png;base64,")
	require.True(t, ok, "unexpected data URL prefix")
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func counterValue(t *testing.T, c *metrics.Collector, name string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestGenerateImagePreset(t *testing.T) {
	gem := &fakeProvider{id: providers.Gemini, caps: geminiCaps}
	gem.respond = func(model string, _ []providers.Content) (*providers.Result, error) {
		return &providers.Result{Parts: []providers.Part{providers.Text("here"), pngPart(t, 300, 300)}, Model: model}, nil
	}
	s := NewService(newFactory(gem), testConfig())

	resp, err := s.GenerateImage(t.Context(), ImageRequest{
		Prompt:  "a desk lamp",
		Quality: QualityFinal,
		Size:    sizing.Spec{Mode: sizing.ModePreset, LongEdge: 1024, AspectRatio: "16:9"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1024, resp.Width)
	assert.Equal(t, 576, resp.Height)
	assert.Equal(t, "gemini-3-pro-image-preview", resp.Model)
	assert.Equal(t, "image/png", resp.SourceMIMEType)
	assert.Empty(t, resp.EnhancedPrompt)
	assert.False(t, resp.Partial)
	assert.Equal(t, image.Rect(0, 0, 1024, 576), decodeDataURL(t, resp.ImageURL).Bounds())

	require.Len(t, gem.calls, 1)
	c := gem.calls[0]
	require.Len(t, c.contents, 2)
	assert.Equal(t, providers.RoleSystem, c.contents[0].Role)
	assert.Equal(t, 0.95, *c.cfg.TopP)
	assert.Equal(t, 40, *c.cfg.TopK)
	assert.Equal(t, 0.4, *c.cfg.Temperature)
	assert.Nil(t, c.cfg.MaxOutputTokens)

	texts := providers.TextParts(c.contents[1:])
	require.Len(t, texts, 1)
	assert.Equal(t, "a desk lamp\n\nOutput constraints: 1024x576px. Fill the frame edge-to-edge. No borders.", texts[0])
}

func TestGenerateImageWithCanvasEnhances(t *testing.T) {
	canvas := providers.ImagePart{MIMEType: "image/png", Data: "Q0FOVkFT"}
	gem := &fakeProvider{id: providers.Gemini, caps: geminiCaps}
	gem.respond = func(model string, contents []providers.Content) (*providers.Result, error) {
		if model == "gemini-2.0-flash-exp" {
			return &providers.Result{Parts: []providers.Part{providers.Text("  a brass desk lamp with a conical shade  ")}}, nil
		}
		return &providers.Result{Parts: []providers.Part{pngPart(t, 64, 64)}}, nil
	}
	s := NewService(newFactory(gem), testConfig())

	resp, err := s.GenerateImage(t.Context(), ImageRequest{
		Prompt:    "a desk lamp",
		Canvas:    &canvas,
		Preset:    "studio",
		Materials: []prompt.Material{{Image: canvas, Weight: 0.8}},
		Size:      sizing.Spec{Mode: sizing.ModeCanvas, Width: 401, Height: 300},
	})
	require.NoError(t, err)

	assert.Equal(t, "a brass desk lamp with a conical shade", resp.EnhancedPrompt)
	assert.Equal(t, 400, resp.Width)
	assert.Equal(t, 300, resp.Height)
	assert.Equal(t, "gemini-2.5-flash-image", resp.Model)
	// strength 80 -> gemini high band
	assert.Equal(t, 0.2, resp.Temperature)

	require.Len(t, gem.calls, 2)
	enhanceCall := gem.calls[0]
	assert.Equal(t, "gemini-2.0-flash-exp", enhanceCall.model)
	assert.Nil(t, enhanceCall.cfg)
	assert.Contains(t, providers.TextParts(enhanceCall.contents)[0], "Environment: ")

	user := lastUser(gem.calls[1])
	require.Len(t, user.Parts, 4)
	assert.Contains(t, user.Parts[0].(providers.TextPart).Text, "Material reference (80%)")
	assert.True(t, strings.HasPrefix(user.Parts[2].(providers.TextPart).Text, "a brass desk lamp with a conical shade\n\nOutput constraints: 400x300px."))
	assert.Equal(t, canvas, user.Parts[3])
}

func TestGenerateImageEnhancementFailureFallsBack(t *testing.T) {
	canvas := providers.ImagePart{MIMEType: "image/png", Data: "Q0FOVkFT"}
	gem := &fakeProvider{id: providers.Gemini, caps: geminiCaps}
	gem.respond = func(model string, _ []providers.Content) (*providers.Result, error) {
		if model == "gemini-2.0-flash-exp" {
			return nil, &providers.ProviderError{Provider: providers.Gemini, StatusCode: 500, Body: "vision down"}
		}
		return &providers.Result{Parts: []providers.Part{pngPart(t, 64, 64)}}, nil
	}
	collector := metrics.NewCollector("test")
	s := NewService(newFactory(gem), testConfig(), WithMetrics(collector))

	resp, err := s.GenerateImage(t.Context(), ImageRequest{
		Prompt: "a desk lamp",
		Canvas: &canvas,
		Size:   sizing.Spec{Mode: sizing.ModePreset, LongEdge: 1024, AspectRatio: "1:1"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.EnhancedPrompt)
	assert.NotEmpty(t, resp.ImageURL)

	texts := providers.TextParts([]providers.Content{lastUser(gem.calls[1])})
	assert.True(t, strings.HasPrefix(texts[0], "a desk lamp\n\nOutput constraints"))

	assert.Equal(t, 1.0, counterValue(t, collector, "test_enhancement_failures_total"))
}

func TestGenerateImageSecondaryIsPartialSuccess(t *testing.T) {
	or := &fakeProvider{
		id:      providers.OpenRouter,
		caps:    providers.Capabilities{ImageInput: true, ImageOutput: false},
		respond: textResult("A minimalist brass desk lamp on a walnut desk, soft studio light"),
	}
	s := NewService(newFactory(or), testConfig())

	resp, err := s.GenerateImage(t.Context(), ImageRequest{
		Prompt:   "a desk lamp",
		Provider: "secondary",
		Size:     sizing.Spec{Mode: sizing.ModePreset, LongEdge: 2048, AspectRatio: "4:3"},
	})
	require.NoError(t, err)

	assert.True(t, resp.Partial)
	assert.Empty(t, resp.ImageURL)
	assert.Equal(t, "A minimalist brass desk lamp on a walnut desk, soft studio light", resp.EnhancedPrompt)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, providers.OpenRouter, resp.Provider)
	assert.Equal(t, 2048, resp.Width)
	assert.Equal(t, 1536, resp.Height)
	require.Len(t, or.calls, 1)
}

func TestGenerateImageUnknownProviderFallsBack(t *testing.T) {
	gem := &fakeProvider{id: providers.Gemini, caps: geminiCaps}
	gem.respond = func(string, []providers.Content) (*providers.Result, error) {
		return &providers.Result{Parts: []providers.Part{pngPart(t, 64, 64)}}, nil
	}
	collector := metrics.NewCollector("test")
	s := NewService(newFactory(gem), testConfig(), WithMetrics(collector))

	resp, err := s.GenerateImage(t.Context(), ImageRequest{Prompt: "x", Provider: "tertiary"})
	require.NoError(t, err)
	assert.Equal(t, providers.Gemini, resp.Provider)
	assert.Equal(t, 1.0, counterValue(t, collector, "test_provider_fallbacks_total"))
}

func TestGenerateImageTruncatesMaterials(t *testing.T) {
	gem := &fakeProvider{id: providers.Gemini, caps: geminiCaps}
	gem.respond = func(string, []providers.Content) (*providers.Result, error) {
		return &providers.Result{Parts: []providers.Part{pngPart(t, 64, 64)}}, nil
	}
	materials := make([]prompt.Material, 11)
	for i := range materials {
		materials[i] = prompt.Material{Image: providers.ImagePart{MIMEType: "image/png", Data: "TUFU"}, Weight: 0.5}
	}

	_, err := NewService(newFactory(gem), testConfig()).GenerateImage(t.Context(), ImageRequest{Prompt: "x", Materials: materials})
	require.NoError(t, err)
	assert.Equal(t, MaxMaterials, countImages(lastUser(gem.calls[0])))
}

func TestGenerateImageErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		_, err := NewService(newFactory(), testConfig()).GenerateImage(t.Context(), ImageRequest{})
		var vErr *ValidationError
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("no image data", func(t *testing.T) {
		gem := &fakeProvider{id: providers.Gemini, caps: geminiCaps, respond: textResult("I cannot draw that")}
		_, err := NewService(newFactory(gem), testConfig()).GenerateImage(t.Context(), ImageRequest{Prompt: "x"})
		var noImage *postprocess.NoImageDataError
		require.True(t, errors.As(err, &noImage))
		assert.Equal(t, providers.Gemini, noImage.Provider)
		assert.Equal(t, "gemini-2.5-flash-image", noImage.Model)
	})

	t.Run("partial with empty answer", func(t *testing.T) {
		or := &fakeProvider{id: providers.OpenRouter, caps: providers.Capabilities{ImageInput: true}, respond: textResult("   ")}
		_, err := NewService(newFactory(or), testConfig()).GenerateImage(t.Context(), ImageRequest{Prompt: "x", Provider: "openrouter"})
		var noContent *providers.NoContentError
		assert.True(t, errors.As(err, &noContent))
	})
}

func seriesCount(t *testing.T, c *metrics.Collector, name string) int {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return len(f.GetMetric())
		}
	}
	return 0
}

func TestProviderCallSeriesIgnoreModelHints(t *testing.T) {
	or := &fakeProvider{id: providers.OpenRouter, caps: providers.Capabilities{ImageInput: true}}
	or.respond = func(string, []providers.Content) (*providers.Result, error) {
		return nil, &providers.ProviderError{Provider: providers.OpenRouter, StatusCode: 400, Body: "bad model"}
	}
	collector := metrics.NewCollector("test")
	s := NewService(newFactory(or), testConfig(), WithMetrics(collector))

	for i := range 50 {
		_, err := s.GenerateMarkup(t.Context(), MarkupRequest{
			Prompt:        "a red button",
			Width:         400,
			Height:        300,
			Provider:      "secondary",
			ProviderModel: fmt.Sprintf("someone/model-%d", i),
		})
		require.Error(t, err)
	}

	assert.Equal(t, 1, seriesCount(t, collector, "test_provider_call_duration_seconds"))
	assert.Equal(t, 50.0, counterValue(t, collector, "test_provider_errors_total"))
}
