package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// LookupEnv matches os.LookupEnv so tests can inject their own environment.
type LookupEnv func(key string) (string, bool)

// Env reads the process environment.
var Env LookupEnv = os.LookupEnv

const (
	GeminiKeyVar     = "GOOGLE_GEMINI_API_KEY"
	OpenRouterKeyVar = "OPENROUTER_API_KEY"
)

// Config holds every operator-side setting of the service.
type Config struct {
	GeminiAPIKey             string
	GeminiVisionModel        string
	GeminiImagePreviewModel  string
	GeminiImageFinalModel    string
	GeminiMarkupFastModel    string
	GeminiMarkupQualityModel string

	OpenRouterAPIKey         string
	OpenRouterBaseURL        string
	OpenRouterDefaultModel   string
	OpenRouterTextOnlyModels []string
	OpenRouterReferer        string
	OpenRouterTitle          string

	OllamaURL        string
	OllamaConfigured bool
	OllamaModel      string

	ProviderTimeout   time.Duration
	SamplingTablePath string
}

// Load builds a Config from the given environment lookup, applying defaults.
func Load(lookup LookupEnv) *Config {
	if lookup == nil {
		lookup = Env
	}
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		GeminiAPIKey:             get(GeminiKeyVar, get("GEMINI_API_KEY", "")),
		GeminiVisionModel:        get("GEMINI_VISION_MODEL", "gemini-2.0-flash-exp"),
		GeminiImagePreviewModel:  get("GEMINI_IMAGE_PREVIEW_MODEL", "gemini-2.5-flash-image"),
		GeminiImageFinalModel:    get("GEMINI_IMAGE_FINAL_MODEL", "gemini-3-pro-image-preview"),
		GeminiMarkupFastModel:    get("GEMINI_MARKUP_FAST_MODEL", "gemini-3-flash-preview"),
		GeminiMarkupQualityModel: get("GEMINI_MARKUP_QUALITY_MODEL", "gemini-3-pro-preview"),

		OpenRouterAPIKey:       get(OpenRouterKeyVar, ""),
		OpenRouterBaseURL:      strings.TrimRight(get("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"), "/"),
		OpenRouterDefaultModel: get("OPENROUTER_DEFAULT_MODEL", "z-ai/glm-4.6v"),
		OpenRouterReferer:      get("OPENROUTER_REFERER", "https://ai-ui-mockup-creator.vercel.app"),
		OpenRouterTitle:        get("OPENROUTER_TITLE", "AI UI Mockup Creator"),

		OllamaModel: get("OLLAMA_MODEL", "mistral-small3.2:24b"),

		SamplingTablePath: get("SAMPLING_TABLE", ""),
	}

	for _, m := range strings.Split(get("OPENROUTER_TEXT_ONLY_MODELS", ""), ",") {
		if m = strings.TrimSpace(m); m != "" {
			cfg.OpenRouterTextOnlyModels = append(cfg.OpenRouterTextOnlyModels, m)
		}
	}

	ollamaURL := get("OLLAMA_URL", get("OLLAMA_HOST", ""))
	cfg.OllamaConfigured = ollamaURL != ""
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	cfg.OllamaURL = strings.TrimRight(ollamaURL, "/")

	if raw := get("PROVIDER_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			slog.Warn("Ignoring invalid PROVIDER_TIMEOUT", "value", raw, "err", err)
		} else {
			cfg.ProviderTimeout = d
		}
	}

	return cfg
}

// IsTextOnlyOpenRouterModel reports whether model was configured as lacking image input.
func (c *Config) IsTextOnlyOpenRouterModel(model string) bool {
	for _, m := range c.OpenRouterTextOnlyModels {
		if m == model {
			return true
		}
	}
	return false
}
