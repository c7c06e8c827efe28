package selector

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/config"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/gemini"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/ollama"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/openrouter"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// openRouterAliases maps short model names accepted from clients to OpenRouter model IDs.
var openRouterAliases = map[string]string{
	"glm-4.6v": "z-ai/glm-4.6v",
	"qwen3-vl": "qwen/qwen3-vl-235b-a22b-instruct",
}

var identifiers = map[string]providers.ID{
	"primary":    providers.Gemini,
	"gemini":     providers.Gemini,
	"secondary":  providers.OpenRouter,
	"openrouter": providers.OpenRouter,
	"local":      providers.Ollama,
	"ollama":     providers.Ollama,
}

// Selector builds provider adapters from the configured credentials.
// It holds no per-request state and is safe for concurrent use.
type Selector struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Selector {
	return &Selector{cfg: cfg}
}

// Resolve maps a requested provider identifier to its canonical ID. Empty
// identifiers resolve to the default provider. Unknown identifiers also resolve
// to the default, and fellBack reports that this happened.
func (s *Selector) Resolve(requested string) (id providers.ID, fellBack bool) {
	key := strings.ToLower(strings.TrimSpace(requested))
	if key == "" {
		return providers.Default, false
	}
	if id, ok := identifiers[key]; ok {
		return id, false
	}
	slog.Warn("Unknown provider requested, falling back to default", "requested", requested, "provider", providers.Default)
	return providers.Default, true
}

// New constructs the adapter for id. The returned string is the model the
// adapter will call, after alias and default resolution.
func (s *Selector) New(id providers.ID, modelHint string) (providers.Provider, string, error) {
	modelHint = strings.TrimSpace(modelHint)

	switch id {
	case providers.Gemini:
		if s.cfg.GeminiAPIKey == "" {
			return nil, "", &providers.ConfigurationError{Provider: id, Credential: config.GeminiKeyVar}
		}
		model := modelHint
		if model == "" {
			model = s.cfg.GeminiVisionModel
		}
		return gemini.New(s.cfg.GeminiAPIKey, model), model, nil

	case providers.OpenRouter:
		if s.cfg.OpenRouterAPIKey == "" {
			return nil, "", &providers.ConfigurationError{Provider: id, Credential: config.OpenRouterKeyVar}
		}
		model := s.OpenRouterModel(modelHint)
		return openrouter.New(openrouter.Options{
			APIKey:   s.cfg.OpenRouterAPIKey,
			Model:    model,
			BaseURL:  s.cfg.OpenRouterBaseURL,
			Referer:  s.cfg.OpenRouterReferer,
			Title:    s.cfg.OpenRouterTitle,
			TextOnly: s.cfg.IsTextOnlyOpenRouterModel(model),
			Timeout:  s.cfg.ProviderTimeout,
		}), model, nil

	case providers.Ollama:
		model := modelHint
		if model == "" {
			model = s.cfg.OllamaModel
		}
		return ollama.New(s.cfg.OllamaURL, model, s.cfg.ProviderTimeout), model, nil
	}

	return nil, "", fmt.Errorf("unsupported provider %q", id)
}

// OpenRouterModel resolves an OpenRouter model hint: aliases are expanded and
// an empty hint selects the configured default.
func (s *Selector) OpenRouterModel(hint string) string {
	model := hint
	if model == "" {
		model = s.cfg.OpenRouterDefaultModel
	}
	if model == "" {
		model = "z-ai/glm-4.6v"
	}
	if full, ok := openRouterAliases[model]; ok {
		return full
	}
	return model
}

// Available lists the providers whose credentials are configured, default first.
func (s *Selector) Available() []providers.ID {
	var ids []providers.ID
	if s.cfg.GeminiAPIKey != "" {
		ids = append(ids, providers.Gemini)
	}
	if s.cfg.OpenRouterAPIKey != "" {
		ids = append(ids, providers.OpenRouter)
	}
	if s.cfg.OllamaConfigured {
		ids = append(ids, providers.Ollama)
	}
	return ids
}
