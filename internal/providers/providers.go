package providers

import (
	"context"
)

// ID identifies a backend AI service.
type ID string

const (
	Gemini     ID = "gemini"
	OpenRouter ID = "openrouter"
	Ollama     ID = "ollama"
)

// Default is the provider used when a request names none (or an unknown one).
const Default = Gemini

func (id ID) String() string {
	return string(id)
}

// Capabilities declares which Part variants an adapter preserves.
//
// ImageInput=false means every ImagePart sent to the adapter is replaced by a
// textual placeholder before it reaches the backend. ImageOutput=false means the
// backend never returns inline binary, so callers must not wait for an ImagePart.
type Capabilities struct {
	ImageInput  bool
	ImageOutput bool
}

// Provider defines the interface for a backend AI service
type Provider interface {
	// GenerateContent sends the ordered contents to the backend and returns its
	// normalized answer. cfg may be nil; nil fields inside cfg are never sent.
	GenerateContent(ctx context.Context, contents []Content, cfg *GenerationConfig) (*Result, error)

	// Name returns the canonical provider identifier.
	Name() ID

	// Capabilities reports the degradations applied by this adapter.
	Capabilities() Capabilities
}
