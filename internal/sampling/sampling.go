// Package sampling maps caller-supplied strength values to sampling temperatures.
//
// Different models stay reliable at different temperatures, so the mapping is a
// per-(provider, model) step function over three strength bands. The table is
// plain data: it can be replaced from YAML and never touches the network.
package sampling

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// Band is one of the three strength bands.
type Band int

const (
	Low    Band = iota // strength <= 40
	Medium             // 41..70
	High               // > 70
)

func (b Band) String() string {
	switch b {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// BandOf returns the band a 0-100 strength falls in. Out of range values are clamped first.
func BandOf(strength int) Band {
	strength = ClampStrength(strength)
	switch {
	case strength > 70:
		return High
	case strength > 40:
		return Medium
	default:
		return Low
	}
}

// DefaultStrength is used when a request carries no strength at all.
const DefaultStrength = 50

// ClampStrength bounds a strength to 0-100.
func ClampStrength(strength int) int {
	return max(0, min(100, strength))
}

// Bands holds the temperature used for each strength band.
type Bands struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
	Low    float64 `yaml:"low"`
}

// For returns the temperature for strength.
func (b Bands) For(strength int) float64 {
	switch BandOf(strength) {
	case High:
		return b.High
	case Medium:
		return b.Medium
	default:
		return b.Low
	}
}

func (b Bands) validate() error {
	for _, v := range []float64{b.High, b.Medium, b.Low} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("temperature %v is outside (0, 1]", v)
		}
	}
	if b.High > b.Medium || b.Medium > b.Low {
		return fmt.Errorf("temperatures must not decrease as strength decreases: high=%v medium=%v low=%v", b.High, b.Medium, b.Low)
	}
	return nil
}

// ProviderBands are the bands of one provider: a default plus per-model overrides.
type ProviderBands struct {
	Default Bands            `yaml:"default"`
	Models  map[string]Bands `yaml:"models,omitempty"`
}

// Table is the full strength-to-temperature policy.
type Table struct {
	// Fallback applies to providers missing from Providers.
	Fallback  Bands                         `yaml:"fallback"`
	Providers map[providers.ID]ProviderBands `yaml:"providers"`
}

// DefaultTable returns the built-in policy.
func DefaultTable() *Table {
	return &Table{
		Fallback: Bands{High: 0.3, Medium: 0.5, Low: 0.7},
		Providers: map[providers.ID]ProviderBands{
			providers.Gemini: {
				Default: Bands{High: 0.2, Medium: 0.4, Low: 0.7},
				Models: map[string]Bands{
					"gemini-3-pro-preview": {High: 0.3, Medium: 0.5, Low: 0.8},
				},
			},
			providers.OpenRouter: {
				Default: Bands{High: 0.3, Medium: 0.5, Low: 0.7},
				Models: map[string]Bands{
					"z-ai/glm-4.6v":                    {High: 0.4, Medium: 0.6, Low: 0.8},
					"qwen/qwen3-vl-235b-a22b-instruct": {High: 0.2, Medium: 0.4, Low: 0.7},
				},
			},
			providers.Ollama: {
				Default: Bands{High: 0.2, Medium: 0.4, Low: 0.7},
			},
		},
	}
}

// Temperature looks up the temperature for (provider, model, strength). Unknown
// models use the provider default and unknown providers use the fallback.
func (t *Table) Temperature(provider providers.ID, model string, strength int) float64 {
	return t.bands(provider, model).For(strength)
}

func (t *Table) bands(provider providers.ID, model string) Bands {
	p, ok := t.Providers[provider]
	if !ok {
		return t.Fallback
	}
	if b, ok := p.Models[model]; ok {
		return b
	}
	return p.Default
}

// Validate checks that every band value is in (0, 1] and that temperatures
// never rise with strength.
func (t *Table) Validate() error {
	if err := t.Fallback.validate(); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	for id, p := range t.Providers {
		if err := p.Default.validate(); err != nil {
			return fmt.Errorf("%s default: %w", id, err)
		}
		for model, b := range p.Models {
			if err := b.validate(); err != nil {
				return fmt.Errorf("%s model %s: %w", id, model, err)
			}
		}
	}
	return nil
}

// LoadTable reads a YAML table from path and validates it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sampling table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse sampling table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling table: %w", err)
	}
	return &t, nil
}
