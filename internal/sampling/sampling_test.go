package sampling

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

func TestBandOf(t *testing.T) {
	tests := []struct {
		strength int
		want     Band
	}{
		{-10, Low},
		{0, Low},
		{40, Low},
		{41, Medium},
		{70, Medium},
		{71, High},
		{100, High},
		{250, High},
	}

	for _, tt := range tests {
		if got := BandOf(tt.strength); got != tt.want {
			t.Errorf("BandOf(%d) = %s, want %s", tt.strength, got, tt.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		provider providers.ID
		model    string
		strength int
		want     float64
	}{
		{"gemini default high", providers.Gemini, "gemini-3-flash-preview", 90, 0.2},
		{"gemini default medium", providers.Gemini, "gemini-3-flash-preview", 50, 0.4},
		{"gemini default low", providers.Gemini, "gemini-3-flash-preview", 10, 0.7},
		{"gemini pro override", providers.Gemini, "gemini-3-pro-preview", 90, 0.3},
		{"glm override low", providers.OpenRouter, "z-ai/glm-4.6v", 40, 0.8},
		{"openrouter unknown model", providers.OpenRouter, "vendor/unknown", 71, 0.3},
		{"ollama", providers.Ollama, "llava", 41, 0.4},
		{"unknown provider", providers.ID("other"), "", 100, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Temperature(tt.provider, tt.model, tt.strength); got != tt.want {
				t.Errorf("Temperature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultTableIsValid(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
}

func TestTemperatureProperties(t *testing.T) {
	table := DefaultTable()
	ids := []providers.ID{providers.Gemini, providers.OpenRouter, providers.Ollama, "unknown"}
	models := []string{"", "gemini-3-pro-preview", "z-ai/glm-4.6v", "qwen/qwen3-vl-235b-a22b-instruct", "something-else"}

	rapid.Check(t, func(rt *rapid.T) {
		id := rapid.SampledFrom(ids).Draw(rt, "provider")
		model := rapid.SampledFrom(models).Draw(rt, "model")
		a := rapid.IntRange(-50, 150).Draw(rt, "a")
		b := rapid.IntRange(-50, 150).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}

		ta := table.Temperature(id, model, a)
		tb := table.Temperature(id, model, b)
		if ta <= 0 || ta > 1 || tb <= 0 || tb > 1 {
			rt.Fatalf("temperature out of (0,1]: %v %v", ta, tb)
		}
		if tb > ta {
			rt.Fatalf("temperature rose with strength: t(%d)=%v < t(%d)=%v", a, ta, b, tb)
		}
	})
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid",
			yaml: `
fallback: {high: 0.3, medium: 0.5, low: 0.7}
providers:
  gemini:
    default: {high: 0.1, medium: 0.2, low: 0.3}
    models:
      gemini-3-pro-preview: {high: 0.5, medium: 0.6, low: 0.9}
`,
		},
		{
			name:    "zero temperature",
			yaml:    `fallback: {high: 0, medium: 0.5, low: 0.7}`,
			wantErr: true,
		},
		{
			name:    "missing fallback",
			yaml:    `providers: {}`,
			wantErr: true,
		},
		{
			name: "increasing with strength",
			yaml: `
fallback: {high: 0.3, medium: 0.5, low: 0.7}
providers:
  openrouter:
    default: {high: 0.9, medium: 0.5, low: 0.7}
`,
			wantErr: true,
		},
		{
			name:    "not yaml",
			yaml:    "fallback: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseTable([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTable() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && table.Temperature(providers.Gemini, "gemini-3-pro-preview", 100) != 0.5 {
				t.Errorf("model override not loaded")
			}
		})
	}
}

func TestLoadTableRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultTable())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "sampling.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if got := table.Temperature(providers.OpenRouter, "z-ai/glm-4.6v", 50); got != 0.6 {
		t.Errorf("Temperature() = %v, want 0.6", got)
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
