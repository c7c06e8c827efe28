// Package batch runs markup generation over a dataset of prompts.
package batch

import "time"

// Item is one markup prompt of a batch dataset.
type Item struct {
	ID            string `json:"id" parquet:"id"`
	Prompt        string `json:"prompt" parquet:"prompt"`
	Provider      string `json:"provider" parquet:"provider"`
	ProviderModel string `json:"provider_model" parquet:"provider_model"`
	Model         string `json:"model" parquet:"model"` // fast or quality
	Width         int    `json:"width" parquet:"width"`
	Height        int    `json:"height" parquet:"height"`

	// Strengths are forwarded and echoed in the Result. Batch items carry no
	// images, so they do not change the sampling temperature.
	CanvasStrength    *int `json:"canvas_strength,omitempty" parquet:"canvas_strength,optional"`
	ReferenceStrength *int `json:"reference_strength,omitempty" parquet:"reference_strength,optional"`
}

// Result is the outcome of one item.
type Result struct {
	ID          string        `yaml:"id"`
	Prompt      string        `yaml:"prompt"`
	Provider    string        `yaml:"provider,omitempty"`
	Model       string        `yaml:"model,omitempty"`
	Temperature float64       `yaml:"temperature,omitempty"`
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`

	CanvasStrength    *int `yaml:"canvasstrength,omitempty"`
	ReferenceStrength *int `yaml:"referencestrength,omitempty"`

	UICode   string        `yaml:"uicode,omitempty"`
	Error    string        `yaml:"error,omitempty"`
	Duration time.Duration `yaml:"duration"`
}
