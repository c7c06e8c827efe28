package handlers

import (
	"net/http"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/generation"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/prompt"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sizing"
)

type materialReference struct {
	DataURL string   `json:"dataUrl"`
	Weight  *float64 `json:"weight"`
}

type generateImageRequest struct {
	Prompt      string `json:"prompt"`
	CanvasImage string `json:"canvasImage"`
	UseCanvas   bool   `json:"useCanvas"`
	Quality     string `json:"quality"`
	Preset      string `json:"preset"`

	MaterialReferences []materialReference `json:"materialReferences"`
	// Single-material fields sent by older clients.
	MaterialReference string   `json:"materialReference"`
	MaterialWeight    *float64 `json:"materialWeight"`

	OutputMode        string  `json:"outputMode"`
	OutputLongEdge    float64 `json:"outputLongEdge"`
	OutputAspectRatio string  `json:"outputAspectRatio"`
	OutputWidth       float64 `json:"outputWidth"`
	OutputHeight      float64 `json:"outputHeight"`

	Provider      string `json:"provider"`
	ProviderModel string `json:"providerModel"`
}

type generateImageResponse struct {
	Success        bool    `json:"success"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	Model          string  `json:"model"`
	EnhancedPrompt string  `json:"enhancedPrompt,omitempty"`
	OutputWidth    int     `json:"outputWidth"`
	OutputHeight   int     `json:"outputHeight"`
	SourceMIMEType string  `json:"sourceMimeType,omitempty"`
	Provider       string  `json:"provider"`
	Temperature    float64 `json:"temperature"`
	Message        string  `json:"message,omitempty"`
}

// HandleGenerate serves POST /api/generate.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var request generateImageRequest
	if !h.decodeJSON(w, r, &request) {
		return
	}

	req, err := request.toImageRequest()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp, err := h.service.GenerateImage(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, generateImageResponse{
		Success:        true,
		ImageURL:       resp.ImageURL,
		Model:          resp.Model,
		EnhancedPrompt: resp.EnhancedPrompt,
		OutputWidth:    resp.Width,
		OutputHeight:   resp.Height,
		SourceMIMEType: resp.SourceMIMEType,
		Provider:       string(resp.Provider),
		Temperature:    resp.Temperature,
		Message:        resp.Message,
	})
}

func (r generateImageRequest) toImageRequest() (generation.ImageRequest, error) {
	canvas, err := parseCanvas(r.UseCanvas, r.CanvasImage)
	if err != nil {
		return generation.ImageRequest{}, err
	}

	refs := r.MaterialReferences
	if len(refs) == 0 && r.MaterialReference != "" {
		refs = []materialReference{{DataURL: r.MaterialReference, Weight: r.MaterialWeight}}
	}

	var materials []prompt.Material
	for _, ref := range refs {
		if ref.DataURL == "" {
			continue
		}
		img, err := parseImage("materialReferences", ref.DataURL)
		if err != nil {
			return generation.ImageRequest{}, err
		}
		weight := prompt.DefaultMaterialWeight
		if ref.Weight != nil {
			weight = max(0, min(1, *ref.Weight))
		}
		materials = append(materials, prompt.Material{Image: img, Weight: weight})
	}

	mode := sizing.Mode(r.OutputMode)
	if mode == "" {
		mode = sizing.ModeCanvas
	}

	return generation.ImageRequest{
		Prompt:    r.Prompt,
		Canvas:    canvas,
		Quality:   r.Quality,
		Preset:    r.Preset,
		Materials: materials,
		Size: sizing.Spec{
			Mode:        mode,
			Width:       r.OutputWidth,
			Height:      r.OutputHeight,
			LongEdge:    int(r.OutputLongEdge),
			AspectRatio: r.OutputAspectRatio,
		},
		Provider:      r.Provider,
		ProviderModel: r.ProviderModel,
	}, nil
}
