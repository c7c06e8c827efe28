package handlers

import (
	"math"
	"net/http"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/generation"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

type canvasDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type generateUIRequest struct {
	Prompt            string            `json:"prompt"`
	CanvasImage       string            `json:"canvasImage"`
	UseCanvas         bool              `json:"useCanvas"`
	Model             string            `json:"model"`
	ReferenceImages   []string          `json:"referenceImages"`
	CanvasDimensions  *canvasDimensions `json:"canvasDimensions"`
	Provider          string            `json:"provider"`
	ProviderModel     string            `json:"providerModel"`
	CanvasStrength    *float64          `json:"canvasStrength"`
	ReferenceStrength *float64          `json:"referenceStrength"`
}

type generateUIResponse struct {
	Success      bool    `json:"success"`
	UICode       string  `json:"uiCode"`
	OutputWidth  int     `json:"outputWidth"`
	OutputHeight int     `json:"outputHeight"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
}

// HandleGenerateUI serves POST /api/generate-ui.
func (h *Handler) HandleGenerateUI(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var request generateUIRequest
	if !h.decodeJSON(w, r, &request) {
		return
	}

	req, err := request.toMarkupRequest()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp, err := h.service.GenerateMarkup(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, generateUIResponse{
		Success:      true,
		UICode:       resp.UICode,
		OutputWidth:  resp.Width,
		OutputHeight: resp.Height,
		Provider:     string(resp.Provider),
		Model:        resp.Model,
		Temperature:  resp.Temperature,
	})
}

func (r generateUIRequest) toMarkupRequest() (generation.MarkupRequest, error) {
	canvas, err := parseCanvas(r.UseCanvas, r.CanvasImage)
	if err != nil {
		return generation.MarkupRequest{}, err
	}

	var references []providers.ImagePart
	for _, dataURL := range r.ReferenceImages {
		if dataURL == "" {
			continue
		}
		img, err := parseImage("referenceImages", dataURL)
		if err != nil {
			return generation.MarkupRequest{}, err
		}
		references = append(references, img)
	}

	req := generation.MarkupRequest{
		Prompt:            r.Prompt,
		Canvas:            canvas,
		Model:             r.Model,
		References:        references,
		Provider:          r.Provider,
		ProviderModel:     r.ProviderModel,
		CanvasStrength:    roundStrength(r.CanvasStrength),
		ReferenceStrength: roundStrength(r.ReferenceStrength),
	}
	if r.CanvasDimensions != nil {
		req.Width = int(math.Round(r.CanvasDimensions.Width))
		req.Height = int(math.Round(r.CanvasDimensions.Height))
	}
	return req, nil
}

func roundStrength(v *float64) *int {
	if v == nil {
		return nil
	}
	s := int(math.Round(*v))
	return &s
}
