package handlers

import (
	"net/http"
	"strconv"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/prompt"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sizing"
)

type presetMatch struct {
	LongEdge    int    `json:"longEdge"`
	AspectRatio string `json:"aspectRatio"`
}

type presetsResponse struct {
	Lighting     []string     `json:"lighting"`
	LongEdges    []int        `json:"longEdges"`
	AspectRatios []string     `json:"aspectRatios"`
	Match        *presetMatch `json:"match,omitempty"`
}

// HandlePresets serves GET /api/presets. With width and height query
// parameters it also reports the size preset producing exactly that size.
func (h *Handler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := presetsResponse{
		Lighting:     prompt.LightingPresetKeys(),
		LongEdges:    sizing.LongEdges,
		AspectRatios: sizing.AspectRatios,
	}

	q := r.URL.Query()
	if q.Has("width") || q.Has("height") {
		width, errW := strconv.Atoi(q.Get("width"))
		height, errH := strconv.Atoi(q.Get("height"))
		if errW != nil || errH != nil {
			h.writeError(w, "width and height must both be integers", http.StatusBadRequest)
			return
		}
		if longEdge, aspect, ok := sizing.FindPreset(width, height); ok {
			resp.Match = &presetMatch{LongEdge: longEdge, AspectRatio: aspect}
		}
	}

	h.writeJSON(w, resp)
}
