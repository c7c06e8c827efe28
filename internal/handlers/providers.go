package handlers

import (
	"net/http"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

type providersResponse struct {
	Providers []providers.ID `json:"providers"`
	Default   providers.ID   `json:"default"`
}

// HandleProviders serves GET /api/providers.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	available := h.providers.Available()
	if available == nil {
		available = []providers.ID{}
	}
	h.writeJSON(w, providersResponse{Providers: available, Default: providers.Default})
}
