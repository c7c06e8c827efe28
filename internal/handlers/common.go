package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/generation"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// MaxBodyBytes bounds request bodies; canvases and references travel inline.
const MaxBodyBytes = 64 << 20

// ProviderLister reports which providers are configured.
type ProviderLister interface {
	Available() []providers.ID
}

type Handler struct {
	service   *generation.Service
	providers ProviderLister
	staticDir string
}

func New(service *generation.Service, lister ProviderLister, staticDir string) *Handler {
	if staticDir == "" {
		staticDir = "static"
	}
	return &Handler{
		service:   service,
		providers: lister,
		staticDir: staticDir,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSONStatus(w, code, errorResponse{Error: message})
}

// writeServiceError maps pipeline errors to a status: validation problems are
// the caller's (400), everything else is ours or the provider's (500).
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *generation.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeError(w, err.Error(), http.StatusInternalServerError)
}

// decodeJSON reads a bounded JSON body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// parseImage parses a data URL from field into an ImagePart.
func parseImage(field, dataURL string) (providers.ImagePart, error) {
	img, err := providers.ImageFromDataURL(dataURL)
	if err != nil {
		return providers.ImagePart{}, &generation.ValidationError{Field: field, Message: fmt.Sprintf("invalid %s: %v", field, err)}
	}
	return img, nil
}

// parseCanvas returns the canvas image when the caller asked to use it.
func parseCanvas(useCanvas bool, dataURL string) (*providers.ImagePart, error) {
	if !useCanvas || dataURL == "" {
		return nil, nil
	}
	img, err := parseImage("canvasImage", dataURL)
	if err != nil {
		return nil, err
	}
	return &img, nil
}
