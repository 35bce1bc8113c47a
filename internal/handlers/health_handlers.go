package handlers

import (
	"aimufti-backend/internal/models"
	"net/http"
)

// HealthHandlers reports liveness and a snapshot of the startup configuration.
type HealthHandlers struct {
	apiKeyConfigured bool
	model            string
}

// NewHealthHandlers creates a new HealthHandlers instance.
func NewHealthHandlers(apiKeyConfigured bool, model string) *HealthHandlers {
	return &HealthHandlers{apiKeyConfigured: apiKeyConfigured, model: model}
}

// HandleHealth handles GET /health.
func (h *HealthHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.HealthResponse{
		Status:           "healthy",
		APIKeyConfigured: h.apiKeyConfigured,
		Model:            h.model,
	})
}

// HandleRoot handles GET /.
func (h *HealthHandlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.StatusResponse{
		Status:  "ok",
		Message: "AI Mufti Backend is running",
	})
}
