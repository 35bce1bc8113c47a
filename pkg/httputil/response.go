package httputil

import (
	api_models "aimufti-backend/internal/models"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Can't write header again here, just log the error
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, api_models.ErrorResponse{Error: message})
}

// InternalServerError is the opaque body used for unexpected failures.
const InternalServerError = "Internal Server Error"

// RespondInternalError writes the opaque 500 response.
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, InternalServerError)
}
