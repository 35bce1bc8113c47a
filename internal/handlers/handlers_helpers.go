package handlers

import (
	"aimufti-backend/internal/services"
	"aimufti-backend/pkg/httputil"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// respondWithJSON writes a JSON response.
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	httputil.RespondJSON(w, statusCode, data)
}

// respondWithError writes an error response in JSON format.
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	httputil.RespondError(w, statusCode, message)
}

// Fixed client-facing messages for service errors.
const (
	msgDatabaseNotConfigured = "Server missing DATABASE_URL"
	msgLLMNotConfigured      = "Server missing LLM API key"
	msgChatNotFound          = "Chat not found"
)

// respondWithServiceError maps service errors onto fixed client messages.
// Unexpected errors are logged and reported without detail.
func respondWithServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrDatabaseNotConfigured):
		respondWithError(w, http.StatusInternalServerError, msgDatabaseNotConfigured)
	case errors.Is(err, services.ErrLLMNotConfigured):
		respondWithError(w, http.StatusInternalServerError, msgLLMNotConfigured)
	case errors.Is(err, services.ErrChatNotFound):
		respondWithError(w, http.StatusNotFound, msgChatNotFound)
	case errors.Is(err, services.ErrInvalidRequest):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		httputil.RespondInternalError(w)
	}
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
