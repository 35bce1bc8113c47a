package handlers

import (
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/services"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ChatIDHeader carries the resolved chat id on streamed responses.
const ChatIDHeader = "X-Chat-Id"

// StreamHandlers serves chat turns as a raw plain-text stream.
type StreamHandlers struct {
	streamService *services.StreamService
	log           zerolog.Logger
}

// NewStreamHandlers creates a new StreamHandlers instance.
func NewStreamHandlers(streamService *services.StreamService, log zerolog.Logger) *StreamHandlers {
	return &StreamHandlers{
		streamService: streamService,
		log:           log.With().Str("component", "stream_handlers").Logger(),
	}
}

// HandleSendMessage handles POST /chat and POST /chat/{chatID}.
// The chat id is taken from the path, then the chat_id query parameter, then the body.
func (h *StreamHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chatID := strings.TrimSpace(chi.URLParam(r, "chatID"))
	if chatID == "" {
		chatID = strings.TrimSpace(r.URL.Query().Get("chat_id"))
	}
	if chatID == "" && req.ChatID != nil {
		chatID = strings.TrimSpace(*req.ChatID)
	}

	turn, err := h.streamService.StartTurn(r.Context(), services.TurnRequest{
		UserID:  req.UserID,
		Content: req.Content,
		ChatID:  chatID,
	})
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set(ChatIDHeader, turn.ChatID)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	_ = rc.Flush()

	// Keep draining after a write failure so the turn can finish and release its lock.
	writeFailed := false
	for fragment := range turn.Fragments {
		if writeFailed {
			continue
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			writeFailed = true
			continue
		}
		_ = rc.Flush()
	}

	outcome := turn.Wait()
	h.log.Debug().
		Str("chat_id", turn.ChatID).
		Str("phase", outcome.Phase.String()).
		Bool("persisted", outcome.Persisted).
		Int("response_len", len(outcome.Response)).
		AnErr("error", outcome.Err).
		Msg("Chat turn finished")
}
