package handlers

import (
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ChatHandlers handles HTTP requests related to chat management.
type ChatHandlers struct {
	chatService *services.ChatService
	log         zerolog.Logger
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService, log zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
		log:         log.With().Str("component", "chat_handlers").Logger(),
	}
}

// HandleListChats handles GET /api/chats?user_id=&limit=&offset=.
func (h *ChatHandlers) HandleListChats(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid offset")
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), r.URL.Query().Get("user_id"), limit, offset)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.ListChatsResponse{Chats: chats})
}

// HandleCreateChat handles POST /api/chats.
func (h *ChatHandlers) HandleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), req.UserID, req.Title)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, chat)
}

// HandleGetChat handles GET /api/chats/{chatID}?user_id=.
func (h *ChatHandlers) HandleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chatService.GetChat(r.Context(), chi.URLParam(r, "chatID"), r.URL.Query().Get("user_id"))
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, chat)
}

// HandleUpdateTitle handles PUT /api/chats/{chatID}/title.
func (h *ChatHandlers) HandleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTitleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.chatService.UpdateTitle(r.Context(), chi.URLParam(r, "chatID"), req.UserID, req.Title)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, chat)
}

// HandleDeleteChat handles DELETE /api/chats/{chatID}?user_id=.
func (h *ChatHandlers) HandleDeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.DeleteChat(r.Context(), chi.URLParam(r, "chatID"), r.URL.Query().Get("user_id")); err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.DeleteChatResponse{Success: true})
}

// HandleListMessages handles GET /api/chats/{chatID}/messages?user_id=.
// Unknown and foreign chats yield an empty list.
func (h *ChatHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.ListMessages(r.Context(), chi.URLParam(r, "chatID"), r.URL.Query().Get("user_id"))
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.ListMessagesResponse{Messages: messages})
}
