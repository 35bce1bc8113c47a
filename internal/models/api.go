package models

// --- Request Structs ---

// SendMessageRequest is the body of POST /chat and POST /chat/{chatID}.
type SendMessageRequest struct {
	UserID  string  `json:"user_id"`
	Content string  `json:"content"`
	ChatID  *string `json:"chat_id,omitempty"`
}

// CreateChatRequest is the body of POST /api/chats.
type CreateChatRequest struct {
	UserID string  `json:"user_id"`
	Title  *string `json:"title,omitempty"`
}

// UpdateTitleRequest is the body of PUT /api/chats/{chatID}/title.
type UpdateTitleRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// --- Response Structs ---

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListChatsResponse wraps a page of chats, newest-updated first.
type ListChatsResponse struct {
	Chats []Chat `json:"chats"`
}

// ListMessagesResponse wraps a chat's history in creation order.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// DeleteChatResponse is returned after a successful delete.
type DeleteChatResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is the liveness payload with a config snapshot.
type HealthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
	Model            string `json:"model"`
}

// StatusResponse is returned by the root endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
