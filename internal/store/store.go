package store

import (
	"aimufti-backend/internal/models"
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrInvalidRole is returned when a message role is outside the closed enum.
var ErrInvalidRole = errors.New("invalid message role")

// ErrEmptyContent is returned when a message would be persisted without content.
var ErrEmptyContent = errors.New("message content is empty")

// DefaultListLimit is the page size used when callers pass a non-positive limit.
const DefaultListLimit = 50

// Store defines the interface for chat persistence.
// Every user-facing read or mutation is scoped by (chatID, userID).
type Store interface {
	// Chat operations
	CreateChat(ctx context.Context, userID, title string) (*models.Chat, error)
	ListChats(ctx context.Context, userID string, limit, offset int) ([]models.Chat, error)
	GetChat(ctx context.Context, chatID uuid.UUID, userID string) (*models.Chat, error)
	UpdateChatTitle(ctx context.Context, chatID uuid.UUID, userID, title string) (*models.Chat, error)
	DeleteChat(ctx context.Context, chatID uuid.UUID, userID string) (bool, error)

	// Message operations
	CreateMessage(ctx context.Context, chatID uuid.UUID, role models.Role, content string) (*models.Message, error)
	// ListMessages returns an empty slice when the chat does not belong to userID.
	ListMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]models.Message, error)
	// ListChatMessages reads history without an ownership check. Callers must have
	// established ownership already.
	ListChatMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)
}

// ValidateMessage checks the write-time invariants for a message row.
func ValidateMessage(role models.Role, content string) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if content == "" {
		return ErrEmptyContent
	}
	return nil
}
