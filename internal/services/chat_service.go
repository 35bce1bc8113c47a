package services

import (
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxListLimit caps page sizes requested by callers.
const maxListLimit = 100

// MaxTitleLength is the width of the chats.title column, in characters.
const MaxTitleLength = 500

func checkTitleLength(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidRequest, MaxTitleLength)
	}
	return nil
}

// ChatService handles chat and message management on behalf of a user.
// Every operation is scoped by the caller-supplied user id.
type ChatService struct {
	store store.Store
}

// NewChatService creates a new ChatService. A nil store means the service
// runs without a database and every operation reports ErrDatabaseNotConfigured.
func NewChatService(store store.Store) *ChatService {
	return &ChatService{store: store}
}

func (s *ChatService) ready(userID string) error {
	if s.store == nil {
		return ErrDatabaseNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	}
	return nil
}

// parseChatID converts an opaque chat identifier. Malformed ids can never
// name an existing chat, so they are reported as not found.
func parseChatID(chatID string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chatID))
	if err != nil {
		return uuid.Nil, ErrChatNotFound
	}
	return id, nil
}

func translateStoreErr(err error, action string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrChatNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// CreateChat creates an empty chat. A missing or blank title becomes DefaultChatTitle.
func (s *ChatService) CreateChat(ctx context.Context, userID string, title *string) (*models.Chat, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}

	chatTitle := DefaultChatTitle
	if title != nil && strings.TrimSpace(*title) != "" {
		chatTitle = strings.TrimSpace(*title)
	}
	if err := checkTitleLength(chatTitle); err != nil {
		return nil, err
	}

	chat, err := s.store.CreateChat(ctx, userID, chatTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat in store: %w", err)
	}
	return chat, nil
}

// ListChats lists a user's chats, most recently updated first.
func (s *ChatService) ListChats(ctx context.Context, userID string, limit, offset int) ([]models.Chat, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}

	// Set reasonable defaults for limit and offset
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	chats, err := s.store.ListChats(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats from store: %w", err)
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats, nil
}

// GetChat returns one chat owned by userID.
func (s *ChatService) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	chat, err := s.store.GetChat(ctx, id, userID)
	if err != nil {
		return nil, translateStoreErr(err, "get chat from store")
	}
	return chat, nil
}

// UpdateTitle renames a chat owned by userID.
func (s *ChatService) UpdateTitle(ctx context.Context, chatID, userID, title string) (*models.Chat, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if err := checkTitleLength(title); err != nil {
		return nil, err
	}
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	chat, err := s.store.UpdateChatTitle(ctx, id, userID, title)
	if err != nil {
		return nil, translateStoreErr(err, "update chat title")
	}
	return chat, nil
}

// DeleteChat removes a chat owned by userID together with its messages.
func (s *ChatService) DeleteChat(ctx context.Context, chatID, userID string) error {
	if err := s.ready(userID); err != nil {
		return err
	}
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteChat(ctx, id, userID)
	if err != nil {
		return translateStoreErr(err, "delete chat")
	}
	if !deleted {
		return ErrChatNotFound
	}
	return nil
}

// ListMessages returns a chat's messages in chronological order. Chats that
// do not exist or belong to someone else yield an empty list, not an error.
func (s *ChatService) ListMessages(ctx context.Context, chatID, userID string) ([]models.Message, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}
	id, err := parseChatID(chatID)
	if err != nil {
		return []models.Message{}, nil
	}

	messages, err := s.store.ListMessages(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from store: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
