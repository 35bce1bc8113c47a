// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/store"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory store.Store. Its clock advances one millisecond
// per write so ordering by timestamp is deterministic.
type MemStore struct {
	mu       sync.Mutex
	chats    map[uuid.UUID]*models.Chat
	messages map[uuid.UUID][]models.Message
	clock    time.Time

	FailCreateMessage error
	FailListHistory   error
}

func New() *MemStore {
	return &MemStore{
		chats:    make(map[uuid.UUID]*models.Chat),
		messages: make(map[uuid.UUID][]models.Message),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MemStore) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *MemStore) CreateChat(_ context.Context, userID, title string) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	c := &models.Chat{ID: uuid.New(), UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	m.chats[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *MemStore) ListChats(_ context.Context, userID string, limit, offset int) ([]models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Chat{}
	for _, c := range m.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return []models.Chat{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) GetChat(_ context.Context, chatID uuid.UUID, userID string) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemStore) UpdateChatTitle(_ context.Context, chatID uuid.UUID, userID, title string) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	c.Title = title
	c.UpdatedAt = m.tick()
	cp := *c
	return &cp, nil
}

func (m *MemStore) DeleteChat(_ context.Context, chatID uuid.UUID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(m.chats, chatID)
	delete(m.messages, chatID)
	return true, nil
}

func (m *MemStore) CreateMessage(_ context.Context, chatID uuid.UUID, role models.Role, content string) (*models.Message, error) {
	if err := store.ValidateMessage(role, content); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateMessage != nil {
		return nil, m.FailCreateMessage
	}
	c, ok := m.chats[chatID]
	if !ok {
		return nil, store.ErrNotFound
	}
	now := m.tick()
	msg := models.Message{ID: uuid.New(), ChatID: chatID, Role: role, Content: content, CreatedAt: now}
	m.messages[chatID] = append(m.messages[chatID], msg)
	c.UpdatedAt = now
	return &msg, nil
}

func (m *MemStore) ListMessages(_ context.Context, chatID uuid.UUID, userID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return []models.Message{}, nil
	}
	return append([]models.Message{}, m.messages[chatID]...), nil
}

func (m *MemStore) ListChatMessages(_ context.Context, chatID uuid.UUID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailListHistory != nil {
		return nil, m.FailListHistory
	}
	return append([]models.Message{}, m.messages[chatID]...), nil
}

// History returns a copy of a chat's messages regardless of owner.
func (m *MemStore) History(chatID uuid.UUID) []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Message{}, m.messages[chatID]...)
}

var _ store.Store = (*MemStore)(nil)
