package postgres

import (
	"aimufti-backend/internal/metrics"
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// foreignKeyViolation is the SQLSTATE raised when a message references a missing chat.
const foreignKeyViolation = "23503"

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// PostgresStore is the pgx-backed persistence gateway. The pool hands out a
// connection per operation and takes it back on every exit path.
type PostgresStore struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

func NewPostgresStore(db *pgxpool.Pool, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log.With().Str("component", "postgres_store").Logger()}
}

// --- Chat Methods ---

const createChat = `-- name: CreateChat :one
INSERT INTO chats (id, user_id, title, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, user_id, title, created_at, updated_at;
`

// CreateChat inserts a new chat with a server-generated id.
func (s *PostgresStore) CreateChat(ctx context.Context, userID, title string) (*models.Chat, error) {
	defer metrics.ObservePostgres("create_chat", time.Now())

	row := s.db.QueryRow(ctx, createChat, uuid.New(), userID, title)
	chat, err := scanChat(row)
	if err != nil {
		s.logPgError("CreateChat", err)
		return nil, fmt.Errorf("database error creating chat: %w", err)
	}
	return chat, nil
}

const listChats = `-- name: ListChats :many
SELECT id, user_id, title, created_at, updated_at
FROM chats
WHERE user_id = $1
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3;
`

// ListChats returns a user's chats, most recently updated first.
func (s *PostgresStore) ListChats(ctx context.Context, userID string, limit, offset int) ([]models.Chat, error) {
	defer metrics.ObservePostgres("list_chats", time.Now())

	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, listChats, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying chats: %w", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat row: %w", err)
		}
		chats = append(chats, *chat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	return chats, nil
}

const getChat = `-- name: GetChat :one
SELECT id, user_id, title, created_at, updated_at
FROM chats
WHERE id = $1 AND user_id = $2;
`

// GetChat returns store.ErrNotFound when no chat matches (chatID, userID).
func (s *PostgresStore) GetChat(ctx context.Context, chatID uuid.UUID, userID string) (*models.Chat, error) {
	defer metrics.ObservePostgres("get_chat", time.Now())

	chat, err := scanChat(s.db.QueryRow(ctx, getChat, chatID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning chat: %w", err)
	}
	return chat, nil
}

const updateChatTitle = `-- name: UpdateChatTitle :one
UPDATE chats
SET title = $1, updated_at = GREATEST(updated_at, NOW())
WHERE id = $2 AND user_id = $3
RETURNING id, user_id, title, created_at, updated_at;
`

// UpdateChatTitle renames a chat and bumps updated_at in one statement.
// A chat owned by someone else is reported as store.ErrNotFound.
func (s *PostgresStore) UpdateChatTitle(ctx context.Context, chatID uuid.UUID, userID, title string) (*models.Chat, error) {
	defer metrics.ObservePostgres("update_chat_title", time.Now())

	chat, err := scanChat(s.db.QueryRow(ctx, updateChatTitle, title, chatID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning updated chat: %w", err)
	}
	return chat, nil
}

const deleteChat = `-- name: DeleteChat :exec
DELETE FROM chats
WHERE id = $1 AND user_id = $2;
`

// DeleteChat removes the chat; messages go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteChat(ctx context.Context, chatID uuid.UUID, userID string) (bool, error) {
	defer metrics.ObservePostgres("delete_chat", time.Now())

	tag, err := s.db.Exec(ctx, deleteChat, chatID, userID)
	if err != nil {
		return false, fmt.Errorf("error executing delete chat: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// --- Message Methods ---

const insertMessage = `-- name: InsertMessage :one
INSERT INTO messages (id, chat_id, role, content, created_at)
VALUES ($1, $2, $3, $4, clock_timestamp())
RETURNING id, chat_id, role, content, created_at;
`

const touchChat = `-- name: TouchChat :exec
UPDATE chats SET updated_at = GREATEST(updated_at, clock_timestamp()) WHERE id = $1;
`

// CreateMessage appends a message and refreshes the parent chat's updated_at.
// Both writes commit together or not at all.
func (s *PostgresStore) CreateMessage(ctx context.Context, chatID uuid.UUID, role models.Role, content string) (*models.Message, error) {
	defer metrics.ObservePostgres("create_message", time.Now())

	if err := store.ValidateMessage(role, content); err != nil {
		return nil, err
	}

	var msg *models.Message
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		msg, err = scanMessage(tx.QueryRow(ctx, insertMessage, uuid.New(), chatID, string(role), content))
		if err != nil {
			return fmt.Errorf("error inserting message: %w", err)
		}

		tag, err := tx.Exec(ctx, touchChat, chatID)
		if err != nil {
			return fmt.Errorf("error touching chat: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, store.ErrNotFound) || (errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation) {
			return nil, store.ErrNotFound
		}
		s.logPgError("CreateMessage", err)
		return nil, fmt.Errorf("database error creating message: %w", err)
	}

	return msg, nil
}

const chatOwned = `-- name: ChatOwned :one
SELECT EXISTS (SELECT 1 FROM chats WHERE id = $1 AND user_id = $2);
`

// ListMessages returns the chat's history, or an empty slice if the chat
// does not belong to userID. The two cases are deliberately indistinguishable.
func (s *PostgresStore) ListMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]models.Message, error) {
	defer metrics.ObservePostgres("list_messages", time.Now())

	var owned bool
	if err := s.db.QueryRow(ctx, chatOwned, chatID, userID).Scan(&owned); err != nil {
		return nil, fmt.Errorf("error verifying chat ownership: %w", err)
	}
	if !owned {
		return []models.Message{}, nil
	}

	return s.listChatMessages(ctx, chatID)
}

// ListChatMessages reads a chat's history without checking ownership.
func (s *PostgresStore) ListChatMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	defer metrics.ObservePostgres("list_chat_messages", time.Now())
	return s.listChatMessages(ctx, chatID)
}

const listChatMessages = `-- name: ListChatMessages :many
SELECT id, chat_id, role, content, created_at
FROM messages
WHERE chat_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) listChatMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listChatMessages, chatID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// --- Helpers ---

func scanChat(row pgx.Row) (*models.Chat, error) {
	var chat models.Chat
	if err := row.Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &chat, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var (
		msg  models.Message
		role string
	)
	if err := row.Scan(
		&msg.ID,
		&msg.ChatID,
		&role,
		&msg.Content,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	msg.Role = models.Role(role)
	return &msg, nil
}

func (s *PostgresStore) logPgError(op string, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		s.log.Error().
			Str("op", op).
			Str("code", pgErr.Code).
			Str("detail", pgErr.Detail).
			Msg(pgErr.Message)
		return
	}
	s.log.Error().Str("op", op).Err(err).Msg("database operation failed")
}
