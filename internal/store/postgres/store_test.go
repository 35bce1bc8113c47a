package postgres

import (
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/store"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to TEST_DATABASE_URL and skips when it is not set.
func openTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool, zerolog.Nop())
	require.NoError(t, s.InitSchema(ctx))
	// Running twice must be harmless.
	require.NoError(t, s.InitSchema(ctx))
	return s
}

func uniqueUser(t *testing.T) string {
	return "test-" + t.Name() + "-" + uuid.NewString()
}

func TestChatLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := uniqueUser(t)

	chat, err := s.CreateChat(ctx, user, "What is Zakat?")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, chat.ID)
	assert.Equal(t, user, chat.UserID)

	got, err := s.GetChat(ctx, chat.ID, user)
	require.NoError(t, err)
	assert.Equal(t, chat.Title, got.Title)

	_, err = s.GetChat(ctx, chat.ID, "someone-else")
	assert.ErrorIs(t, err, store.ErrNotFound)

	renamed, err := s.UpdateChatTitle(ctx, chat.ID, user, "Zakat basics")
	require.NoError(t, err)
	assert.Equal(t, "Zakat basics", renamed.Title)
	assert.False(t, renamed.UpdatedAt.Before(chat.UpdatedAt))

	_, err = s.UpdateChatTitle(ctx, chat.ID, "someone-else", "stolen")
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := s.DeleteChat(ctx, chat.ID, "someone-else")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.DeleteChat(ctx, chat.ID, user)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteChat(ctx, chat.ID, user)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListChats_OrderedByUpdatedDesc(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := uniqueUser(t)

	empty, err := s.ListChats(ctx, user, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := s.CreateChat(ctx, user, "first")
	require.NoError(t, err)
	second, err := s.CreateChat(ctx, user, "second")
	require.NoError(t, err)

	// A new message on the older chat moves it to the top.
	_, err = s.CreateMessage(ctx, first.ID, models.RoleUser, "bump")
	require.NoError(t, err)

	chats, err := s.ListChats(ctx, user, 50, 0)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)

	page, err := s.ListChats(ctx, user, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
}

func TestCreateMessage_TouchesChat(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := uniqueUser(t)

	chat, err := s.CreateChat(ctx, user, "t")
	require.NoError(t, err)

	msg, err := s.CreateMessage(ctx, chat.ID, models.RoleUser, "What is Zakat?")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, msg.Role)

	after, err := s.GetChat(ctx, chat.ID, user)
	require.NoError(t, err)
	assert.False(t, after.UpdatedAt.Before(chat.UpdatedAt))

	_, err = s.CreateMessage(ctx, chat.ID, models.Role("system"), "x")
	assert.ErrorIs(t, err, store.ErrInvalidRole)

	_, err = s.CreateMessage(ctx, chat.ID, models.RoleAssistant, "")
	assert.ErrorIs(t, err, store.ErrEmptyContent)

	_, err = s.CreateMessage(ctx, uuid.New(), models.RoleUser, "orphan")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListMessages_OwnershipAndCascade(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := uniqueUser(t)

	chat, err := s.CreateChat(ctx, user, "t")
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, chat.ID, models.RoleUser, "What is Zakat?")
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, chat.ID, models.RoleAssistant, "Allah")
	require.NoError(t, err)

	msgs, err := s.ListMessages(ctx, chat.ID, user)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Allah", msgs[1].Content)

	foreign, err := s.ListMessages(ctx, chat.ID, "someone-else")
	require.NoError(t, err)
	assert.NotNil(t, foreign)
	assert.Empty(t, foreign)

	deleted, err := s.DeleteChat(ctx, chat.ID, user)
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := s.ListChatMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)
}
