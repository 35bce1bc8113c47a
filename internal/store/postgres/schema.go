package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the chat tables and their supporting indexes.
// Every statement is idempotent so InitSchema can run on each startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS chats (
		id UUID PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		title VARCHAR(500) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		role VARCHAR(50) NOT NULL CHECK (role IN ('user', 'assistant')),
		content TEXT NOT NULL CHECK (content <> ''),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_chats_user_updated ON chats(user_id, updated_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages(chat_id, created_at);`,
}

// InitSchema creates the tables and indexes if they are absent.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("database error initializing schema: %w", err)
		}
	}
	s.log.Info().Msg("database schema initialized")
	return nil
}
