package services

import "errors"

var (
	// ErrDatabaseNotConfigured is returned by persistence-backed operations when
	// the service runs without a datastore.
	ErrDatabaseNotConfigured = errors.New("database not configured")

	// ErrLLMNotConfigured is returned for chat turns when no completion API key was configured.
	ErrLLMNotConfigured = errors.New("llm api key not configured")

	// ErrChatNotFound covers both a missing chat and one owned by another user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrInvalidRequest wraps caller input problems.
	ErrInvalidRequest = errors.New("invalid request")
)
