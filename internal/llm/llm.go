package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role is the speaker of a turn as the completion API understands it.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged entry of the conversation sent upstream.
type Turn struct {
	Role    Role
	Content string
}

// ErrEmptyResponse is returned when the completion API answers with no text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client is the remote completion capability used for titles and answers.
type Client interface {
	// Complete performs a single non-streaming completion.
	Complete(ctx context.Context, turns []Turn, temperature float64) (string, error)

	// StreamChat streams text fragments in arrival order.
	// It returns immediately with two channels; both will be closed when streaming ends.
	// At most one error is delivered.
	StreamChat(ctx context.Context, turns []Turn, temperature float64) (<-chan string, <-chan error)

	// Model names the upstream model.
	Model() string
}

// Options selects and configures a Client backend.
type Options struct {
	Provider string // "gemini" or "openai"
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the Client for opts.Provider.
func New(ctx context.Context, opts Options) (Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("llm: api key is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("llm: model is required")
	}

	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "gemini":
		return NewGeminiClient(ctx, opts.APIKey, opts.Model)
	case "openai":
		return NewOpenAIClient(opts.APIKey, opts.Model, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}
