package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiClient talks to Google's Gemini models through langchaingo.
type GeminiClient struct {
	model llms.Model
	name  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	m, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiClient{model: m, name: model}, nil
}

func (c *GeminiClient) Model() string { return c.name }

func (c *GeminiClient) Complete(ctx context.Context, turns []Turn, temperature float64) (string, error) {
	resp, err := c.model.GenerateContent(ctx, toMessageContent(turns), llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

func (c *GeminiClient) StreamChat(ctx context.Context, turns []Turn, temperature float64) (<-chan string, <-chan error) {
	chunks := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		_, err := c.model.GenerateContent(ctx, toMessageContent(turns),
			llms.WithTemperature(temperature),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				if len(chunk) == 0 {
					return nil
				}
				select {
				case chunks <- string(chunk):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		if err != nil {
			errs <- fmt.Errorf("gemini: %w", err)
		}
	}()

	return chunks, errs
}

func toMessageContent(turns []Turn) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(turns))
	for _, t := range turns {
		role := llms.ChatMessageTypeHuman
		if t.Role == RoleModel {
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, t.Content))
	}
	return out
}
