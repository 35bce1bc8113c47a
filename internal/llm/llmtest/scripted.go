// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"aimufti-backend/internal/llm"
	"context"
	"sync"
)

// Scripted replays fixed fragments and records the turns it was sent.
type Scripted struct {
	mu        sync.Mutex
	Fragments []string
	StreamErr error
	Title     string
	TitleErr  error

	streamed [][]llm.Turn
	titled   []string
}

func (f *Scripted) Complete(_ context.Context, turns []llm.Turn, _ float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titled = append(f.titled, turns[len(turns)-1].Content)
	return f.Title, f.TitleErr
}

func (f *Scripted) StreamChat(ctx context.Context, turns []llm.Turn, _ float64) (<-chan string, <-chan error) {
	f.mu.Lock()
	f.streamed = append(f.streamed, append([]llm.Turn{}, turns...))
	fragments := append([]string{}, f.Fragments...)
	streamErr := f.StreamErr
	f.mu.Unlock()

	chunks := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errs)
		for _, frag := range fragments {
			select {
			case chunks <- frag:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if streamErr != nil {
			errs <- streamErr
		}
	}()
	return chunks, errs
}

func (f *Scripted) Model() string { return "scripted" }

// StreamCalls returns the turn lists passed to StreamChat.
func (f *Scripted) StreamCalls() [][]llm.Turn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]llm.Turn{}, f.streamed...)
}

// CompleteCalls reports how many non-streaming completions were requested.
func (f *Scripted) CompleteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.titled)
}

var _ llm.Client = (*Scripted)(nil)
