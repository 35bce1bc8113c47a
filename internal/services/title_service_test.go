package services

import (
	"aimufti-backend/internal/llm/llmtest"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHeuristicTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", "New Chat"},
		{"whitespace only", "   \n\t ", "New Chat"},
		{"short", "What is zakat?", "What is zakat?"},
		{"exactly six words", "one two three four five six", "one two three four five six"},
		{"long", "What are the conditions for zakat on gold", "What are the conditions for zakat..."},
		{"collapses whitespace", "  namaz   ka\ttareeqa  ", "namaz ka tareeqa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HeuristicTitle(tt.content))
		})
	}
}

func TestHeuristicTitle_FitsColumn(t *testing.T) {
	oneWord := HeuristicTitle(strings.Repeat("x", 2000))
	assert.LessOrEqual(t, utf8.RuneCountInString(oneWord), MaxTitleLength)

	manyWords := HeuristicTitle(strings.Repeat(strings.Repeat("ق", 300)+" ", 8))
	assert.LessOrEqual(t, utf8.RuneCountInString(manyWords), MaxTitleLength)
	assert.True(t, strings.HasSuffix(manyWords, "..."))
}

func TestTitleService_Synthesize(t *testing.T) {
	ctx := context.Background()
	content := "What are the conditions for zakat on gold"

	t.Run("ai title", func(t *testing.T) {
		svc := NewTitleService(&llmtest.Scripted{Title: "  Zakat on Gold\n"}, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, content)
		assert.Equal(t, "Zakat on Gold", got.Title)
		assert.Equal(t, TitleSourceAI, got.Source)
		assert.False(t, got.FallbackUsed())
		assert.NoError(t, got.Err)
	})

	t.Run("upstream failure falls back", func(t *testing.T) {
		upstream := errors.New("quota exceeded")
		svc := NewTitleService(&llmtest.Scripted{TitleErr: upstream}, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, content)
		assert.Equal(t, "What are the conditions for zakat...", got.Title)
		assert.True(t, got.FallbackUsed())
		assert.ErrorIs(t, got.Err, upstream)
	})

	t.Run("empty response falls back", func(t *testing.T) {
		svc := NewTitleService(&llmtest.Scripted{Title: "   "}, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, content)
		assert.Equal(t, TitleSourceHeuristic, got.Source)
		assert.ErrorIs(t, got.Err, errEmptyTitle)
	})

	t.Run("eleven words falls back", func(t *testing.T) {
		svc := NewTitleService(&llmtest.Scripted{Title: "a b c d e f g h i j k"}, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, content)
		assert.Equal(t, TitleSourceHeuristic, got.Source)
		assert.ErrorIs(t, got.Err, errTitleTooLong)
	})

	t.Run("oversized title falls back", func(t *testing.T) {
		svc := NewTitleService(&llmtest.Scripted{Title: strings.Repeat("z", MaxTitleLength+1)}, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, content)
		assert.Equal(t, TitleSourceHeuristic, got.Source)
		assert.ErrorIs(t, got.Err, errTitleTooLong)
	})

	t.Run("ten words accepted", func(t *testing.T) {
		svc := NewTitleService(&llmtest.Scripted{Title: "a b c d e f g h i j"}, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, content)
		assert.Equal(t, TitleSourceAI, got.Source)
	})

	t.Run("no client", func(t *testing.T) {
		svc := NewTitleService(nil, 0.7, zerolog.Nop())
		got := svc.Synthesize(ctx, "")
		assert.Equal(t, "New Chat", got.Title)
		assert.ErrorIs(t, got.Err, ErrLLMNotConfigured)
	})
}
