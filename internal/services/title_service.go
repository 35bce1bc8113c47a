package services

import (
	"aimufti-backend/internal/llm"
	"aimufti-backend/internal/metrics"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	// DefaultChatTitle is used when there is no content to derive a title from.
	DefaultChatTitle = "New Chat"

	maxHeuristicTitleWords = 6
	maxAITitleWords        = 10
	truncationMarker       = "..."
)

var (
	errEmptyTitle   = errors.New("title response was empty")
	errTitleTooLong = errors.New("title response exceeded length limit")
)

// TitleSource records which strategy produced a title.
type TitleSource string

const (
	TitleSourceAI        TitleSource = "ai"
	TitleSourceHeuristic TitleSource = "heuristic"
)

// TitleResult is the outcome of title synthesis. Err explains why the
// heuristic fallback was used and is nil for AI titles.
type TitleResult struct {
	Title  string
	Source TitleSource
	Err    error
}

// FallbackUsed reports whether the AI strategy was abandoned.
func (r TitleResult) FallbackUsed() bool {
	return r.Source == TitleSourceHeuristic
}

// HeuristicTitle derives a title from the first words of content.
func HeuristicTitle(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return DefaultChatTitle
	}
	if len(words) <= maxHeuristicTitleWords {
		return clampTitle(strings.Join(words, " "))
	}
	return clampTitle(strings.Join(words[:maxHeuristicTitleWords], " ")) + truncationMarker
}

// clampTitle keeps a title within MaxTitleLength, leaving room for the truncation marker.
func clampTitle(title string) string {
	limit := MaxTitleLength - utf8.RuneCountInString(truncationMarker)
	if utf8.RuneCountInString(title) <= limit {
		return title
	}
	return string([]rune(title)[:limit])
}

// TitleService asks the completion API for a short topic title and falls
// back to HeuristicTitle on any failure.
type TitleService struct {
	llm         llm.Client
	temperature float64
	log         zerolog.Logger
}

// NewTitleService creates a TitleService. A nil client always yields heuristic titles.
func NewTitleService(client llm.Client, temperature float64, log zerolog.Logger) *TitleService {
	return &TitleService{
		llm:         client,
		temperature: temperature,
		log:         log.With().Str("component", "title_service").Logger(),
	}
}

// Heuristic wraps HeuristicTitle as a TitleResult.
func (s *TitleService) Heuristic(content string, cause error) TitleResult {
	metrics.TitlesGenerated.WithLabelValues(string(TitleSourceHeuristic)).Inc()
	return TitleResult{Title: HeuristicTitle(content), Source: TitleSourceHeuristic, Err: cause}
}

// Synthesize tries the AI strategy first.
func (s *TitleService) Synthesize(ctx context.Context, content string) TitleResult {
	if s.llm == nil {
		return s.Heuristic(content, ErrLLMNotConfigured)
	}

	resp, err := s.llm.Complete(ctx, []llm.Turn{{Role: llm.RoleUser, Content: llm.TitlePrompt(content)}}, s.temperature)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("title").Inc()
		s.log.Warn().Err(err).Msg("AI title generation failed")
		return s.Heuristic(content, err)
	}

	title := strings.TrimSpace(resp)
	switch {
	case title == "":
		return s.Heuristic(content, errEmptyTitle)
	case len(strings.Fields(title)) > maxAITitleWords, utf8.RuneCountInString(title) > MaxTitleLength:
		return s.Heuristic(content, errTitleTooLong)
	}

	metrics.TitlesGenerated.WithLabelValues(string(TitleSourceAI)).Inc()
	return TitleResult{Title: title, Source: TitleSourceAI}
}
