package services

import (
	"aimufti-backend/internal/llm"
	"aimufti-backend/internal/lock"
	"aimufti-backend/internal/metrics"
	"aimufti-backend/internal/models"
	"aimufti-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrorFragmentPrefix starts the single fragment emitted when streaming fails.
const ErrorFragmentPrefix = "Error: "

// Phase is a step of a chat turn.
type Phase int

const (
	PhaseResolveSession Phase = iota
	PhaseAssembleContext
	PhaseStream
	PhasePersist
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseResolveSession:
		return "resolve_session"
	case PhaseAssembleContext:
		return "assemble_context"
	case PhaseStream:
		return "stream"
	case PhasePersist:
		return "persist"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TurnRequest is one user input to a chat. ChatID is optional.
type TurnRequest struct {
	UserID  string
	Content string
	ChatID  string
}

// TurnOutcome describes how a turn ended.
type TurnOutcome struct {
	Phase Phase
	// Response is the full assistant text relayed to the caller. It is empty
	// when the stream failed or was cancelled.
	Response  string
	Persisted bool
	Err       error
}

// Turn is a chat turn whose session has been resolved. Fragments must be
// drained until closed; closing happens after the assistant reply is persisted.
type Turn struct {
	ChatID    string
	Created   bool
	Title     *TitleResult
	Fragments <-chan string

	done    chan struct{}
	outcome TurnOutcome
}

// Wait blocks until the turn has finished and returns its outcome.
func (t *Turn) Wait() TurnOutcome {
	<-t.done
	return t.outcome
}

// StreamService runs chat turns: it resolves or creates the chat, builds the
// upstream context, relays the streamed answer and persists both sides.
type StreamService struct {
	store        store.Store
	llm          llm.Client
	titles       *TitleService
	locker       lock.Locker
	mode         Mode
	systemPrompt string
	temperature  float64
	log          zerolog.Logger
}

// StreamServiceConfig groups the StreamService dependencies.
// Store may be nil in stateless mode. LLM may be nil when no key is configured.
type StreamServiceConfig struct {
	Store        store.Store
	LLM          llm.Client
	Titles       *TitleService
	Locker       lock.Locker
	Mode         Mode
	SystemPrompt string
	Temperature  float64
	Logger       zerolog.Logger
}

// NewStreamService creates a new StreamService.
func NewStreamService(cfg StreamServiceConfig) *StreamService {
	systemPrompt := cfg.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = llm.DefaultSystemPrompt
	}
	titles := cfg.Titles
	if titles == nil {
		titles = NewTitleService(cfg.LLM, 0, cfg.Logger)
	}
	locker := cfg.Locker
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &StreamService{
		store:        cfg.Store,
		llm:          cfg.LLM,
		titles:       titles,
		locker:       locker,
		mode:         cfg.Mode,
		systemPrompt: systemPrompt,
		temperature:  cfg.Temperature,
		log:          cfg.Logger.With().Str("component", "stream_service").Logger(),
	}
}

// Mode returns the availability flags the service was built with.
func (s *StreamService) Mode() Mode {
	return s.mode
}

// StartTurn runs the session and context phases synchronously and then
// streams the answer in the background. Errors returned here happen before
// any fragment is produced.
func (s *StreamService) StartTurn(ctx context.Context, req TurnRequest) (*Turn, error) {
	if !s.mode.LLMEnabled || s.llm == nil {
		return nil, ErrLLMNotConfigured
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidRequest)
	}

	metrics.ChatTurnsTotal.WithLabelValues(s.mode.String()).Inc()

	if !s.mode.Persistent() || s.store == nil {
		return s.startStateless(ctx, req), nil
	}
	return s.startPersistent(ctx, req)
}

// startStateless answers a single input with no history. The chat id is
// echoed or freshly generated so clients can keep a stable handle.
func (s *StreamService) startStateless(ctx context.Context, req TurnRequest) *Turn {
	chatID := strings.TrimSpace(req.ChatID)
	if chatID == "" {
		chatID = uuid.NewString()
	}

	turns := []llm.Turn{llm.FirstTurn(s.systemPrompt, req.Content)}
	turn := newTurn(chatID)
	out := make(chan string)
	turn.Fragments = out

	go s.run(ctx, turn, out, turns, uuid.Nil, func() {})
	return turn
}

func (s *StreamService) startPersistent(ctx context.Context, req TurnRequest) (*Turn, error) {
	log := s.log.With().Str("user_id", req.UserID).Logger()

	// RESOLVE_SESSION
	var (
		chat    *models.Chat
		created bool
		title   *TitleResult
	)
	if chatID := strings.TrimSpace(req.ChatID); chatID != "" {
		id, err := parseChatID(chatID)
		if err != nil {
			return nil, err
		}
		chat, err = s.store.GetChat(ctx, id, req.UserID)
		if err != nil {
			return nil, translateStoreErr(err, "resolve chat")
		}
	} else {
		t := s.titles.Synthesize(ctx, req.Content)
		title = &t
		if t.FallbackUsed() {
			log.Debug().AnErr("cause", t.Err).Str("title", t.Title).Msg("Using heuristic chat title")
		}

		var err error
		chat, err = s.store.CreateChat(ctx, req.UserID, t.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat in store: %w", err)
		}
		created = true
		log.Info().Str("chat_id", chat.ID.String()).Str("title_source", string(t.Source)).Msg("Created chat for new conversation")
	}

	unlock, err := s.locker.Lock(ctx, chat.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to acquire chat lock: %w", err)
	}

	// ASSEMBLE_CONTEXT
	history, err := s.store.ListChatMessages(ctx, chat.ID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	turns := AssembleContext(s.systemPrompt, history, req.Content)

	// The user message is stored before streaming so a failed answer still
	// leaves the question in the transcript.
	if _, err := s.store.CreateMessage(ctx, chat.ID, models.RoleUser, req.Content); err != nil {
		unlock()
		return nil, translateStoreErr(err, "persist user message")
	}

	turn := newTurn(chat.ID.String())
	turn.Created = created
	turn.Title = title
	out := make(chan string)
	turn.Fragments = out

	go s.run(ctx, turn, out, turns, chat.ID, unlock)
	return turn, nil
}

func newTurn(chatID string) *Turn {
	return &Turn{
		ChatID: chatID,
		done:   make(chan struct{}),
	}
}

// run streams the answer into out, then persists it when chatID is set.
// It owns out and the lock release.
func (s *StreamService) run(ctx context.Context, turn *Turn, out chan<- string, turns []llm.Turn, chatID uuid.UUID, unlock func()) {
	var once sync.Once
	finish := func(outcome TurnOutcome) {
		once.Do(func() {
			turn.outcome = outcome
			close(out)
			unlock()
			close(turn.done)
		})
	}

	log := s.log.With().Str("chat_id", turn.ChatID).Logger()

	// Derived so the upstream stream is torn down whenever run returns early.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, errs := s.llm.StreamChat(streamCtx, turns, s.temperature)

	var answer strings.Builder
	for chunk := range chunks {
		if chunk == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		select {
		case out <- chunk:
			answer.WriteString(chunk)
			metrics.StreamFragmentsTotal.Inc()
		case <-ctx.Done():
			log.Info().Msg("Client went away during stream")
			finish(TurnOutcome{Phase: PhaseFailed, Err: ctx.Err()})
			return
		}
	}

	if ctx.Err() != nil {
		log.Info().Msg("Client went away during stream")
		finish(TurnOutcome{Phase: PhaseFailed, Err: ctx.Err()})
		return
	}

	if err := <-errs; err != nil {
		if ctx.Err() != nil {
			finish(TurnOutcome{Phase: PhaseFailed, Err: ctx.Err()})
			return
		}
		metrics.UpstreamErrorsTotal.WithLabelValues("stream").Inc()
		log.Error().Err(err).Msg("Completion stream failed")
		select {
		case out <- ErrorFragmentPrefix + err.Error():
		case <-ctx.Done():
		}
		finish(TurnOutcome{Phase: PhaseFailed, Err: err})
		return
	}

	response := answer.String()
	if chatID == uuid.Nil || response == "" {
		finish(TurnOutcome{Phase: PhaseDone, Response: response})
		return
	}

	// PERSIST
	if _, err := s.store.CreateMessage(ctx, chatID, models.RoleAssistant, response); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Msg("Chat deleted before assistant reply was stored")
		} else {
			log.Error().Err(err).Msg("Failed to persist assistant message")
		}
		finish(TurnOutcome{Phase: PhaseFailed, Response: response, Err: err})
		return
	}

	finish(TurnOutcome{Phase: PhaseDone, Response: response, Persisted: true})
}
