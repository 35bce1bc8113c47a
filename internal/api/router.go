package api

import (
	"aimufti-backend/internal/config"
	"aimufti-backend/internal/handlers"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	HealthHandler *handlers.HealthHandlers
	ChatHandler   *handlers.ChatHandlers
	StreamHandler *handlers.StreamHandlers
	Config        *config.Config
	Logger        zerolog.Logger
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	// No request timeout: chat responses stream for as long as the model produces output.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(Metrics)
	r.Use(Recoverer(deps.Logger))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{handlers.ChatIDHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	if deps.HealthHandler == nil {
		panic("HealthHandler dependency is nil in router setup")
	}
	r.Get("/", deps.HealthHandler.HandleRoot)
	r.Get("/health", deps.HealthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// --- Chat History Routes ---
	if deps.ChatHandler != nil {
		r.Route("/api/chats", func(r chi.Router) {
			r.Get("/", deps.ChatHandler.HandleListChats)
			r.Post("/", deps.ChatHandler.HandleCreateChat)
			r.Get("/{chatID}", deps.ChatHandler.HandleGetChat)
			r.Put("/{chatID}/title", deps.ChatHandler.HandleUpdateTitle)
			r.Delete("/{chatID}", deps.ChatHandler.HandleDeleteChat)
			r.Get("/{chatID}/messages", deps.ChatHandler.HandleListMessages)
		})
	} else {
		deps.Logger.Warn().Msg("ChatHandler dependency is nil, skipping /api/chats routes")
	}

	// --- Streaming Chat Routes ---
	if deps.StreamHandler != nil {
		r.Post("/chat", deps.StreamHandler.HandleSendMessage)
		r.Post("/chat/{chatID}", deps.StreamHandler.HandleSendMessage)
	} else {
		deps.Logger.Warn().Msg("StreamHandler dependency is nil, skipping /chat routes")
	}

	return r
}
