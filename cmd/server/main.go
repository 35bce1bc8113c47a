package main

import (
	"aimufti-backend/internal/api"
	"aimufti-backend/internal/config"
	"aimufti-backend/internal/handlers"
	"aimufti-backend/internal/llm"
	"aimufti-backend/internal/lock"
	"aimufti-backend/internal/logger"
	"aimufti-backend/internal/services"
	"aimufti-backend/internal/store"
	"aimufti-backend/internal/store/postgres"
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		stdlog.Fatalf("FATAL: Failed to build logger: %v", err)
	}
	logger.SetGlobal(log)
	log.Info().Msg("Starting AI Mufti Backend...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := services.ModeFromConfig(cfg)
	log.Info().
		Str("mode", mode.String()).
		Bool("api_key_configured", mode.LLMEnabled).
		Str("model", cfg.LLMModel).
		Msg("Configuration loaded")

	// 2. Initialize Database Connection Pool (optional)
	var chatStore store.Store
	if mode.DatabaseEnabled {
		dbpool, err := openDatabase(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to connect to database")
		}
		defer dbpool.Close()

		pgStore := postgres.NewPostgresStore(dbpool, log)
		// Schema setup failures are not fatal; the tables may already exist
		// under a role without DDL privileges.
		if err := pgStore.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Database schema initialization failed")
		}
		chatStore = pgStore
	} else {
		log.Warn().Msg("DATABASE_URL not set, running stateless: chat history is disabled")
	}

	// 3. Initialize the completion client (optional)
	var client llm.Client
	if mode.LLMEnabled {
		client, err = llm.New(ctx, llm.Options{
			Provider: cfg.LLMProvider,
			APIKey:   cfg.LLMAPIKey,
			Model:    cfg.LLMModel,
			BaseURL:  cfg.LLMBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize completion client")
		}
		log.Info().Str("provider", cfg.LLMProvider).Str("model", client.Model()).Msg("Completion client initialized")
	} else {
		log.Warn().Msg("No LLM API key configured, /chat will report a configuration error")
	}

	// 4. Per-chat turn locking
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.RedisURL != "" {
		redisLocker, err := lock.NewRedisLocker(ctx, cfg.RedisURL, cfg.ChatLockTTL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisLocker.Close()
		locker = redisLocker
		log.Info().Dur("ttl", cfg.ChatLockTTL).Msg("Using Redis chat locks")
	}

	// 5. Services and handlers
	chatService := services.NewChatService(chatStore)
	titleService := services.NewTitleService(client, cfg.TitleTemperature, log)
	streamService := services.NewStreamService(services.StreamServiceConfig{
		Store:        chatStore,
		LLM:          client,
		Titles:       titleService,
		Locker:       locker,
		Mode:         mode,
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  cfg.ChatTemperature,
		Logger:       log,
	})

	router := api.NewRouter(api.RouterDependencies{
		HealthHandler: handlers.NewHealthHandlers(mode.LLMEnabled, cfg.LLMModel),
		ChatHandler:   handlers.NewChatHandlers(chatService, log),
		StreamHandler: handlers.NewStreamHandlers(streamService, log),
		Config:        cfg,
		Logger:        log,
	})

	// 6. Configure and Start HTTP Server
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: streamed answers can legitimately run for minutes.
		IdleTimeout: 120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutdown signal received, initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return
	}
	log.Info().Msg("Server shutdown complete.")
}

func openDatabase(ctx context.Context, databaseURL string, log zerolog.Logger) (*pgxpool.Pool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dbpool, err := pgxpool.New(dbCtx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := dbpool.Ping(dbCtx); err != nil {
		dbpool.Close()
		return nil, err
	}
	log.Info().Msg("Database connection pool established and pinged successfully.")
	return dbpool, nil
}
