// Package main is the entrypoint for the VidScribe API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgummadi/vidscribe/internal/ai"
	"github.com/rgummadi/vidscribe/internal/api"
	"github.com/rgummadi/vidscribe/internal/api/handler"
	mw "github.com/rgummadi/vidscribe/internal/api/middleware"
	"github.com/rgummadi/vidscribe/internal/cache"
	"github.com/rgummadi/vidscribe/internal/config"
	"github.com/rgummadi/vidscribe/internal/pipeline"
	"github.com/rgummadi/vidscribe/internal/query"
	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/internal/summarize"
	"github.com/rgummadi/vidscribe/internal/transcribe"
	"github.com/rgummadi/vidscribe/internal/voice"
)

const (
	shutdownTimeout = 30 * time.Second

	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create chat providers and adapters
	primary, fallback := ai.NewProviders(cfg.AI)
	if fallback != nil {
		slog.Info("chat providers initialized", "primary", primary.Name(), "fallback", fallback.Name())
	} else {
		slog.Info("chat provider initialized", "primary", primary.Name())
	}

	assemblyAI := transcribe.NewAssemblyAIClient(cfg.AssemblyAI)
	whisper := transcribe.NewWhisperClient(cfg.AI.OpenAI)
	summarizer := summarize.NewService(primary, fallback)
	querySvc := query.NewService(primary)

	// 6. Create store and services
	pgStore := store.NewPostgresStore(pool)
	voiceSvc := voice.NewService(pgStore, primary, cfg.LiveKit)
	orchestrator := pipeline.NewOrchestrator(pgStore, redisCache, assemblyAI, summarizer, cfg.AI.InferenceTimeout)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, rateLimitRequests, rateLimitWindow),

		HealthHandler:       handler.NewHealthHandler(),
		ProcessHandler:      handler.NewProcessHandler(orchestrator),
		StatusHandler:       handler.NewStatusHandler(orchestrator),
		TranscribeHandler:   handler.NewTranscribeHandler(whisper, cfg.Upload.Dir),
		QueryHandler:        handler.NewQueryHandler(orchestrator, querySvc),
		VoiceSessionHandler: handler.NewVoiceSessionHandler(voiceSvc),
		EvaluateHandler:     handler.NewEvaluateHandler(voiceSvc),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let in-flight pipeline runs reach a persisted terminal state.
	orchestrator.Wait()

	slog.Info("server stopped gracefully")
	return nil
}
