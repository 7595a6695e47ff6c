package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bridgeanchor/internal/analytics"
	"bridgeanchor/internal/chat"
	"bridgeanchor/internal/config"
	"bridgeanchor/internal/metrics"
	"bridgeanchor/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Chat provider; a missing credential is reported per request, not here
	provider, err := chat.NewProvider(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid chat provider")
	}
	if !provider.Configured() {
		logger.Warn().Str("provider", provider.Name()).Msg("Chat credential not set, /api/chat will fail until it is")
	}

	prompt := cfg.ChatSystemPrompt
	if prompt == "" {
		var known bool
		prompt, known = chat.SystemPrompt(cfg.ChatPersona)
		if !known {
			logger.Warn().Str("persona", cfg.ChatPersona).Msg("Unknown chat persona, using default")
		}
	}
	chatSvc := chat.NewService(provider, prompt, cfg.ChatMaxTokens)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector(nil)
	}

	// Create and initialize server
	srv := server.New(cfg, analytics.NewStore(), chatSvc, collector, logger)
	srv.Initialize()

	// Start server
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logger.Info().Msg("Server stopped")
}
