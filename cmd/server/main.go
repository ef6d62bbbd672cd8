package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prasetyadi/meeting-summarizer/internal/api"
	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/session"
	"github.com/prasetyadi/meeting-summarizer/internal/summarizer/claudecli"
	"github.com/prasetyadi/meeting-summarizer/internal/transcriber/whisper"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("Loaded .env")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.New(os.Getenv("CONFIG_PATH"))

	log.Info().
		Str("addr", cfg.Addr()).
		Str("whisper_url", cfg.WhisperURL()).
		Str("claude_command", cfg.ClaudeCommand()).
		Msg("Starting meeting summarizer server")

	store := session.NewStore()
	transcriber := whisper.NewClient(cfg)
	summarizer := claudecli.NewRunner(cfg)

	router := api.NewRouter(cfg, store, transcriber, summarizer)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// SIGHUP reloads configuration without a restart.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			cfg.Reload()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
