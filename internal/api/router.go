package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/prasetyadi/meeting-summarizer/internal/api/handler"
	customMiddleware "github.com/prasetyadi/meeting-summarizer/internal/api/middleware"
	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/service"
	"github.com/prasetyadi/meeting-summarizer/internal/session"
	"github.com/prasetyadi/meeting-summarizer/internal/summarizer"
	"github.com/prasetyadi/meeting-summarizer/internal/transcriber"
)

// NewRouter creates and configures the HTTP router. The adapters are
// injected so tests can swap in scripted implementations.
func NewRouter(cfg *config.Manager, store *session.Store, t transcriber.Transcriber, s summarizer.Summarizer) http.Handler {
	r := chi.NewRouter()

	// Global middleware. No global timeout: transcription and AI calls
	// carry their own configured deadlines, which can be long.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	svc := service.NewMeetingService(cfg, store, t, s)

	healthHandler := handler.NewHealthHandler(svc)
	meetingHandler := handler.NewMeetingHandler(svc, cfg)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Post("/upload", meetingHandler.Upload)
		r.Post("/chat", meetingHandler.Chat)
		r.Post("/regenerate", meetingHandler.Regenerate)
		r.Post("/finalize", meetingHandler.Finalize)

		r.Get("/download/{sessionID}", meetingHandler.Download)
		r.Get("/session/{sessionID}", meetingHandler.GetSession)
	})

	return r
}
