package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/meetingai/internal/api/handlers"
	"github.com/nikhilbhutani/meetingai/internal/api/middleware"
	"github.com/nikhilbhutani/meetingai/internal/config"
	"github.com/nikhilbhutani/meetingai/internal/storage"
	"github.com/nikhilbhutani/meetingai/internal/stt"
)

// Services holds the long-lived dependencies built once at startup and shared
// by every request.
type Services struct {
	Store      storage.Storage
	STT        stt.STTProvider
	Summarizer handlers.Summarizer
	// Checks are reported by /readyz in addition to the upload dir write check.
	Checks map[string]handlers.Check
}

type Router struct {
	mux *chi.Mux
	cfg *config.Config
	svc Services
}

func NewRouter(cfg *config.Config, svc Services) *Router {
	return &Router{
		mux: chi.NewRouter(),
		cfg: cfg,
		svc: svc,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.CORS.AllowedOrigins))

	checks := map[string]handlers.Check{"uploads": rt.svc.Store.CheckWritable}
	for name, check := range rt.svc.Checks {
		checks[name] = check
	}
	health := handlers.NewHealthHandler(checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	media := handlers.NewMediaHandler(rt.svc.Store, rt.svc.STT, rt.svc.Summarizer, handlers.MediaOptions{
		MaxUploadBytes: rt.cfg.Upload.MaxBytes,
		DecodeFallback: rt.cfg.Summary.DecodeFallback,
	})
	r.Post("/upload", media.Upload)
	r.Post("/transcribe", media.Transcribe)
	r.Post("/summarize", media.Summarize)

	return r
}
