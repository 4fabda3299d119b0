package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/royfrenk/cursor-transcribe/internal/api/handlers"
	"github.com/royfrenk/cursor-transcribe/internal/api/middleware"
	"github.com/royfrenk/cursor-transcribe/internal/config"
)

// Services are the collaborators behind the HTTP API. Jobs and JobResults may
// be nil when no queue is available; the job routes are then not mounted.
type Services struct {
	Audio      handlers.AudioService
	Pipeline   handlers.Pipeline
	Jobs       handlers.JobService
	JobResults handlers.JobResults
	Checks     map[string]handlers.Pinger
}

type Router struct {
	mux      *chi.Mux
	cfg      *config.Config
	services Services
	limiter  *middleware.RateLimiter
}

func NewRouter(cfg *config.Config, services Services) *Router {
	rt := &Router{
		mux:      chi.NewRouter(),
		cfg:      cfg,
		services: services,
	}
	if cfg.Server.RateLimit > 0 {
		rt.limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	return rt
}

// RateLimiter returns the limiter so the caller can run its sweeper, or nil.
func (rt *Router) RateLimiter() *middleware.RateLimiter {
	return rt.limiter
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	health := handlers.NewHealthHandler(rt.services.Checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(rt.limiter.Limit)
		}

		audioH := handlers.NewAudioHandler(rt.services.Audio, rt.cfg.Upload.MaxSizeBytes)
		r.Post("/upload", audioH.Upload)
		r.Delete("/upload/{id}", audioH.Delete)

		transcriptionH := handlers.NewTranscriptionHandler(rt.services.Pipeline)
		r.Post("/transcribe", transcriptionH.Transcribe)
		r.Post("/summarize", transcriptionH.Summarize)

		exportH := handlers.NewExportHandler(rt.services.Pipeline, rt.services.JobResults)
		r.Post("/export", exportH.Export)

		if rt.services.Jobs != nil {
			jobH := handlers.NewJobHandler(rt.services.Jobs)
			r.Route("/jobs", func(r chi.Router) {
				r.Post("/", jobH.Create)
				r.Get("/{id}", jobH.Get)
				if rt.services.JobResults != nil {
					r.Get("/{id}/export", exportH.JobExport)
				}
			})
		}
	})

	return r
}
