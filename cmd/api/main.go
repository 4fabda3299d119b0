package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/royfrenk/cursor-transcribe/internal/api"
	"github.com/royfrenk/cursor-transcribe/internal/api/handlers"
	"github.com/royfrenk/cursor-transcribe/internal/app"
	"github.com/royfrenk/cursor-transcribe/internal/config"
	"github.com/royfrenk/cursor-transcribe/internal/jobs"
	"github.com/royfrenk/cursor-transcribe/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	app.SetupLogger(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	services := api.Services{
		Audio:    a.Audio,
		Pipeline: a.Pipeline,
		Checks:   map[string]handlers.Pinger{},
	}
	if a.DB != nil {
		services.Checks["database"] = a.DB
	}
	if a.Cache != nil {
		services.Checks["redis"] = a.Cache
	}

	// Jobs are handed to a separate worker process, so both sides need the
	// shared Postgres store and the Redis queue.
	if a.DB != nil && a.Redis != nil {
		qc := queue.NewClient(cfg.Redis)
		defer qc.Close()

		jobSvc := jobs.NewService(a.Jobs, a.Audio, qc)
		services.Jobs = jobSvc
		services.JobResults = jobSvc
	} else {
		slog.Warn("job routes disabled, database and redis are both required")
	}

	router := api.NewRouter(cfg, services)
	handler := router.Setup()

	stop := make(chan struct{})
	if rl := router.RateLimiter(); rl != nil {
		go rl.Run(stop)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	close(stop)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
