package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/royfrenk/cursor-transcribe/internal/app"
	"github.com/royfrenk/cursor-transcribe/internal/config"
	"github.com/royfrenk/cursor-transcribe/internal/queue"
	"github.com/royfrenk/cursor-transcribe/internal/queue/workers"
	"github.com/royfrenk/cursor-transcribe/internal/webhook"
)

const concurrency = 4

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

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.DB == nil {
		slog.Error("worker requires a database to share jobs with the API")
		os.Exit(1)
	}

	dispatcher := webhook.NewDispatcher(cfg.Webhook.Secret, webhook.NewPgRecorder(a.DB), cfg.Webhook.Timeout)
	defer dispatcher.Close()

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	transcriptionWorker := workers.NewTranscriptionWorker(a.Jobs, a.Pipeline, dispatcher)
	if err := registry.Register(queue.TypeTranscriptionProcess, asynq.HandlerFunc(transcriptionWorker.ProcessTask)); err != nil {
		slog.Error("register handler", "error", err)
		os.Exit(1)
	}

	slog.Info("starting worker", "concurrency", concurrency, "task_types", registry.Types())
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
