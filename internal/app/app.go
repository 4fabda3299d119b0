// Package app assembles the services shared by the API server and the worker.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/royfrenk/cursor-transcribe/internal/audio"
	"github.com/royfrenk/cursor-transcribe/internal/cache"
	"github.com/royfrenk/cursor-transcribe/internal/config"
	"github.com/royfrenk/cursor-transcribe/internal/database"
	"github.com/royfrenk/cursor-transcribe/internal/diarize"
	"github.com/royfrenk/cursor-transcribe/internal/jobs"
	"github.com/royfrenk/cursor-transcribe/internal/llm"
	"github.com/royfrenk/cursor-transcribe/internal/storage"
	"github.com/royfrenk/cursor-transcribe/internal/stt"
	"github.com/royfrenk/cursor-transcribe/internal/summarize"
	"github.com/royfrenk/cursor-transcribe/internal/transcription"
)

// SetupLogger installs a JSON slog handler at the configured level.
func SetupLogger(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})))
}

// App holds the wired services. DB and Redis are nil when unavailable.
type App struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Cache    *cache.Cache
	Audio    *audio.Service
	Pipeline *transcription.Pipeline
	Jobs     jobs.Store
}

// New connects to the optional backing services and builds the pipeline.
// Postgres and Redis failures are logged and the app falls back to in-memory
// stores and no caching.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	if cfg.Database.URL != "" {
		db, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, using in-memory stores", "error", err)
		} else if err := database.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		} else {
			a.DB = db
		}
	}

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	} else {
		a.Redis = rdb
		a.Cache = cache.NewCache(rdb, "transcription:")
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var repo audio.Repository = audio.NewMemoryRepository()
	a.Jobs = jobs.NewMemoryStore()
	if a.DB != nil {
		repo = audio.NewPgRepository(a.DB)
		a.Jobs = jobs.NewPgStore(a.DB)
	}
	a.Audio = audio.NewService(repo, store, cfg.Storage.Bucket, cfg.Upload.MaxSizeBytes, cfg.Upload.AllowedExtensions)

	recognizer, err := stt.New(cfg.STT)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init speech recognition: %w", err)
	}

	gw := llm.NewGateway(cfg.LLM)
	diarizer, err := diarize.New(cfg.Pipeline.DiarizeBackend, gw, cfg.LLM.DefaultModel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init diarization: %w", err)
	}

	var opts []transcription.Option
	if cfg.Pipeline.CorrectionEnabled {
		opts = append(opts, transcription.WithCorrector(transcription.NewLLMCorrector(gw, cfg.Pipeline.CorrectionModel)))
	}
	if a.Cache != nil && cfg.Pipeline.CacheTTL > 0 {
		opts = append(opts, transcription.WithCache(a.Cache, cfg.Pipeline.CacheTTL))
	}
	a.Pipeline = transcription.NewPipeline(a.Audio, recognizer, diarizer, summarize.New(gw, cfg.Pipeline.SummaryModel), opts...)

	slog.Info("pipeline ready",
		"stt", recognizer.Name(),
		"diarize", cfg.Pipeline.DiarizeBackend,
		"correction", cfg.Pipeline.CorrectionEnabled,
		"cache", a.Cache != nil,
		"database", a.DB != nil,
	)
	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
