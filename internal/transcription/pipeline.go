// Package transcription runs recorded audio through recognition, speaker
// attribution and summarization to build a TranscriptionResult.
package transcription

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/diarize"
	"github.com/royfrenk/cursor-transcribe/internal/models"
	"github.com/royfrenk/cursor-transcribe/internal/stt"
	"github.com/royfrenk/cursor-transcribe/internal/summarize"
)

// AudioSource looks up and opens stored recordings.
type AudioSource interface {
	Get(ctx context.Context, id uuid.UUID) (*models.AudioFile, error)
	Open(ctx context.Context, id uuid.UUID) (*models.AudioFile, io.ReadCloser, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, speakers []models.SpeakerTurn) (*summarize.Summary, error)
}

// Corrector rewrites recognized text to fix obvious recognition errors.
type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Cache stores processed results. *cache.Cache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Pipeline struct {
	audio      AudioSource
	recognizer stt.Provider
	diarizer   diarize.Diarizer
	summarizer Summarizer
	corrector  Corrector
	cache      Cache
	cacheTTL   time.Duration
}

type Option func(*Pipeline)

// WithCorrector enables the correction pass in Transcribe.
func WithCorrector(c Corrector) Option {
	return func(p *Pipeline) { p.corrector = c }
}

func WithCache(c Cache, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.cache = c
		p.cacheTTL = ttl
	}
}

func NewPipeline(audio AudioSource, recognizer stt.Provider, diarizer diarize.Diarizer, summarizer Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		audio:      audio,
		recognizer: recognizer,
		diarizer:   diarizer,
		summarizer: summarizer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type ProcessOptions struct {
	FileID         uuid.UUID
	Language       string
	IncludeSummary bool
}

func (o ProcessOptions) cacheKey() string {
	return fmt.Sprintf("%s:%s:%t", o.FileID, o.Language, o.IncludeSummary)
}

// Transcribe recognizes the audio and, when a corrector is configured,
// replaces the full text with its corrected form. Segments keep the
// recognizer's wording.
func (p *Pipeline) Transcribe(ctx context.Context, fileID uuid.UUID, language string) (*models.TranscriptionResult, error) {
	tr, err := p.recognize(ctx, fileID, language)
	if err != nil {
		return nil, err
	}

	text := tr.Text
	if p.corrector != nil && text != "" {
		corrected, err := p.corrector.Correct(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("transcription correction: %w", err)
		}
		text = corrected
	}

	return &models.TranscriptionResult{
		Text:     text,
		Segments: tr.Segments,
		Language: tr.Language,
	}, nil
}

// Process recognizes the audio, attributes speakers and optionally adds a
// summary. Results are cached when a cache is configured; a cached result is
// served only while the recording still exists.
func (p *Pipeline) Process(ctx context.Context, opts ProcessOptions) (*models.TranscriptionResult, error) {
	key := opts.cacheKey()
	if p.cache != nil {
		if _, err := p.audio.Get(ctx, opts.FileID); err != nil {
			return nil, err
		}
		var cached models.TranscriptionResult
		hit, err := p.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("transcription cache read failed", "key", key, "error", err)
		} else if hit {
			slog.Debug("transcription cache hit", "key", key)
			return &cached, nil
		}
	}

	start := time.Now()
	tr, err := p.recognize(ctx, opts.FileID, opts.Language)
	if err != nil {
		return nil, err
	}

	speakers, err := p.diarizer.Identify(ctx, tr.Text, tr.Segments)
	if err != nil {
		return nil, err
	}

	result := &models.TranscriptionResult{
		Text:     tr.Text,
		Segments: tr.Segments,
		Speakers: speakers,
		Language: tr.Language,
	}

	if opts.IncludeSummary {
		s, err := p.summarizer.Summarize(ctx, tr.Text, speakers)
		if err != nil {
			return nil, err
		}
		result.Summary = s.Summary
		result.KeyPoints = s.KeyPoints
	}

	slog.Info("transcription processed",
		"file_id", opts.FileID,
		"segments", len(result.Segments),
		"speakers", len(result.Speakers),
		"summary", opts.IncludeSummary,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, result, p.cacheTTL); err != nil {
			slog.Warn("transcription cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}

func (p *Pipeline) recognize(ctx context.Context, fileID uuid.UUID, language string) (*stt.Transcript, error) {
	f, rc, err := p.audio.Open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	tr, err := p.recognizer.Transcribe(ctx, stt.Request{
		Audio:    rc,
		Filename: f.StoragePath,
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	return tr, nil
}
