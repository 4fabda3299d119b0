// Package jobs tracks asynchronous transcription requests.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

var (
	ErrNotFound     = errors.New("job not found")
	ErrNotCompleted = errors.New("job not completed")
)

// Enqueuer hands a job id to the background workers.
type Enqueuer interface {
	EnqueueTranscription(ctx context.Context, jobID uuid.UUID) error
}

// AudioLookup confirms the referenced upload exists.
type AudioLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.AudioFile, error)
}

type Service struct {
	store    Store
	audio    AudioLookup
	enqueuer Enqueuer
}

func NewService(store Store, audio AudioLookup, enqueuer Enqueuer) *Service {
	return &Service{store: store, audio: audio, enqueuer: enqueuer}
}

type SubmitRequest struct {
	FileID         uuid.UUID
	Language       string
	IncludeSummary bool
	CallbackURL    string
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.TranscriptionJob, error) {
	if _, err := s.audio.Get(ctx, req.FileID); err != nil {
		return nil, err
	}

	job := &models.TranscriptionJob{
		ID:             uuid.New(),
		AudioID:        req.FileID,
		Language:       req.Language,
		IncludeSummary: req.IncludeSummary,
		CallbackURL:    req.CallbackURL,
		Status:         models.JobStatusQueued,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := s.enqueuer.EnqueueTranscription(ctx, job.ID); err != nil {
		if ferr := s.store.Fail(ctx, job.ID, "enqueue failed"); ferr != nil {
			slog.Error("mark job failed", "job_id", job.ID, "error", ferr)
		}
		return nil, fmt.Errorf("enqueue job: %w", err)
	}

	slog.Info("transcription job queued", "job_id", job.ID, "file_id", job.AudioID)
	return job, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.TranscriptionJob, error) {
	return s.store.Get(ctx, id)
}

// Result returns the stored result of a completed job.
func (s *Service) Result(ctx context.Context, id uuid.UUID) (*models.TranscriptionResult, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusCompleted || job.Result == nil {
		return nil, fmt.Errorf("%w: status %s", ErrNotCompleted, job.Status)
	}
	return job.Result, nil
}
