package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/royfrenk/cursor-transcribe/internal/audio"
	"github.com/royfrenk/cursor-transcribe/internal/jobs"
	"github.com/royfrenk/cursor-transcribe/internal/models"
	"github.com/royfrenk/cursor-transcribe/internal/queue"
	"github.com/royfrenk/cursor-transcribe/internal/transcription"
)

type Processor interface {
	Process(ctx context.Context, opts transcription.ProcessOptions) (*models.TranscriptionResult, error)
}

type Notifier interface {
	NotifyJob(job *models.TranscriptionJob)
}

type TranscriptionWorker struct {
	store     jobs.Store
	processor Processor
	notifier  Notifier
}

// NewTranscriptionWorker builds the handler for transcription tasks. notifier may be nil.
func NewTranscriptionWorker(store jobs.Store, processor Processor, notifier Notifier) *TranscriptionWorker {
	return &TranscriptionWorker{store: store, processor: processor, notifier: notifier}
}

func (w *TranscriptionWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.TranscriptionProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("parse job ID: %v: %w", err, asynq.SkipRetry)
	}

	job, err := w.store.Get(ctx, jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		return fmt.Errorf("job %s: %v: %w", jobID, err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job.Status == models.JobStatusCompleted {
		return nil
	}

	slog.Info("processing transcription job", "job_id", jobID, "file_id", job.AudioID)

	if err := w.store.UpdateStatus(ctx, jobID, models.JobStatusProcessing); err != nil {
		return fmt.Errorf("update status to processing: %w", err)
	}

	result, err := w.processor.Process(ctx, transcription.ProcessOptions{
		FileID:         job.AudioID,
		Language:       job.Language,
		IncludeSummary: job.IncludeSummary,
	})
	if err != nil {
		final := errors.Is(err, audio.ErrNotFound) || lastAttempt(ctx)
		if !final {
			slog.Warn("transcription job attempt failed, will retry", "job_id", jobID, "error", err)
			return err
		}
		slog.Error("transcription job failed", "job_id", jobID, "error", err)
		w.finish(ctx, job, models.JobStatusFailed, nil, err.Error())
		return fmt.Errorf("process job %s: %v: %w", jobID, err, asynq.SkipRetry)
	}

	w.finish(ctx, job, models.JobStatusCompleted, result, "")
	slog.Info("transcription job completed", "job_id", jobID)
	return nil
}

func (w *TranscriptionWorker) finish(ctx context.Context, job *models.TranscriptionJob, status string, result *models.TranscriptionResult, reason string) {
	var err error
	if status == models.JobStatusCompleted {
		err = w.store.Complete(ctx, job.ID, result)
	} else {
		err = w.store.Fail(ctx, job.ID, reason)
	}
	if err != nil {
		slog.Error("store job outcome", "job_id", job.ID, "status", status, "error", err)
	}

	job.Status = status
	job.Result = result
	job.Error = reason
	if w.notifier != nil {
		w.notifier.NotifyJob(job)
	}
}

// lastAttempt reports whether asynq will not retry the current task. Outside
// an asynq handler there is no retry metadata and every attempt is the last.
func lastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}
