package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

type Store interface {
	Create(ctx context.Context, job *models.TranscriptionJob) error
	Get(ctx context.Context, id uuid.UUID) (*models.TranscriptionJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Complete(ctx context.Context, id uuid.UUID, result *models.TranscriptionResult) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

const jobColumns = `id, audio_id, language, include_summary, callback_url, status, result, error, created_at, updated_at`

func (s *PgStore) Create(ctx context.Context, job *models.TranscriptionJob) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO transcription_jobs (id, audio_id, language, include_summary, callback_url, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		job.ID, job.AudioID, job.Language, job.IncludeSummary, job.CallbackURL, job.Status,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, id uuid.UUID) (*models.TranscriptionJob, error) {
	var (
		job    models.TranscriptionJob
		result []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM transcription_jobs WHERE id = $1`, id,
	).Scan(&job.ID, &job.AudioID, &job.Language, &job.IncludeSummary, &job.CallbackURL,
		&job.Status, &result, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if len(result) > 0 {
		job.Result = &models.TranscriptionResult{}
		if err := json.Unmarshal(result, job.Result); err != nil {
			return nil, fmt.Errorf("decode job result: %w", err)
		}
	}
	return &job, nil
}

func (s *PgStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return s.exec(ctx, "UPDATE transcription_jobs SET status = $2, updated_at = now() WHERE id = $1", id, status)
}

func (s *PgStore) Complete(ctx context.Context, id uuid.UUID, result *models.TranscriptionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode job result: %w", err)
	}
	return s.exec(ctx,
		"UPDATE transcription_jobs SET status = $2, result = $3, error = '', updated_at = now() WHERE id = $1",
		id, models.JobStatusCompleted, data)
}

func (s *PgStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return s.exec(ctx,
		"UPDATE transcription_jobs SET status = $2, error = $3, updated_at = now() WHERE id = $1",
		id, models.JobStatusFailed, reason)
}

func (s *PgStore) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryStore keeps jobs in process. Used when no database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]models.TranscriptionJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]models.TranscriptionJob)}
}

func (s *MemoryStore) Create(_ context.Context, job *models.TranscriptionJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	job.CreatedAt, job.UpdatedAt = now, now
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.TranscriptionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	return s.update(id, func(j *models.TranscriptionJob) { j.Status = status })
}

func (s *MemoryStore) Complete(_ context.Context, id uuid.UUID, result *models.TranscriptionResult) error {
	return s.update(id, func(j *models.TranscriptionJob) {
		j.Status = models.JobStatusCompleted
		j.Result = result
		j.Error = ""
	})
}

func (s *MemoryStore) Fail(_ context.Context, id uuid.UUID, reason string) error {
	return s.update(id, func(j *models.TranscriptionJob) {
		j.Status = models.JobStatusFailed
		j.Error = reason
	})
}

func (s *MemoryStore) update(id uuid.UUID, fn func(*models.TranscriptionJob)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(&job)
	job.UpdatedAt = time.Now().UTC()
	s.jobs[id] = job
	return nil
}
