package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// Repository keeps audio file metadata.
type Repository interface {
	Create(ctx context.Context, f *models.AudioFile) error
	Get(ctx context.Context, id uuid.UUID) (*models.AudioFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PgRepository struct {
	db *pgxpool.Pool
}

func NewPgRepository(db *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Create(ctx context.Context, f *models.AudioFile) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO audio_files (id, filename, extension, storage_path, size_bytes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		f.ID, f.Filename, f.Extension, f.StoragePath, f.SizeBytes,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audio file: %w", err)
	}
	return nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.AudioFile, error) {
	var f models.AudioFile
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, extension, storage_path, size_bytes, created_at
		 FROM audio_files WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.Filename, &f.Extension, &f.StoragePath, &f.SizeBytes, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audio file: %w", err)
	}
	return &f, nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM audio_files WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete audio file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryRepository is used when no database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	files map[uuid.UUID]models.AudioFile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: make(map[uuid.UUID]models.AudioFile)}
}

func (r *MemoryRepository) Create(_ context.Context, f *models.AudioFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[f.ID] = *f
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*models.AudioFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrNotFound
	}
	delete(r.files, id)
	return nil
}
