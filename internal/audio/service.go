// Package audio stores uploaded recordings and their metadata.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/models"
	"github.com/royfrenk/cursor-transcribe/internal/storage"
)

var (
	ErrNotFound        = errors.New("audio file not found")
	ErrUnsupportedType = errors.New("unsupported audio file type")
	ErrTooLarge        = errors.New("audio file too large")
)

var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"mp4":  "audio/mp4",
	"wav":  "audio/wav",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"webm": "audio/webm",
	"flac": "audio/flac",
}

type Service struct {
	repo    Repository
	storage storage.Storage
	bucket  string
	maxSize int64
	allowed map[string]bool
}

func NewService(repo Repository, store storage.Storage, bucket string, maxSize int64, allowedExt []string) *Service {
	allowed := make(map[string]bool, len(allowedExt))
	for _, ext := range allowedExt {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Service{
		repo:    repo,
		storage: store,
		bucket:  bucket,
		maxSize: maxSize,
		allowed: allowed,
	}
}

type UploadRequest struct {
	Filename string
	Size     int64 // declared size, -1 when unknown
	Data     io.Reader
}

func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.AudioFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	if !s.allowed[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, req.Filename)
	}
	if req.Size > s.maxSize {
		return nil, ErrTooLarge
	}

	id := uuid.New()
	path := id.String() + "." + ext

	lr := &limitedReader{r: req.Data, remaining: s.maxSize}
	if err := s.storage.Upload(ctx, s.bucket, path, lr, contentTypes[ext]); err != nil {
		if lr.exceeded {
			_ = s.storage.Delete(ctx, s.bucket, path)
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	f := &models.AudioFile{
		ID:          id,
		Filename:    filepath.Base(req.Filename),
		Extension:   ext,
		StoragePath: path,
		SizeBytes:   lr.read,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.storage.Delete(ctx, s.bucket, path)
		return nil, err
	}

	slog.Info("audio uploaded", "file_id", id, "size_bytes", f.SizeBytes, "extension", ext)
	return f, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.AudioFile, error) {
	return s.repo.Get(ctx, id)
}

// Open returns the file metadata together with a stream of its contents.
// The caller closes the stream.
func (s *Service) Open(ctx context.Context, id uuid.UUID) (*models.AudioFile, io.ReadCloser, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Download(ctx, s.bucket, f.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("download audio: %w", err)
	}
	return f, rc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, s.bucket, f.StoragePath); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete from storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// limitedReader fails the read once more than remaining bytes have been seen.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
