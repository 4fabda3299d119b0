package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/audio"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

type AudioService interface {
	Upload(ctx context.Context, req audio.UploadRequest) (*models.AudioFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AudioHandler struct {
	svc     AudioService
	maxSize int64
}

func NewAudioHandler(svc AudioService, maxSize int64) *AudioHandler {
	return &AudioHandler{svc: svc, maxSize: maxSize}
}

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 1 << 20

func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, audio.ErrTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	f, err := h.svc.Upload(r.Context(), audio.UploadRequest{
		Filename: header.Filename,
		Size:     header.Size,
		Data:     file,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"file_id":    f.ID,
		"filename":   f.Filename,
		"size_bytes": f.SizeBytes,
		"status":     "uploaded",
	})
}

func (h *AudioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseFileID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid file id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_id": id.String(), "status": "deleted"})
}
