package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/export"
	"github.com/royfrenk/cursor-transcribe/internal/models"
	"github.com/royfrenk/cursor-transcribe/internal/transcription"
)

// JobResults serves stored results of finished jobs.
type JobResults interface {
	Result(ctx context.Context, id uuid.UUID) (*models.TranscriptionResult, error)
}

type ExportHandler struct {
	pipeline Pipeline
	jobs     JobResults
}

func NewExportHandler(p Pipeline, jobs JobResults) *ExportHandler {
	return &ExportHandler{pipeline: p, jobs: jobs}
}

type exportRequest struct {
	FileID         string `json:"file_id"`
	Format         string `json:"format"`
	IncludeSummary bool   `json:"include_summary"`
	Language       string `json:"language"`
}

// Export processes the upload and returns it as a file download.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, ok := parseFileID(req.FileID)
	if !ok {
		writeError(w, http.StatusBadRequest, "valid file_id required")
		return
	}
	format, err := export.LookupFormat(req.Format)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.pipeline.Process(r.Context(), transcription.ProcessOptions{
		FileID:         id,
		Language:       req.Language,
		IncludeSummary: req.IncludeSummary,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.send(w, r, id.String(), format, result)
}

// JobExport renders the stored result of a completed job.
func (h *ExportHandler) JobExport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseFileID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = export.FormatTXT
	}
	format, err := export.LookupFormat(name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.jobs.Result(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.send(w, r, id.String(), format, result)
}

func (h *ExportHandler) send(w http.ResponseWriter, r *http.Request, id string, format export.FormatInfo, result *models.TranscriptionResult) {
	body, err := export.Render(format.Name, result)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(id, format)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}
