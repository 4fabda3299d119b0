package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/jobs"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

type JobService interface {
	Submit(ctx context.Context, req jobs.SubmitRequest) (*models.TranscriptionJob, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TranscriptionJob, error)
}

type JobHandler struct {
	svc JobService
}

func NewJobHandler(svc JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type createJobRequest struct {
	FileID         string `json:"file_id"`
	Language       string `json:"language"`
	IncludeSummary bool   `json:"include_summary"`
	CallbackURL    string `json:"callback_url"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, ok := parseFileID(req.FileID)
	if !ok {
		writeError(w, http.StatusBadRequest, "valid file_id required")
		return
	}
	if req.CallbackURL != "" {
		u, err := url.Parse(req.CallbackURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			writeError(w, http.StatusBadRequest, "callback_url must be an http(s) URL")
			return
		}
	}

	job, err := h.svc.Submit(r.Context(), jobs.SubmitRequest{
		FileID:         id,
		Language:       req.Language,
		IncludeSummary: req.IncludeSummary,
		CallbackURL:    req.CallbackURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseFileID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
