package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/royfrenk/cursor-transcribe/internal/models"
	"github.com/royfrenk/cursor-transcribe/internal/transcription"
)

type Pipeline interface {
	Transcribe(ctx context.Context, fileID uuid.UUID, language string) (*models.TranscriptionResult, error)
	Process(ctx context.Context, opts transcription.ProcessOptions) (*models.TranscriptionResult, error)
}

type TranscriptionHandler struct {
	pipeline Pipeline
}

func NewTranscriptionHandler(p Pipeline) *TranscriptionHandler {
	return &TranscriptionHandler{pipeline: p}
}

type transcribeRequest struct {
	FileID   string `json:"file_id"`
	Language string `json:"language"`
}

type transcribeResponse struct {
	TranscriptionID string           `json:"transcription_id"`
	Status          string           `json:"status"`
	Text            string           `json:"text"`
	Segments        []models.Segment `json:"segments"`
	Language        string           `json:"language"`
}

func (h *TranscriptionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, ok := parseFileID(req.FileID)
	if !ok {
		writeError(w, http.StatusBadRequest, "valid file_id required")
		return
	}

	result, err := h.pipeline.Transcribe(r.Context(), id, req.Language)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	segments := result.Segments
	if segments == nil {
		segments = []models.Segment{}
	}
	writeJSON(w, http.StatusOK, transcribeResponse{
		TranscriptionID: id.String(),
		Status:          "completed",
		Text:            result.Text,
		Segments:        segments,
		Language:        result.Language,
	})
}

func (h *TranscriptionHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, ok := parseFileID(req.FileID)
	if !ok {
		writeError(w, http.StatusBadRequest, "valid file_id required")
		return
	}

	result, err := h.pipeline.Process(r.Context(), transcription.ProcessOptions{
		FileID:         id,
		Language:       req.Language,
		IncludeSummary: true,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
