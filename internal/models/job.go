package models

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptionJob struct {
	ID             uuid.UUID            `json:"id" db:"id"`
	AudioID        uuid.UUID            `json:"file_id" db:"audio_id"`
	Language       string               `json:"language,omitempty" db:"language"`
	IncludeSummary bool                 `json:"include_summary" db:"include_summary"`
	CallbackURL    string               `json:"callback_url,omitempty" db:"callback_url"`
	Status         string               `json:"status" db:"status"`
	Result         *TranscriptionResult `json:"result,omitempty" db:"result"`
	Error          string               `json:"error,omitempty" db:"error"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
}

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
