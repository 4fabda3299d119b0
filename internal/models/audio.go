package models

import (
	"time"

	"github.com/google/uuid"
)

type AudioFile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Filename    string    `json:"filename" db:"filename"`
	Extension   string    `json:"extension" db:"extension"`
	StoragePath string    `json:"storage_path,omitempty" db:"storage_path"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
