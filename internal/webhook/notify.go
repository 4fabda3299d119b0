package webhook

import (
	"encoding/json"
	"log/slog"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

const (
	EventJobCompleted = "transcription.completed"
	EventJobFailed    = "transcription.failed"
)

type jobEvent struct {
	JobID  string `json:"job_id"`
	FileID string `json:"file_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NotifyJob queues a callback for a finished job. Jobs without a callback
// URL are ignored.
func (d *Dispatcher) NotifyJob(job *models.TranscriptionJob) {
	if job.CallbackURL == "" {
		return
	}

	event := EventJobCompleted
	if job.Status == models.JobStatusFailed {
		event = EventJobFailed
	}

	payload, err := json.Marshal(jobEvent{
		JobID:  job.ID.String(),
		FileID: job.AudioID.String(),
		Status: job.Status,
		Error:  job.Error,
	})
	if err != nil {
		slog.Error("encode webhook payload", "job_id", job.ID, "error", err)
		return
	}

	d.Enqueue(DeliveryRequest{
		JobID:   job.ID,
		URL:     job.CallbackURL,
		Event:   event,
		Payload: payload,
	})
}
