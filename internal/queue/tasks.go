package queue

const (
	TypeTranscriptionProcess = "transcription:process"
)

type TranscriptionProcessPayload struct {
	JobID string `json:"job_id"`
}
