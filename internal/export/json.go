package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// RenderJSON serializes the whole result, including extra fields, with
// two-space indentation.
func RenderJSON(r *models.TranscriptionResult) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("encode transcription: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
