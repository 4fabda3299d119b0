package export

import (
	"strings"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// RenderText produces the plain-text document: the transcript followed by the
// optional speaker, summary and key point sections. Absent sections are omitted.
func RenderText(r *models.TranscriptionResult) string {
	lines := []string{r.Text, ""}

	if len(r.Speakers) > 0 {
		lines = append(lines, "Speaker Information:")
		for _, s := range r.Speakers {
			lines = append(lines, s.SpeakerID+": "+s.Text)
		}
		lines = append(lines, "")
	}

	if r.Summary != "" {
		lines = append(lines, "Summary:", r.Summary, "")
	}

	if r.KeyPoints != "" {
		lines = append(lines, "Key Points:", r.KeyPoints, "")
	}

	return strings.Join(lines, "\n")
}
