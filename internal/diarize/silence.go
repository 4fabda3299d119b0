package diarize

import (
	"context"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

const gapThreshold = 1.5 // seconds

// Silence alternates between two speakers whenever the pause between
// consecutive segments exceeds gapThreshold.
type Silence struct{}

func (Silence) Identify(_ context.Context, _ string, segments []models.Segment) ([]models.SpeakerTurn, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	turns := make([]models.SpeakerTurn, 0, len(segments))
	speaker := 1
	for i, s := range segments {
		if i > 0 && s.Start-segments[i-1].End > gapThreshold {
			speaker = 3 - speaker
		}
		turns = append(turns, turn(speakerName(speaker), s))
	}
	return turns, nil
}
