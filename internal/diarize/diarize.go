// Package diarize attributes transcript segments to speakers.
package diarize

import (
	"context"
	"fmt"

	"github.com/royfrenk/cursor-transcribe/internal/llm"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// Diarizer produces one speaker turn per attributed segment. Turns reuse the
// segment's exact start and end so renderers can join them back.
type Diarizer interface {
	Identify(ctx context.Context, text string, segments []models.Segment) ([]models.SpeakerTurn, error)
}

// New builds the diarizer selected by backend.
func New(backend string, gw llm.Gateway, model string) (Diarizer, error) {
	switch backend {
	case "llm":
		return NewLLM(gw, model), nil
	case "silence":
		return Silence{}, nil
	case "", "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown diarize backend %q", backend)
	}
}

// None leaves speakers empty.
type None struct{}

func (None) Identify(context.Context, string, []models.Segment) ([]models.SpeakerTurn, error) {
	return nil, nil
}

func speakerName(n int) string {
	return fmt.Sprintf("Speaker %d", n)
}

func turn(speaker string, s models.Segment) models.SpeakerTurn {
	return models.SpeakerTurn{SpeakerID: speaker, Text: s.Text, Start: s.Start, End: s.End}
}
