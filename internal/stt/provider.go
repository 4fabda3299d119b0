// Package stt turns recorded audio into timed transcript segments.
package stt

import (
	"context"
	"io"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// Request holds the parameters for audio transcription.
type Request struct {
	Audio    io.Reader
	Filename string // used by the backend to detect the audio container
	Language string
	Prompt   string
}

// Transcript is the recognizer output before any post processing.
type Transcript struct {
	Text     string
	Language string
	Duration float64
	Segments []models.Segment
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Transcript, error)
	Name() string
}
