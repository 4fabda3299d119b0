// Package summarize produces a speaker attributed summary and key points.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/royfrenk/cursor-transcribe/internal/llm"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

var ErrEmptyTranscript = errors.New("nothing to summarize")

const (
	summarySystem   = "You are a content summarization expert. Create clear, concise summaries that maintain the key points and speaker attribution."
	keyPointsSystem = "Extract the main key points from the summary, maintaining speaker attribution."
)

type Summary struct {
	Summary   string `json:"summary"`
	KeyPoints string `json:"key_points"`
}

type Summarizer struct {
	gateway llm.Gateway
	model   string
}

func New(gw llm.Gateway, model string) *Summarizer {
	return &Summarizer{gateway: gw, model: model}
}

// Summarize makes two calls: one for the summary, then one that extracts key
// points from that summary.
func (s *Summarizer) Summarize(ctx context.Context, text string, speakers []models.SpeakerTurn) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}

	var b strings.Builder
	b.WriteString("Please provide a comprehensive summary of this conversation, highlighting the main points discussed by each speaker. Format the summary to clearly indicate who said what.\n\n")
	fmt.Fprintf(&b, "Transcription:\n%s\n", text)
	if len(speakers) > 0 {
		b.WriteString("\nSpeakers:\n")
		for _, t := range speakers {
			fmt.Fprintf(&b, "%s: %s\n", t.SpeakerID, t.Text)
		}
	}

	summary, err := s.chat(ctx, summarySystem, b.String())
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	keyPoints, err := s.chat(ctx, keyPointsSystem, "Based on this summary, extract the key points discussed:\n\n"+summary)
	if err != nil {
		return nil, fmt.Errorf("extract key points: %w", err)
	}

	return &Summary{Summary: summary, KeyPoints: keyPoints}, nil
}

func (s *Summarizer) chat(ctx context.Context, system, prompt string) (string, error) {
	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model:    s.model,
		Messages: []llm.Message{llm.System(system), llm.User(prompt)},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
