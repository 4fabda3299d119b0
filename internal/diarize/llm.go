package diarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/royfrenk/cursor-transcribe/internal/llm"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

const systemPrompt = `You are a speaker diarization expert. Analyze the transcription and identify different speakers based on context, speech patterns, and content.

Respond with ONLY a JSON object of the form:
{"speakers": [{"segment": 1, "speaker": "Speaker 1"}, ...]}

Label every numbered segment. Use "Speaker 1", "Speaker 2", etc. No markdown, no explanation.`

// LLM asks a chat model to label each numbered segment.
type LLM struct {
	gateway llm.Gateway
	model   string
}

func NewLLM(gw llm.Gateway, model string) *LLM {
	return &LLM{gateway: gw, model: model}
}

type labelReply struct {
	Speakers []struct {
		Segment int    `json:"segment"`
		Speaker string `json:"speaker"`
	} `json:"speakers"`
}

func (d *LLM) Identify(ctx context.Context, text string, segments []models.Segment) ([]models.SpeakerTurn, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transcription:\n%s\n\nSegments:\n", text)
	for i, s := range segments {
		fmt.Fprintf(&b, "%d. [%.2f-%.2f] %s\n", i+1, s.Start, s.End, s.Text)
	}

	resp, err := d.gateway.Chat(ctx, llm.ChatRequest{
		Model:       d.model,
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(b.String())},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("speaker identification: %w", err)
	}

	var reply labelReply
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &reply); err != nil {
		return nil, fmt.Errorf("parse speaker labels: %w", err)
	}

	labels := make(map[int]string, len(reply.Speakers))
	for _, l := range reply.Speakers {
		if name := strings.TrimSpace(l.Speaker); name != "" {
			labels[l.Segment] = name
		}
	}

	// Unlabelled segments inherit the previous speaker.
	turns := make([]models.SpeakerTurn, 0, len(segments))
	current := speakerName(1)
	for i, s := range segments {
		if name, ok := labels[i+1]; ok {
			current = name
		}
		turns = append(turns, turn(current, s))
	}
	return turns, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
