package transcription

import (
	"context"
	"strings"

	"github.com/royfrenk/cursor-transcribe/internal/llm"
)

const correctionSystem = "You are a transcription correction expert. Review the text and fix any obvious transcription errors while maintaining the original meaning. Reply with the corrected text only."

// LLMCorrector asks a chat model to fix recognition errors.
type LLMCorrector struct {
	gateway llm.Gateway
	model   string
}

func NewLLMCorrector(gw llm.Gateway, model string) *LLMCorrector {
	return &LLMCorrector{gateway: gw, model: model}
}

func (c *LLMCorrector) Correct(ctx context.Context, text string) (string, error) {
	resp, err := c.gateway.Chat(ctx, llm.ChatRequest{
		Model: c.model,
		Messages: []llm.Message{
			llm.System(correctionSystem),
			llm.User("Please review and correct this transcription:\n\n" + text),
		},
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	corrected := strings.TrimSpace(resp.Content)
	if corrected == "" {
		return text, nil
	}
	return corrected, nil
}
