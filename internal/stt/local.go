package stt

// NewLocal returns a client for a local whisper.cpp server exposing the
// OpenAI compatible transcription route.
// Start the server with: ./server -m models/ggml-base.en.bin --port 8178
func NewLocal(baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	o := NewOpenAI(OpenAIConfig{BaseURL: baseURL})
	o.name = "local-whisper"
	return o
}
