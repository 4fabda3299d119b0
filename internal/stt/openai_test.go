package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royfrenk/cursor-transcribe/internal/config"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

const verboseJSON = `{
  "task": "transcribe",
  "language": "english",
  "duration": 2.0,
  "text": " Hello world.",
  "segments": [
    {"id": 0, "seek": 0, "start": 0.0, "end": 1.0, "text": " Hello"},
    {"id": 1, "seek": 0, "start": 1.0, "end": 2.0, "text": " world."}
  ]
}`

func TestOpenAITranscribe(t *testing.T) {
	var gotFields map[string]string
	var gotAudio string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{
			"model":           r.FormValue("model"),
			"response_format": r.FormValue("response_format"),
			"language":        r.FormValue("language"),
		}
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotAudio = hdr.Filename + ":" + string(data)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, verboseJSON)
	}))
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})

	tr, err := p.Transcribe(context.Background(), Request{
		Audio:    strings.NewReader("RIFF"),
		Filename: "meeting.wav",
		Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "whisper-1", gotFields["model"])
	assert.Equal(t, "verbose_json", gotFields["response_format"])
	assert.Equal(t, "en", gotFields["language"])
	assert.Equal(t, "meeting.wav:RIFF", gotAudio)

	assert.Equal(t, "Hello world.", tr.Text)
	assert.Equal(t, "english", tr.Language)
	assert.Equal(t, 2.0, tr.Duration)
	assert.Equal(t, []models.Segment{
		{Text: "Hello", Start: 0, End: 1},
		{Text: "world.", Start: 1, End: 2},
	}, tr.Segments)
}

func TestOpenAITranscribeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"bad audio","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	t.Run("provider error", func(t *testing.T) {
		_, err := p.Transcribe(context.Background(), Request{Audio: strings.NewReader("x"), Filename: "a.mp3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad audio")
	})

	t.Run("missing audio", func(t *testing.T) {
		_, err := p.Transcribe(context.Background(), Request{})
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	p, err := New(config.STTConfig{Backend: "openai", OpenAIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai-whisper", p.Name())

	p, err = New(config.STTConfig{Backend: "local"})
	require.NoError(t, err)
	assert.Equal(t, "local-whisper", p.Name())

	_, err = New(config.STTConfig{Backend: "deepgram"})
	assert.Error(t, err)
}
