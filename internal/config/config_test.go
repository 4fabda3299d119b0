package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.LocalRoot)
	assert.Equal(t, int64(500*1024*1024), cfg.Upload.MaxSizeBytes)
	assert.Equal(t, []string{"mp3", "mp4", "wav"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "whisper-1", cfg.STT.OpenAIModel)
	assert.Equal(t, "llm", cfg.Pipeline.DiarizeBackend)
	assert.Equal(t, 24*time.Hour, cfg.Pipeline.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DIARIZE_BACKEND", "Silence")
	t.Setenv("TRANSCRIPTION_CACHE_TTL", "90m")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIKey)
	assert.Equal(t, "sk-test", cfg.STT.OpenAIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "silence", cfg.Pipeline.DiarizeBackend)
	assert.Equal(t, 90*time.Minute, cfg.Pipeline.CacheTTL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  port: 7070
storage:
  backend: supabase
  bucket: recordings
upload:
  allowed_extensions: [mp3, wav]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("file values", func(t *testing.T) {
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "supabase", cfg.Storage.Backend)
		assert.Equal(t, "recordings", cfg.Storage.Bucket)
		assert.Equal(t, []string{"mp3", "wav"}, cfg.Upload.AllowedExtensions)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "6060")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 6060, cfg.Server.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadFile("")
		require.NoError(t, err)
		cfg.STT.OpenAIKey = "sk-test"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "local stt needs no key", mutate: func(c *Config) {
			c.STT.Backend = "local"
			c.STT.OpenAIKey = ""
		}},
		{name: "missing openai key", mutate: func(c *Config) { c.STT.OpenAIKey = "" }, wantErr: "OPENAI_API_KEY"},
		{name: "supabase without credentials", mutate: func(c *Config) { c.Storage.Backend = "supabase" }, wantErr: "SUPABASE_URL, SUPABASE_SERVICE_KEY"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: "STORAGE_BACKEND"},
		{name: "unknown stt", mutate: func(c *Config) { c.STT.Backend = "azure" }, wantErr: "STT_BACKEND"},
		{name: "unknown diarizer", mutate: func(c *Config) { c.Pipeline.DiarizeBackend = "pyannote" }, wantErr: "DIARIZE_BACKEND"},
		{name: "zero upload size", mutate: func(c *Config) { c.Upload.MaxSizeBytes = 0 }, wantErr: "UPLOAD_MAX_SIZE_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
