package storage

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
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	require.NoError(t, s.Upload(ctx, "audio", "abc.mp3", strings.NewReader("bytes"), "audio/mpeg"))

	rc, err := s.Download(ctx, "audio", "abc.mp3")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "bytes", string(data))

	require.NoError(t, s.Delete(ctx, "audio", "abc.mp3"))

	_, err = s.Download(ctx, "audio", "abc.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "audio", "abc.mp3"), ErrNotFound)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	tests := []struct {
		name   string
		bucket string
		path   string
	}{
		{name: "bucket traversal", bucket: "..", path: "x.mp3"},
		{name: "nested bucket", bucket: "a/b", path: "x.mp3"},
		{name: "empty path", bucket: "audio", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Upload(ctx, tt.bucket, tt.path, strings.NewReader("x"), "")
			assert.Error(t, err)
		})
	}

	t.Run("path traversal stays inside bucket", func(t *testing.T) {
		require.NoError(t, s.Upload(ctx, "audio", "../../escape.mp3", strings.NewReader("x"), ""))
		rc, err := s.Download(ctx, "audio", "escape.mp3")
		require.NoError(t, err)
		rc.Close()
	})
}

func TestSupabaseStorage(t *testing.T) {
	objects := map[string]string{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/")

		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "audio/wav", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			objects[key] = string(body)
		case http.MethodGet:
			body, ok := objects[key]
			if !ok {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			io.WriteString(w, body)
		case http.MethodDelete:
			if _, ok := objects[key]; !ok {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			delete(objects, key)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	s := NewSupabaseStorage(srv.URL+"/", "service-key")

	require.NoError(t, s.Upload(ctx, "audio-files", "id.wav", strings.NewReader("pcm"), "audio/wav"))
	assert.Equal(t, "pcm", objects["audio-files/id.wav"])

	rc, err := s.Download(ctx, "audio-files", "id.wav")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "pcm", string(data))

	require.NoError(t, s.Delete(ctx, "audio-files", "id.wav"))
	_, err = s.Download(ctx, "audio-files", "id.wav")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "audio-files", "id.wav"), ErrNotFound)
}

func TestNew(t *testing.T) {
	s, err := New(config.StorageConfig{Backend: "local", LocalRoot: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	s, err = New(config.StorageConfig{Backend: "supabase", SupabaseURL: "http://x", SupabaseKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStorage{}, s)

	_, err = New(config.StorageConfig{Backend: "gcs"})
	assert.Error(t, err)
}
