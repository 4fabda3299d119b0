package audio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royfrenk/cursor-transcribe/internal/storage"
)

func newTestService(t *testing.T, maxSize int64) (*Service, *storage.LocalStorage) {
	t.Helper()
	store := storage.NewLocalStorage(t.TempDir())
	return NewService(NewMemoryRepository(), store, "audio", maxSize, []string{"mp3", "mp4", ".WAV"}), store
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		size     int64
		data     string
		wantErr  error
	}{
		{name: "mp3", filename: "talk.mp3", size: 4, data: "abcd"},
		{name: "uppercase extension", filename: "TALK.WAV", size: -1, data: "abcd"},
		{name: "exact limit", filename: "a.mp4", size: -1, data: strings.Repeat("x", 10)},
		{name: "unsupported", filename: "notes.txt", size: 1, data: "x", wantErr: ErrUnsupportedType},
		{name: "no extension", filename: "audio", size: 1, data: "x", wantErr: ErrUnsupportedType},
		{name: "declared too large", filename: "a.mp3", size: 11, data: "x", wantErr: ErrTooLarge},
		{name: "streamed too large", filename: "a.mp3", size: -1, data: strings.Repeat("x", 11), wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, 10)

			f, err := svc.Upload(ctx, UploadRequest{Filename: tt.filename, Size: tt.size, Data: strings.NewReader(tt.data)})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, f.ID)
			assert.Equal(t, f.ID.String()+"."+f.Extension, f.StoragePath)
			assert.Equal(t, int64(len(tt.data)), f.SizeBytes)
		})
	}
}

func TestOpenAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, 1024)

	f, err := svc.Upload(ctx, UploadRequest{Filename: "meeting.wav", Size: -1, Data: bytes.NewReader([]byte("RIFF"))})
	require.NoError(t, err)

	got, rc, err := svc.Open(ctx, f.ID)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "RIFF", string(data))
	assert.Equal(t, "meeting.wav", got.Filename)

	require.NoError(t, svc.Delete(ctx, f.ID))

	_, _, err = svc.Open(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, f.ID), ErrNotFound)

	_, err = store.Download(ctx, "audio", f.StoragePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOpenMissingObject(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, 1024)

	f, err := svc.Upload(ctx, UploadRequest{Filename: "a.mp3", Size: -1, Data: strings.NewReader("x")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "audio", f.StoragePath))

	_, _, err = svc.Open(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUnknown(t *testing.T) {
	svc, _ := newTestService(t, 10)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
