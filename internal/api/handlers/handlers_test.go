package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royfrenk/cursor-transcribe/internal/audio"
	"github.com/royfrenk/cursor-transcribe/internal/jobs"
	"github.com/royfrenk/cursor-transcribe/internal/models"
	"github.com/royfrenk/cursor-transcribe/internal/transcription"
)

type fakePipeline struct {
	result *models.TranscriptionResult
	err    error
	calls  int
	opts   transcription.ProcessOptions
}

func (p *fakePipeline) Transcribe(_ context.Context, id uuid.UUID, language string) (*models.TranscriptionResult, error) {
	p.calls++
	p.opts = transcription.ProcessOptions{FileID: id, Language: language}
	return p.result, p.err
}

func (p *fakePipeline) Process(_ context.Context, opts transcription.ProcessOptions) (*models.TranscriptionResult, error) {
	p.calls++
	p.opts = opts
	return p.result, p.err
}

func sampleResult() *models.TranscriptionResult {
	return &models.TranscriptionResult{
		Text:     "Hello world.",
		Language: "en",
		Segments: []models.Segment{
			{Text: "Hello", Start: 0, End: 1},
			{Text: "world.", Start: 1, End: 2},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestExport(t *testing.T) {
	fileID := uuid.New()

	tests := []struct {
		name        string
		body        any
		pipeline    *fakePipeline
		wantStatus  int
		wantType    string
		wantBody    string
		wantCalls   int
		wantSummary bool
	}{
		{
			name:       "srt",
			body:       map[string]any{"file_id": fileID.String(), "format": "srt"},
			pipeline:   &fakePipeline{result: sampleResult()},
			wantStatus: http.StatusOK,
			wantType:   "text/plain",
			wantBody:   "1\n00:00:00,000 --> 00:00:01,000\nHello\n\n2\n00:00:01,000 --> 00:00:02,000\nworld.\n",
			wantCalls:  1,
		},
		{
			name:        "vtt with summary",
			body:        map[string]any{"file_id": fileID.String(), "format": "VTT", "include_summary": true},
			pipeline:    &fakePipeline{result: sampleResult()},
			wantStatus:  http.StatusOK,
			wantType:    "text/vtt",
			wantBody:    "WEBVTT\n\n",
			wantCalls:   1,
			wantSummary: true,
		},
		{
			name:       "json",
			body:       map[string]any{"file_id": fileID.String(), "format": "json"},
			pipeline:   &fakePipeline{result: sampleResult()},
			wantStatus: http.StatusOK,
			wantType:   "application/json",
			wantBody:   `"text": "Hello world."`,
			wantCalls:  1,
		},
		{
			name:       "unsupported format rejected before processing",
			body:       map[string]any{"file_id": fileID.String(), "format": "invalid"},
			pipeline:   &fakePipeline{result: sampleResult()},
			wantStatus: http.StatusBadRequest,
			wantBody:   "unsupported export format",
		},
		{
			name:       "unknown file",
			body:       map[string]any{"file_id": fileID.String(), "format": "txt"},
			pipeline:   &fakePipeline{err: audio.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
		{
			name:       "provider failure",
			body:       map[string]any{"file_id": fileID.String(), "format": "txt"},
			pipeline:   &fakePipeline{err: errors.New("transcription failed: upstream")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "upstream",
			wantCalls:  1,
		},
		{
			name:       "missing file id",
			body:       map[string]any{"format": "txt"},
			pipeline:   &fakePipeline{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       "not an object",
			pipeline:   &fakePipeline{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExportHandler(tt.pipeline, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/export", jsonBody(t, tt.body))
			rec := httptest.NewRecorder()

			h.Export(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Equal(t, tt.wantCalls, tt.pipeline.calls)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
				assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"),
					`attachment; filename="transcription_`+fileID.String()+"."))
				assert.Equal(t, tt.wantSummary, tt.pipeline.opts.IncludeSummary)
			}
		})
	}
}

type fakeJobResults struct {
	result *models.TranscriptionResult
	err    error
}

func (f fakeJobResults) Result(context.Context, uuid.UUID) (*models.TranscriptionResult, error) {
	return f.result, f.err
}

func TestJobExport(t *testing.T) {
	jobID := uuid.New()

	tests := []struct {
		name       string
		query      string
		results    fakeJobResults
		wantStatus int
		wantFile   string
	}{
		{name: "default txt", results: fakeJobResults{result: sampleResult()}, wantStatus: http.StatusOK, wantFile: ".txt"},
		{name: "srt", query: "?format=srt", results: fakeJobResults{result: sampleResult()}, wantStatus: http.StatusOK, wantFile: ".srt"},
		{name: "bad format", query: "?format=docx", results: fakeJobResults{result: sampleResult()}, wantStatus: http.StatusBadRequest},
		{name: "not completed", query: "?format=srt", results: fakeJobResults{err: jobs.ErrNotCompleted}, wantStatus: http.StatusConflict},
		{name: "unknown job", query: "?format=srt", results: fakeJobResults{err: jobs.ErrNotFound}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/jobs/{id}/export", NewExportHandler(&fakePipeline{}, tt.results).JobExport)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+jobID.String()+"/export"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantFile != "" {
				assert.Equal(t, `attachment; filename="transcription_`+jobID.String()+tt.wantFile+`"`, rec.Header().Get("Content-Disposition"))
			}
		})
	}
}

func TestTranscribe(t *testing.T) {
	fileID := uuid.New()

	t.Run("completed", func(t *testing.T) {
		p := &fakePipeline{result: sampleResult()}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", jsonBody(t, map[string]string{"file_id": fileID.String(), "language": "en"}))

		NewTranscriptionHandler(p).Transcribe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, fileID.String(), body["transcription_id"])
		assert.Equal(t, "completed", body["status"])
		assert.Equal(t, "Hello world.", body["text"])
		assert.Len(t, body["segments"], 2)
		assert.Equal(t, "en", p.opts.Language)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]string{"file_id": fileID.String()}))
		NewTranscriptionHandler(&fakePipeline{err: audio.ErrNotFound}).Transcribe(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]string{"file_id": "abc"}))
		NewTranscriptionHandler(&fakePipeline{}).Transcribe(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSummarize(t *testing.T) {
	r := sampleResult()
	r.Summary = "A greeting"
	r.KeyPoints = "1. Hello"
	p := &fakePipeline{result: r}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]string{"file_id": uuid.NewString()}))
	NewTranscriptionHandler(p).Summarize(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "A greeting", body["summary"])
	assert.Equal(t, "1. Hello", body["key_points"])
	assert.True(t, p.opts.IncludeSummary)
}

type fakeAudioService struct {
	uploaded []audio.UploadRequest
	err      error
}

func (s *fakeAudioService) Upload(_ context.Context, req audio.UploadRequest) (*models.AudioFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.uploaded = append(s.uploaded, req)
	return &models.AudioFile{ID: uuid.New(), Filename: req.Filename, SizeBytes: req.Size}, nil
}

func (s *fakeAudioService) Delete(context.Context, uuid.UUID) error { return s.err }

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeAudioService{}
		rec := httptest.NewRecorder()

		NewAudioHandler(svc, 1<<20).Upload(rec, multipartRequest(t, "file", "talk.mp3", "ID3"))

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "uploaded", body["status"])
		assert.NotEmpty(t, body["file_id"])
		require.Len(t, svc.uploaded, 1)
		assert.Equal(t, "talk.mp3", svc.uploaded[0].Filename)
	})

	t.Run("missing file field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAudioHandler(&fakeAudioService{}, 1<<20).Upload(rec, multipartRequest(t, "audio", "talk.mp3", "ID3"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAudioHandler(&fakeAudioService{err: audio.ErrUnsupportedType}, 1<<20).Upload(rec, multipartRequest(t, "file", "notes.txt", "x"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		rec := httptest.NewRecorder()
		big := strings.Repeat("x", 2*multipartOverhead)
		NewAudioHandler(&fakeAudioService{}, 10).Upload(rec, multipartRequest(t, "file", "a.mp3", big))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

type fakeJobService struct {
	job *models.TranscriptionJob
	err error
	req jobs.SubmitRequest
}

func (s *fakeJobService) Submit(_ context.Context, req jobs.SubmitRequest) (*models.TranscriptionJob, error) {
	s.req = req
	return s.job, s.err
}

func (s *fakeJobService) Get(context.Context, uuid.UUID) (*models.TranscriptionJob, error) {
	return s.job, s.err
}

func TestJobs(t *testing.T) {
	fileID := uuid.New()
	job := &models.TranscriptionJob{ID: uuid.New(), AudioID: fileID, Status: models.JobStatusQueued}

	tests := []struct {
		name       string
		body       map[string]any
		svc        *fakeJobService
		wantStatus int
	}{
		{name: "accepted", body: map[string]any{"file_id": fileID.String(), "callback_url": "https://example.com/hook"}, svc: &fakeJobService{job: job}, wantStatus: http.StatusAccepted},
		{name: "bad callback", body: map[string]any{"file_id": fileID.String(), "callback_url": "ftp://x"}, svc: &fakeJobService{job: job}, wantStatus: http.StatusBadRequest},
		{name: "unknown file", body: map[string]any{"file_id": fileID.String()}, svc: &fakeJobService{err: audio.ErrNotFound}, wantStatus: http.StatusNotFound},
		{name: "missing file", body: map[string]any{}, svc: &fakeJobService{}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewJobHandler(tt.svc).Create(rec, httptest.NewRequest(http.MethodPost, "/jobs", jsonBody(t, tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	t.Run("get", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/jobs/{id}", NewJobHandler(&fakeJobService{job: job}).Get)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID.String(), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "queued", body["status"])
		assert.Equal(t, fileID.String(), body["file_id"])
	})
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"database": pinger{}, "redis": nil}).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"redis": pinger{err: errors.New("refused")}}).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy: refused")
}
