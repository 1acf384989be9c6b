package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"autopost/constant"
	"autopost/dto"
	"autopost/entities"
	"autopost/repository"
	"autopost/service"
)

type stubTranscription struct {
	result *dto.TranscriptionResult
	err    error
}

func (s *stubTranscription) Transcribe(ctx context.Context, filename string, size int64, src io.Reader) (*dto.TranscriptionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubUpload struct {
	record *entities.UploadRecord
	err    error
}

func (s *stubUpload) Upload(ctx context.Context, req dto.UploadRequest) (*entities.UploadRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

type stubClip struct {
	resp *dto.ClipResponse
	err  error
}

func (s *stubClip) CreateClip(ctx context.Context, filename string, start, end float64, src io.Reader) (*dto.ClipResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubRecords struct {
	records []*entities.UploadRecord
}

func (s *stubRecords) Upsert(ctx context.Context, record *entities.UploadRecord) error { return nil }

func (s *stubRecords) FindByFilename(ctx context.Context, filename string) (*entities.UploadRecord, error) {
	return nil, repository.ErrRecordNotFound
}

func (s *stubRecords) List(ctx context.Context) ([]*entities.UploadRecord, error) {
	return s.records, nil
}

func newTestRouter(deps ServiceDependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(deps)
	api := r.Group("/api")
	api.POST("/transcribe", h.Transcribe)
	api.POST("/clip", h.CreateClip)
	api.POST("/upload", h.Upload)
	api.POST("/caption", h.GenerateCaption)
	api.GET("/records", h.ListRecords)
	return r
}

func multipartBody(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("media-bytes"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestTranscribeHandlerSuccess(t *testing.T) {
	r := newTestRouter(ServiceDependencies{
		TranscriptionService: &stubTranscription{result: &dto.TranscriptionResult{
			Transcript: "hello world",
			WordCount:  2,
			Duration:   4.2,
			Language:   "en",
			Tier:       constant.TierPrimary,
		}},
	})

	body, contentType := multipartBody(t, "talk.mp3", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TranscribeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "hello world", resp.Transcript)
	require.Equal(t, constant.TierPrimary, resp.Tier)
}

func TestTranscribeHandlerMissingFile(t *testing.T) {
	r := newTestRouter(ServiceDependencies{TranscriptionService: &stubTranscription{}})

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", strings.NewReader(""))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	require.False(t, resp.Success)
}

func TestTranscribeHandlerMapsErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"unsupported format", service.ErrUnsupportedFormat, http.StatusBadRequest, constant.KindUnsupportedFormat},
		{"too large", service.ErrTooLarge, http.StatusBadRequest, constant.KindTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(ServiceDependencies{TranscriptionService: &stubTranscription{err: tt.err}})

			body, contentType := multipartBody(t, "talk.mp3", nil)
			req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			require.Equal(t, tt.wantKind, resp.Kind)
		})
	}
}

func TestUploadHandlerSuccess(t *testing.T) {
	r := newTestRouter(ServiceDependencies{
		UploadService: &stubUpload{record: &entities.UploadRecord{
			Filename: "tour.mp4",
			VideoID:  "yt-abc",
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"filename":"tour.mp4"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "yt-abc", resp.VideoID)
}

func TestUploadHandlerRequiresFilename(t *testing.T) {
	r := newTestRouter(ServiceDependencies{UploadService: &stubUpload{}})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandlerMapsWorkflowErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"authorization failed", service.ErrAuthorizationFailed, http.StatusBadGateway, constant.KindAuthorizationFailed},
		{"upload failed", service.ErrUploadFailed, http.StatusBadGateway, constant.KindUploadFailed},
		{"asset not found", service.ErrAssetNotFound, http.StatusNotFound, constant.KindNotFound},
		{"invalid privacy", service.ErrInvalidRequest, http.StatusBadRequest, constant.KindInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(ServiceDependencies{UploadService: &stubUpload{err: tt.err}})

			req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"filename":"tour.mp4"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			require.Equal(t, tt.wantKind, resp.Kind)
		})
	}
}

func TestClipHandlerValidatesTimes(t *testing.T) {
	r := newTestRouter(ServiceDependencies{ClipService: &stubClip{}})

	body, contentType := multipartBody(t, "tour.mp4", map[string]string{"start_time": "abc", "end_time": "5"})
	req := httptest.NewRequest(http.MethodPost, "/api/clip", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClipHandlerSuccess(t *testing.T) {
	r := newTestRouter(ServiceDependencies{
		ClipService: &stubClip{resp: &dto.ClipResponse{
			Success:      true,
			ClipFilename: "tour_clip_20260823_120000.mp4",
			Duration:     5,
			StartTime:    10,
			EndTime:      15,
		}},
	})

	body, contentType := multipartBody(t, "tour.mp4", map[string]string{"start_time": "10", "end_time": "15"})
	req := httptest.NewRequest(http.MethodPost, "/api/clip", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ClipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "tour_clip_20260823_120000.mp4", resp.ClipFilename)
}

type stubGenerator struct {
	caption string
	err     error
}

func (s *stubGenerator) Generate(ctx context.Context, transcript string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.caption, nil
}

func TestCaptionHandlerDerivesTags(t *testing.T) {
	r := newTestRouter(ServiceDependencies{
		CaptionGenerator: &stubGenerator{caption: "Stunning views! #Property #Sydney"},
		MaxTags:          10,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/caption", strings.NewReader(`{"transcript":"a walkthrough of the property"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CaptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, []string{"Property", "Sydney"}, resp.Tags)
}

func TestCaptionHandlerUnconfigured(t *testing.T) {
	r := newTestRouter(ServiceDependencies{})

	req := httptest.NewRequest(http.MethodPost, "/api/caption", strings.NewReader(`{"transcript":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListRecordsHandler(t *testing.T) {
	r := newTestRouter(ServiceDependencies{
		Records: &stubRecords{records: []*entities.UploadRecord{
			{Filename: "tour.mp4", VideoID: "yt-1", UploadedAt: time.Now().UTC()},
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                     `json:"success"`
		Count   int                      `json:"count"`
		Records []*entities.UploadRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "yt-1", resp.Records[0].VideoID)
}
