package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"autopost/dto"
	"autopost/pkg/caption"
	"autopost/repository"
	"autopost/service"
)

type ServiceDependencies struct {
	TranscriptionService service.TranscriptionService
	UploadService        service.UploadService
	ClipService          service.ClipService
	CaptionGenerator     caption.Generator
	Records              repository.RecordStore
	MaxTags              int
}

type Handler struct {
	deps ServiceDependencies
}

func New(deps ServiceDependencies) *Handler {
	return &Handler{deps: deps}
}

// Transcribe accepts a multipart media file and returns the best-available
// transcript. The provider tier that produced it is part of the response.
func (h *Handler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("missing multipart field \"file\""))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	result, err := h.deps.TranscriptionService.Transcribe(c.Request.Context(), fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscribeResponse{
		Success:             true,
		TranscriptionResult: *result,
	})
}

// Upload publishes a previously produced clip to the configured platform and
// records the result.
func (h *Handler) Upload(c *gin.Context) {
	var req dto.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	record, err := h.deps.UploadService.Upload(c.Request.Context(), req)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		Success: true,
		VideoID: record.VideoID,
	})
}

// CreateClip trims the [start_time, end_time) window out of a multipart video.
func (h *Handler) CreateClip(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("missing multipart field \"file\""))
		return
	}

	start, err := strconv.ParseFloat(c.PostForm("start_time"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("invalid start_time"))
		return
	}
	end, err := strconv.ParseFloat(c.PostForm("end_time"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("invalid end_time"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	resp, err := h.deps.ClipService.CreateClip(c.Request.Context(), fileHeader.Filename, start, end, f)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateCaption produces a caption for a transcript and the tags derived
// from its hashtags.
func (h *Handler) GenerateCaption(c *gin.Context) {
	if h.deps.CaptionGenerator == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("caption generation is not configured"))
		return
	}

	var req dto.CaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	text, err := h.deps.CaptionGenerator.Generate(c.Request.Context(), req.Transcript)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("caption generation failed")
		respondError(c, http.StatusBadGateway, err)
		return
	}

	c.JSON(http.StatusOK, dto.CaptionResponse{
		Success: true,
		Caption: text,
		Tags:    caption.ExtractTags(text, h.deps.MaxTags),
	})
}

// ListRecords returns the upload-record log, newest first.
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.deps.Records.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"records": records,
	})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, dto.ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    service.KindOf(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnsupportedFormat), errors.Is(err, service.ErrTooLarge),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAuthorizationFailed), errors.Is(err, service.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
