package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"autopost/constant"
	"autopost/dto"
	"autopost/pkg/media"
)

// ClipService trims a window out of an uploaded video. Trimming itself is a
// pass-through to the external media tool; this service only stages files
// and publishes the result to the media library when one is configured.
type ClipService interface {
	CreateClip(ctx context.Context, filename string, start, end float64, src io.Reader) (*dto.ClipResponse, error)
}

// TrimFunc re-encodes the [start, end) window of a media file.
type TrimFunc func(ctx context.Context, inputPath, outputPath string, start, end float64) error

type clipService struct {
	trim     TrimFunc
	storage  *minio.Client
	bucket   string
	clipDir  string
	tempRoot string
}

func NewClipService(storage *minio.Client, bucket, clipDir, tempRoot string) ClipService {
	return &clipService{
		trim:     media.Trim,
		storage:  storage,
		bucket:   bucket,
		clipDir:  clipDir,
		tempRoot: tempRoot,
	}
}

func (s *clipService) CreateClip(ctx context.Context, filename string, start, end float64, src io.Reader) (*dto.ClipResponse, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !constant.IsAllowedClip(ext) {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: time range [%g, %g)", ErrInvalidRequest, start, end)
	}

	tempDir := filepath.Join(s.tempRoot, uuid.NewString())
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	inputPath := filepath.Join(tempDir, filepath.Base(filename))
	if err := copyToFile(inputPath, src); err != nil {
		return nil, fmt.Errorf("failed to stage input file: %w", err)
	}

	if err := os.MkdirAll(s.clipDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create clip directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	clipFilename := fmt.Sprintf("%s_clip_%s.mp4", base, time.Now().Format("20060102_150405"))
	clipPath := filepath.Join(s.clipDir, clipFilename)

	if err := s.trim(ctx, inputPath, clipPath, start, end); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("file", filename).Msg("failed to create clip")
		return nil, err
	}

	resp := &dto.ClipResponse{
		Success:      true,
		ClipFilename: clipFilename,
		Duration:     end - start,
		StartTime:    start,
		EndTime:      end,
	}

	if s.storage != nil {
		objectPath := filepath.Join("clips", clipFilename)
		if _, err := s.storage.FPutObject(ctx, s.bucket, objectPath, clipPath, minio.PutObjectOptions{}); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("object", objectPath).Msg("failed to publish clip to media library")
		} else {
			resp.ObjectPath = objectPath
		}
	}

	zerolog.Ctx(ctx).Info().Str("clip", clipFilename).Float64("duration", resp.Duration).Msg("clip created")

	return resp, nil
}
