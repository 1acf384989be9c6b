package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"autopost/constant"
	"autopost/dto"
	"autopost/entities"
	"autopost/pkg/caption"
	"autopost/repository"
)

// VideoMetadata accompanies an asset to the publishing platform.
type VideoMetadata struct {
	Title       string
	Description string
	Tags        []string
	Privacy     constant.Privacy
}

// PublishSession is a single authorized publishing session. The underlying
// token lives only as long as the session; Close drops it.
type PublishSession interface {
	Upload(ctx context.Context, filePath string, meta VideoMetadata) (string, error)
	Close()
}

// Platform performs the interactive authorization handshake for one upload.
type Platform interface {
	Name() string
	Authorize(ctx context.Context) (PublishSession, error)
}

// EventPublisher fans out a notification after a record is written.
// Publishing is best-effort and never fails the workflow.
type EventPublisher interface {
	Publish(ctx context.Context, event dto.UploadEvent) error
}

// UploadService runs the authorize-once, upload-once, record-once workflow.
type UploadService interface {
	Upload(ctx context.Context, req dto.UploadRequest) (*entities.UploadRecord, error)
}

type uploadService struct {
	platform       Platform
	records        repository.RecordStore
	events         EventPublisher
	storage        *minio.Client
	bucket         string
	clipDir        string
	tempRoot       string
	defaultPrivacy constant.Privacy
	maxTags        int
}

type UploadServiceParams struct {
	Platform       Platform
	Records        repository.RecordStore
	Events         EventPublisher
	Storage        *minio.Client
	Bucket         string
	ClipDir        string
	TempRoot       string
	DefaultPrivacy constant.Privacy
	MaxTags        int
}

func NewUploadService(params UploadServiceParams) UploadService {
	return &uploadService{
		platform:       params.Platform,
		records:        params.Records,
		events:         params.Events,
		storage:        params.Storage,
		bucket:         params.Bucket,
		clipDir:        params.ClipDir,
		tempRoot:       params.TempRoot,
		defaultPrivacy: params.DefaultPrivacy,
		maxTags:        params.MaxTags,
	}
}

func (s *uploadService) Upload(ctx context.Context, req dto.UploadRequest) (*entities.UploadRecord, error) {
	state := constant.StateIdle
	logger := zerolog.Ctx(ctx).With().Str("asset", req.Filename).Logger()

	privacy := s.defaultPrivacy
	if req.Privacy != "" {
		if !constant.ValidPrivacy(req.Privacy) {
			return nil, fmt.Errorf("%w: invalid privacy setting %q", ErrInvalidRequest, req.Privacy)
		}
		privacy = constant.Privacy(req.Privacy)
	}

	assetPath, cleanup, err := s.resolveAsset(ctx, req.Filename)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	meta := VideoMetadata{
		Title:       req.Title,
		Description: req.Caption,
		Tags:        caption.ExtractTags(req.Caption, s.maxTags),
		Privacy:     privacy,
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSuffix(req.Filename, filepath.Ext(req.Filename))
	}

	state = constant.StateAuthorizing
	logger.Info().Str("state", state.String()).Str("platform", s.platform.Name()).Msg("starting authorization handshake")

	session, err := s.platform.Authorize(ctx)
	if err != nil {
		state = constant.StateAborted
		logger.Error().Err(err).Str("state", state.String()).Msg("authorization failed")
		return nil, errors.Join(ErrAuthorizationFailed, err)
	}
	// The session token is held in memory for this invocation only.
	defer session.Close()

	state = constant.StateAuthorized
	logger.Info().Str("state", state.String()).Msg("authorized")

	state = constant.StateUploading
	logger.Info().Str("state", state.String()).Str("title", meta.Title).Msg("uploading asset")

	videoID, err := session.Upload(ctx, assetPath, meta)
	if err != nil {
		state = constant.StateAborted
		logger.Error().Err(err).Str("state", state.String()).Msg("platform rejected the upload")
		return nil, errors.Join(ErrUploadFailed, err)
	}

	record := &entities.UploadRecord{
		Filename:   req.Filename,
		VideoID:    videoID,
		Platform:   s.platform.Name(),
		Title:      meta.Title,
		Privacy:    privacy,
		Tags:       meta.Tags,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.records.Upsert(ctx, record); err != nil {
		// The asset is live on the platform; surface the bookkeeping failure.
		return nil, fmt.Errorf("upload succeeded (video %s) but recording it failed: %w", videoID, err)
	}

	state = constant.StateRecorded
	logger.Info().Str("state", state.String()).Str("video_id", videoID).Msg("upload recorded")

	if s.events != nil {
		event := dto.UploadEvent{
			Filename:   record.Filename,
			VideoID:    record.VideoID,
			Platform:   record.Platform,
			UploadedAt: record.UploadedAt,
		}
		if err := s.events.Publish(ctx, event); err != nil {
			logger.Warn().Err(err).Msg("failed to publish upload event")
		}
	}

	return record, nil
}

// resolveAsset locates the named asset: first in the local clip directory,
// then in the MinIO media library (fetched to a scoped temp file).
func (s *uploadService) resolveAsset(ctx context.Context, filename string) (string, func(), error) {
	noop := func() {}

	if filepath.Base(filename) != filename {
		return "", noop, fmt.Errorf("%w: %q is not a bare filename", ErrAssetNotFound, filename)
	}

	localPath := filepath.Join(s.clipDir, filename)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, noop, nil
	}

	if s.storage == nil {
		return "", noop, fmt.Errorf("%w: %s", ErrAssetNotFound, filename)
	}

	tempDir := filepath.Join(s.tempRoot, uuid.NewString())
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		return "", noop, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	fetched := filepath.Join(tempDir, filename)
	objectPath := filepath.Join("clips", filename)
	if err := s.storage.FGetObject(ctx, s.bucket, objectPath, fetched, minio.GetObjectOptions{}); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: %s: %v", ErrAssetNotFound, filename, err)
	}

	return fetched, cleanup, nil
}
