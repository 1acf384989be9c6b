package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"autopost/constant"
	"autopost/dto"
	"autopost/pkg/media"
	"autopost/pkg/stt"
)

// TranscriptionService produces the best-available transcript for a media
// file by walking an ordered provider chain. It fails only on pre-condition
// violations (format/size); the degraded tier guarantees a result otherwise.
type TranscriptionService interface {
	Transcribe(ctx context.Context, filename string, size int64, src io.Reader) (*dto.TranscriptionResult, error)
}

// AudioExtractor converts a video container into an audio file under dir.
type AudioExtractor func(ctx context.Context, inputPath, dir string) (string, error)

type transcriptionService struct {
	providers []stt.Provider
	extract   AudioExtractor
	probe     stt.DurationFunc
	tempRoot  string
	maxBytes  int64
}

func NewTranscriptionService(providers []stt.Provider, tempRoot string, maxBytes int64) TranscriptionService {
	return &transcriptionService{
		providers: providers,
		extract:   media.ExtractAudio,
		probe:     media.Duration,
		tempRoot:  tempRoot,
		maxBytes:  maxBytes,
	}
}

func (s *transcriptionService) Transcribe(ctx context.Context, filename string, size int64, src io.Reader) (*dto.TranscriptionResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !constant.IsAllowedMedia(ext) {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	// Scoped temp artifact: everything below lives under one per-request
	// directory and is removed on every exit path.
	tempDir := filepath.Join(s.tempRoot, uuid.NewString())
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	inputPath := filepath.Join(tempDir, filepath.Base(filename))
	if err := copyToFile(inputPath, src); err != nil {
		return nil, fmt.Errorf("failed to stage input file: %w", err)
	}

	audioPath := inputPath
	if constant.IsVideo(ext) {
		extracted, err := s.extract(ctx, inputPath, tempDir)
		if err != nil {
			// Keep going with the container itself; providers that cannot
			// decode it will fall through the chain.
			zerolog.Ctx(ctx).Warn().Err(err).Str("file", filename).Msg("audio extraction failed")
		} else {
			audioPath = extracted
		}
	}

	for _, provider := range s.providers {
		res, err := provider.Transcribe(ctx, audioPath)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(errors.Join(ErrProviderUnavailable, err)).
				Str("provider", provider.Name()).
				Str("tier", provider.Tier().String()).
				Msg("transcription tier failed, falling back")
			continue
		}

		result := &dto.TranscriptionResult{
			Transcript: res.Transcript,
			WordCount:  len(strings.Fields(res.Transcript)),
			Duration:   res.Duration,
			Language:   res.Language,
			Tier:       provider.Tier(),
		}
		if result.Duration <= 0 && s.probe != nil {
			if d, err := s.probe(ctx, audioPath); err == nil && d > 0 {
				result.Duration = d
			}
		}
		if result.Language == "" {
			result.Language = "unknown"
		}

		zerolog.Ctx(ctx).Info().
			Str("provider", provider.Name()).
			Str("tier", provider.Tier().String()).
			Int("word_count", result.WordCount).
			Msg("transcription complete")

		return result, nil
	}

	// Unreachable when the degraded provider terminates the chain.
	return nil, fmt.Errorf("%w: no transcription tier produced a result", ErrProviderUnavailable)
}

func copyToFile(path string, src io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
