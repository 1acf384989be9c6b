package stt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"autopost/constant"
)

// DurationFunc probes a media file for its duration in seconds.
type DurationFunc func(ctx context.Context, path string) (float64, error)

// DegradedProvider is the last tier. It never fails: instead of a real
// transcript it returns a placeholder derived from file metadata, so the
// pipeline can always hand the caller something.
type DegradedProvider struct {
	probe DurationFunc
}

func NewDegradedProvider(probe DurationFunc) *DegradedProvider {
	return &DegradedProvider{probe: probe}
}

func (p *DegradedProvider) Name() string {
	return "metadata"
}

func (p *DegradedProvider) Tier() constant.Tier {
	return constant.TierDegraded
}

func (p *DegradedProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	var duration float64
	if p.probe != nil {
		d, err := p.probe(ctx, audioPath)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("file", audioPath).Msg("duration probe failed, reporting zero")
		} else if d > 0 {
			duration = d
		}
	}

	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = "media file"
	}

	transcript := fmt.Sprintf(
		"Audio recording %q (%.0f seconds). Automatic transcription was unavailable for this file.",
		name, duration,
	)

	return &Result{
		Transcript: transcript,
		Duration:   duration,
	}, nil
}
