package stt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"autopost/constant"
)

func TestDegradedProviderNeverFails(t *testing.T) {
	p := NewDegradedProvider(func(ctx context.Context, path string) (float64, error) {
		return 42, nil
	})

	res, err := p.Transcribe(context.Background(), "/tmp/x/property_tour-final.mp3")
	require.NoError(t, err)
	require.Equal(t, constant.TierDegraded, p.Tier())
	require.Equal(t, 42.0, res.Duration)
	require.Contains(t, res.Transcript, `"property tour final"`)
	require.Contains(t, res.Transcript, "42 seconds")
	require.Contains(t, res.Transcript, "transcription was unavailable")
}

func TestDegradedProviderProbeFailure(t *testing.T) {
	p := NewDegradedProvider(func(ctx context.Context, path string) (float64, error) {
		return 0, errors.New("ffprobe missing")
	})

	res, err := p.Transcribe(context.Background(), "clip.wav")
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Duration)
	require.Contains(t, res.Transcript, "0 seconds")
}

func TestDegradedProviderNilProbe(t *testing.T) {
	p := NewDegradedProvider(nil)

	res, err := p.Transcribe(context.Background(), "...")
	require.NoError(t, err)
	require.Contains(t, res.Transcript, `"media file"`)
}
