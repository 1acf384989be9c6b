// Package stt holds the speech-to-text providers that make up the ordered
// transcription fallback chain.
package stt

import (
	"context"

	"autopost/constant"
)

// Provider is one tier in the fallback chain.
type Provider interface {
	// Transcribe converts the audio file at audioPath to text. A returned
	// error is treated as recoverable by the pipeline and hands control to
	// the next tier.
	Transcribe(ctx context.Context, audioPath string) (*Result, error)

	Name() string
	Tier() constant.Tier
}

// Result is the common transcription result from any provider.
type Result struct {
	Transcript string
	Language   string
	Duration   float64 // audio duration in seconds, 0 if unknown
}
