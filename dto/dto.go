package dto

import (
	"time"

	"autopost/constant"
)

// TranscriptionResult is the outcome of one fallback-pipeline invocation.
type TranscriptionResult struct {
	Transcript string        `json:"transcript"`
	WordCount  int           `json:"word_count"`
	Duration   float64       `json:"duration"`
	Language   string        `json:"language"`
	Tier       constant.Tier `json:"tier"`
}

type TranscribeResponse struct {
	Success bool `json:"success"`
	TranscriptionResult
}

type UploadRequest struct {
	Filename string `json:"filename" binding:"required"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Privacy  string `json:"privacy"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	VideoID string `json:"video_id"`
}

type ClipResponse struct {
	Success      bool    `json:"success"`
	ClipFilename string  `json:"clip_filename"`
	Duration     float64 `json:"duration"`
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time"`
	ObjectPath   string  `json:"object_path,omitempty"`
}

type CaptionRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

type CaptionResponse struct {
	Success bool     `json:"success"`
	Caption string   `json:"caption"`
	Tags    []string `json:"tags"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
}

// UploadEvent is published after an upload record is written.
type UploadEvent struct {
	Filename   string    `json:"filename"`
	VideoID    string    `json:"videoId"`
	Platform   string    `json:"platform"`
	UploadedAt time.Time `json:"uploadedAt"`
}
