package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"autopost/constant"
)

// CloudProvider sends audio bytes to a hosted speech-recognition API. It is
// the secondary tier, used when the local model is unavailable.
type CloudProvider struct {
	apiKey string
	url    string
	client *http.Client
}

func NewCloudProvider(apiKey, url string) *CloudProvider {
	return &CloudProvider{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *CloudProvider) Name() string {
	return "cloud"
}

func (p *CloudProvider) Tier() constant.Tier {
	return constant.TierSecondary
}

type cloudResponse struct {
	Hypotheses []struct {
		Utterance  string  `json:"utterance"`
		Confidence float64 `json:"confidence"`
	} `json:"hypotheses"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (p *CloudProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if p.url == "" || p.apiKey == "" {
		return nil, fmt.Errorf("cloud STT provider is not configured")
	}

	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	// Tiny files are empty or corrupted; the API rejects them anyway.
	if len(audioBytes) < 1000 {
		return nil, fmt.Errorf("audio file too small (%d bytes)", len(audioBytes))
	}

	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(audioBytes))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("api-key", p.apiKey)
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("cloud STT returned status %d", resp.StatusCode)
		default:
			return nil, backoff.Permanent(fmt.Errorf("cloud STT returned status %d: %s", resp.StatusCode, string(body)))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	body, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3))
	if err != nil {
		return nil, err
	}

	var sttResp cloudResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return nil, fmt.Errorf("failed to parse cloud STT response: %w", err)
	}

	if sttResp.ErrorCode != 0 {
		return nil, fmt.Errorf("cloud STT error %d: %s", sttResp.ErrorCode, sttResp.Message)
	}

	if len(sttResp.Hypotheses) == 0 {
		return nil, fmt.Errorf("no speech detected in audio")
	}

	transcript := strings.TrimSpace(sttResp.Hypotheses[0].Utterance)
	if transcript == "" {
		return nil, fmt.Errorf("empty transcript returned")
	}

	return &Result{Transcript: transcript}, nil
}
