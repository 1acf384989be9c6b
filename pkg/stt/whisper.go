package stt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"autopost/constant"
)

// WhisperProvider runs a local whisper.cpp CLI binary. It is the primary
// (highest accuracy) tier.
type WhisperProvider struct {
	binary   string
	model    string
	language string
}

func NewWhisperProvider(binary, model, language string) *WhisperProvider {
	return &WhisperProvider{
		binary:   binary,
		model:    model,
		language: language,
	}
}

func (p *WhisperProvider) Name() string {
	return "whisper"
}

func (p *WhisperProvider) Tier() constant.Tier {
	return constant.TierPrimary
}

func (p *WhisperProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := exec.LookPath(p.binary); err != nil {
		return nil, fmt.Errorf("whisper binary not found: %w", err)
	}

	args := []string{"--model", p.model}
	if p.language != "" {
		args = append(args, "--language", p.language)
	}
	args = append(args, audioPath)

	cmd := exec.CommandContext(ctx, p.binary, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper execution failed: %w, stderr: %s", err, stderr.String())
	}

	transcript, duration := parseWhisperOutput(out.String())
	if transcript == "" {
		return nil, fmt.Errorf("whisper produced an empty transcript")
	}

	return &Result{
		Transcript: transcript,
		Language:   p.language,
		Duration:   duration,
	}, nil
}

// parseWhisperOutput strips the "[hh:mm:ss.mmm --> hh:mm:ss.mmm]" segment
// prefixes whisper.cpp prints and returns the joined text plus the end
// timestamp of the last segment. Lines without a timestamp prefix are kept
// as-is.
func parseWhisperOutput(output string) (string, float64) {
	var parts []string
	var duration float64

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			closing := strings.Index(line, "]")
			if closing > 0 {
				stamp := line[1:closing]
				if end, ok := parseSegmentEnd(stamp); ok {
					if end > duration {
						duration = end
					}
					line = strings.TrimSpace(line[closing+1:])
				}
			}
		}

		if line != "" {
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, " "), duration
}

// parseSegmentEnd extracts the seconds value of the right-hand timestamp in
// "00:00:00.000 --> 00:00:05.120".
func parseSegmentEnd(stamp string) (float64, bool) {
	fields := strings.Split(stamp, "-->")
	if len(fields) != 2 {
		return 0, false
	}
	return parseTimestamp(strings.TrimSpace(fields[1]))
}

func parseTimestamp(ts string) (float64, bool) {
	units := strings.Split(ts, ":")
	if len(units) != 3 {
		return 0, false
	}

	hours, err1 := strconv.Atoi(units[0])
	minutes, err2 := strconv.Atoi(units[1])
	seconds, err3 := strconv.ParseFloat(units[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}
