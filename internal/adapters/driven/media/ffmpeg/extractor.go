// Package ffmpeg implements media probing and extraction by shelling out to
// ffmpeg and ffprobe.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// Audio output parameters for transcription input: mono 16 kHz.
const (
	audioChannels   = "1"
	audioSampleRate = "16000"
)

// Ensure Extractor implements the interface.
var _ driven.MediaExtractor = (*Extractor)(nil)

// Extractor drives ffmpeg and ffprobe as subprocesses.
type Extractor struct {
	ffmpeg  string
	ffprobe string
}

// NewExtractor locates ffmpeg and ffprobe on PATH. Returns
// domain.ErrToolUnavailable when either is missing.
func NewExtractor() (*Extractor, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found on PATH", domain.ErrToolUnavailable)
	}
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe not found on PATH", domain.ErrToolUnavailable)
	}
	return &Extractor{ffmpeg: ffmpeg, ffprobe: ffprobe}, nil
}

// Duration probes the media duration in seconds.
func (e *Extractor) Duration(ctx context.Context, mediaPath string) (int, bool) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		logger.Debug("ffprobe %s: %v", mediaPath, err)
		return 0, false
	}
	return parseDuration(stdout.String())
}

// ExtractFrames samples still frames at fixed fractions of the duration.
// A frame that fails to extract is skipped; the returned paths are the
// subset that succeeded.
func (e *Extractor) ExtractFrames(
	ctx context.Context, mediaPath, destDir string, durationSeconds, frameCount int,
) []string {
	timestamps := domain.FrameTimestamps(durationSeconds, frameCount)

	paths := make([]string, 0, len(timestamps))
	for i, ts := range timestamps {
		framePath := filepath.Join(destDir, fmt.Sprintf("frame_%02d.jpg", i))
		cmd := exec.CommandContext(ctx, e.ffmpeg,
			"-v", "error",
			"-ss", formatSeconds(ts),
			"-i", mediaPath,
			"-frames:v", "1",
			"-q:v", "2",
			"-y",
			framePath,
		)
		if err := cmd.Run(); err != nil {
			logger.Debug("frame %d at %.1fs: %v", i, ts, err)
			continue
		}
		paths = append(paths, framePath)
	}
	return paths
}

// ExtractAudio produces a mono 16 kHz WAV for transcription. Returns ""
// when extraction fails, which includes media without an audio track.
func (e *Extractor) ExtractAudio(ctx context.Context, mediaPath, destDir string) string {
	audioPath := filepath.Join(destDir, "audio.wav")
	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-v", "error",
		"-i", mediaPath,
		"-vn",
		"-ac", audioChannels,
		"-ar", audioSampleRate,
		"-y",
		audioPath,
	)
	if err := cmd.Run(); err != nil {
		logger.Debug("audio extraction %s: %v", mediaPath, err)
		return ""
	}
	return audioPath
}

// parseDuration converts ffprobe's decimal-seconds output to whole seconds.
func parseDuration(output string) (int, bool) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" || trimmed == "N/A" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return int(seconds), true
}

// formatSeconds renders a seek offset for ffmpeg's -ss flag.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}
