package driven

import "context"

// MediaExtractor derives visual and audio representations from a local media
// file. Backed by the ffmpeg/ffprobe executables; absence of the tools
// degrades extraction instead of crashing the pipeline.
type MediaExtractor interface {
	// Duration probes the media duration in seconds.
	// Returns 0, false when the duration cannot be determined.
	Duration(ctx context.Context, mediaPath string) (int, bool)

	// ExtractFrames samples up to frameCount still frames into destDir at
	// fixed fractions of the duration. Individual frame failures are
	// skipped; the returned paths are whatever subset succeeded. It never
	// fails for partial extraction - an empty slice is a valid result.
	ExtractFrames(ctx context.Context, mediaPath, destDir string, durationSeconds, frameCount int) []string

	// ExtractAudio produces a mono 16 kHz audio file for transcription.
	// Returns "" when audio extraction fails; this is a soft failure.
	ExtractAudio(ctx context.Context, mediaPath, destDir string) string
}
