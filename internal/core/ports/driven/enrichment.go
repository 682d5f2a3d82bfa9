package driven

import "context"

// CaptionService turns still frames into descriptive text.
// This is an optional service - when nil, items keep a null AI description.
//
// Implementations may include:
//   - OpenAI vision models (gpt-4o and friends)
//   - Any multimodal chat-completions-compatible endpoint
type CaptionService interface {
	// Caption describes the given ordered frame files as one scene.
	// A single frame uses the single-image path; multiple frames are
	// submitted together so the output narrates the sequence.
	Caption(ctx context.Context, framePaths []string) (string, error)

	// Close releases resources.
	Close() error
}

// TranscriptionService converts an audio file to text.
// This is an optional service - when nil, items keep a null transcript.
//
// Transcription is always best-effort: oversized inputs yield an empty
// string, not an error, and never block the pipeline.
type TranscriptionService interface {
	// Transcribe returns the transcript of the audio file in the given
	// language. Inputs above the implementation's size ceiling return "".
	Transcribe(ctx context.Context, audioPath, language string) (string, error)

	// Close releases resources.
	Close() error
}
