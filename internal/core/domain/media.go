package domain

// AcquiredMedia is the typed result of resolving a single source URL into a
// local file. Acquisition backends return it instead of loosely-shaped
// metadata maps.
type AcquiredMedia struct {
	// LocalPath is the downloaded media file on local storage.
	// It lives inside the run's scratch directory and is removed with it.
	LocalPath string

	// Title is the best title the backend could determine, may be empty.
	Title string

	// DurationSeconds is the duration reported by the backend, 0 if unknown.
	DurationSeconds int

	// SourceID is the backend-native identifier (e.g. a video id), may be empty.
	SourceID string
}

// FrameFractions returns the positions, as fractions of total duration, at
// which still frames are sampled for a configured frame count. The spread
// widens with the count so captions see the whole clip, not just the start.
func FrameFractions(count int) []float64 {
	switch {
	case count <= 1:
		return []float64{0.5}
	case count == 2:
		return []float64{0.25, 0.75}
	case count == 3:
		return []float64{0.1, 0.5, 0.9}
	case count == 4:
		return []float64{0.1, 0.35, 0.65, 0.9}
	default:
		return []float64{0.0, 0.25, 0.5, 0.75, 0.95}
	}
}

// endSeekMargin keeps the last sampled frame clear of end-of-stream.
const endSeekMargin = 0.5

// unknownDurationSeek is the single seek offset used when the duration
// could not be probed. Half a second clears any leading black frame.
const unknownDurationSeek = 0.5

// FrameTimestamps converts fractions into seek offsets in seconds for a media
// file of the given duration. Fractions at or beyond 0.95 are clamped to
// duration minus half a second so the decoder never seeks past the stream.
// An unknown duration collapses to one frame at the 0.5s mark; spreading
// fractions over zero would sample the same first frame repeatedly.
func FrameTimestamps(durationSeconds int, count int) []float64 {
	if durationSeconds <= 0 {
		return []float64{unknownDurationSeek}
	}

	fractions := FrameFractions(count)
	timestamps := make([]float64, len(fractions))
	for i, f := range fractions {
		ts := float64(durationSeconds) * f
		if f >= 0.95 {
			ts = float64(durationSeconds) - endSeekMargin
			if ts < 0 {
				ts = 0
			}
		}
		timestamps[i] = ts
	}
	return timestamps
}
