package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameFractions(t *testing.T) {
	tests := []struct {
		count int
		want  []float64
	}{
		{0, []float64{0.5}},
		{1, []float64{0.5}},
		{2, []float64{0.25, 0.75}},
		{3, []float64{0.1, 0.5, 0.9}},
		{4, []float64{0.1, 0.35, 0.65, 0.9}},
		{5, []float64{0.0, 0.25, 0.5, 0.75, 0.95}},
		{9, []float64{0.0, 0.25, 0.5, 0.75, 0.95}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FrameFractions(tt.count), "count %d", tt.count)
	}
}

func TestFrameTimestamps_ClampsFinalFrame(t *testing.T) {
	ts := FrameTimestamps(100, 5)
	require.Len(t, ts, 5)
	assert.InDelta(t, 0.0, ts[0], 1e-9)
	assert.InDelta(t, 25.0, ts[1], 1e-9)
	assert.InDelta(t, 75.0, ts[3], 1e-9)
	// Final fraction 0.95 clamps to duration - 0.5s, not 95s.
	assert.InDelta(t, 99.5, ts[4], 1e-9)
}

func TestFrameTimestamps_ShortClip(t *testing.T) {
	// Clamp never seeks past the stream on a one-second clip.
	ts := FrameTimestamps(1, 5)
	require.Len(t, ts, 5)
	assert.InDelta(t, 0.5, ts[4], 1e-9)
}

func TestFrameTimestamps_UnknownDuration(t *testing.T) {
	// Without a probed duration, spreading fractions over zero would
	// sample the first frame repeatedly: a single 0.5s seek instead.
	for _, count := range []int{1, 3, 5} {
		ts := FrameTimestamps(0, count)
		require.Len(t, ts, 1, "count %d", count)
		assert.InDelta(t, 0.5, ts[0], 1e-9)
	}

	ts := FrameTimestamps(-1, 3)
	require.Len(t, ts, 1)
	assert.InDelta(t, 0.5, ts[0], 1e-9)
}

func TestFrameTimestamps_MidpointForThree(t *testing.T) {
	ts := FrameTimestamps(60, 3)
	require.Len(t, ts, 3)
	assert.InDelta(t, 6.0, ts[0], 1e-9)
	assert.InDelta(t, 30.0, ts[1], 1e-9)
	assert.InDelta(t, 54.0, ts[2], 1e-9)
}
