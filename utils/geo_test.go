package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	lat, lon, ok := ParseCoordinate("12.9716", "77.5946")
	require.True(t, ok)
	assert.InDelta(t, 12.9716, lat, 1e-9)
	assert.InDelta(t, 77.5946, lon, 1e-9)

	_, _, ok = ParseCoordinate("", "77.5946")
	assert.False(t, ok)

	_, _, ok = ParseCoordinate("12.9", "north")
	assert.False(t, ok)
}

func TestDistanceMeters(t *testing.T) {
	// One milli-degree of longitude at the equator is ~111m; the two spec
	// reference offsets land at ~55m and ~5.5m.
	far := DistanceMeters(0, 0, 0, 0.0005)
	assert.InDelta(t, 55.6, far, 1.0)

	near := DistanceMeters(0, 0, 0, 0.00005)
	assert.InDelta(t, 5.56, near, 0.2)

	assert.Zero(t, DistanceMeters(12.9716, 77.5946, 12.9716, 77.5946))
}

func TestDistanceMetersBangalorePair(t *testing.T) {
	// (12.9716, 77.5946) to (12.9716, 77.5950) is roughly 43m.
	d := DistanceMeters(12.9716, 77.5946, 12.9716, 77.5950)
	assert.Greater(t, d, 40.0)
	assert.Less(t, d, 50.0)
}
