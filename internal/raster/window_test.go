package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellsForDistance(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		res      float64
		want     int
	}{
		// 90m at 30m cells spans three cells, so the window is 3x3.
		{"ninety meters at thirty", 90, 30, 1},
		{"zero distance floors to minimum", 0, 30, 1},
		{"negative distance floors to minimum", -500, 30, 1},
		{"one cell", 30, 30, 1},
		{"five cells", 150, 30, 2},
		{"even diameter forced odd", 300, 30, 5},
		{"large window", 5000, 30, 83},
		{"sub-cell distance", 10, 30, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CellsForDistance(tt.distance, tt.res)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellsForDistanceInvalidResolution(t *testing.T) {
	_, err := CellsForDistance(90, 0)
	require.Error(t, err)
	_, err = CellsForDistance(90, -30)
	require.Error(t, err)
}

func TestCellsForDistanceMonotonic(t *testing.T) {
	prev := 0
	for d := 0.0; d <= 10000; d += 10 {
		r, err := CellsForDistance(d, 30)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r, prev, "radius decreased at distance %f", d)
		assert.GreaterOrEqual(t, r, 1)
		prev = r
	}
}

func TestWindowSizeAlwaysOdd(t *testing.T) {
	for d := 0.0; d <= 10000; d += 7 {
		r, err := CellsForDistance(d, 30)
		require.NoError(t, err)
		size := WindowSize(r)
		assert.Equal(t, 1, size%2, "window size %d is even for distance %f", size, d)
		assert.GreaterOrEqual(t, size, 3)
	}
}
