package reproject

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	derived, err := Derive(ConusAlbersNAD83, DatumNAD83, DatumWGS84)
	require.NoError(t, err)

	assert.Contains(t, derived, "+datum=WGS84")
	assert.NotContains(t, derived, "+datum=NAD83")
	// Everything except the datum token is untouched.
	assert.Equal(t,
		strings.Replace(ConusAlbersNAD83, "+datum=NAD83", "+datum=WGS84", 1),
		derived,
	)
	assert.Contains(t, derived, "+proj=aea")
	assert.Contains(t, derived, "+lat_0=23")
}

func TestDeriveDatumNotFound(t *testing.T) {
	_, err := Derive(ConusAlbersNAD83, "GRS80", DatumWGS84)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatumNotFound)

	_, err = Derive("+proj=aea +units=m +no_defs", DatumNAD83, DatumWGS84)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatumNotFound)
}

func TestNewPair(t *testing.T) {
	pair, err := NewPair(ConusAlbersNAD83, DatumNAD83, DatumWGS84)
	require.NoError(t, err)
	assert.Equal(t, ConusAlbersNAD83, pair.StandardParams)
	assert.Contains(t, pair.DerivedParams, "+datum=WGS84")

	_, err = NewPair(ConusAlbersNAD83, "ETRS89", DatumWGS84)
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	pair, err := NewPair(ConusAlbersNAD83, DatumNAD83, DatumWGS84)
	require.NoError(t, err)

	drifts, err := pair.Compare(SamplePoints())
	require.NoError(t, err)
	require.Len(t, drifts, len(SamplePoints()))

	for i, d := range drifts {
		assert.Equal(t, SamplePoints()[i][0], d.Lon)
		assert.Equal(t, SamplePoints()[i][1], d.Lat)

		// Projected coordinates are finite and far from the origin for
		// continental points.
		for _, v := range []float64{d.StandardX, d.StandardY, d.DerivedX, d.DerivedY} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
		assert.Greater(t, math.Abs(d.StandardX)+math.Abs(d.StandardY), 1e5)

		// Drift fields are consistent with the projected outputs, and the
		// two datums stay within a few meters of each other.
		assert.InDelta(t, d.DerivedX-d.StandardX, d.DX, 1e-9)
		assert.InDelta(t, d.DerivedY-d.StandardY, d.DY, 1e-9)
		assert.Less(t, math.Abs(d.DX), 10.0)
		assert.Less(t, math.Abs(d.DY), 10.0)
	}
}

func TestCompareEmpty(t *testing.T) {
	pair, err := NewPair(ConusAlbersNAD83, DatumNAD83, DatumWGS84)
	require.NoError(t, err)

	drifts, err := pair.Compare(nil)
	require.NoError(t, err)
	assert.Nil(t, drifts)
}
