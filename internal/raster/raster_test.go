package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/landcover-cli/internal/config"
)

// fptr wraps a value in a pointer so pgxmock rows can populate the *float64
// scan targets used for nullable columns.
func fptr(v float64) *float64 { return &v }

func testRasterConfig() config.RasterConfig {
	return config.RasterConfig{
		Table:            "nlcd_landcover",
		Column:           "rast",
		Band:             1,
		SRID:             5070,
		NoData:           0,
		ResolutionMeters: 30,
	}
}

func TestPointEWKBCarriesSRID(t *testing.T) {
	p := Point{X: 1550000, Y: 1950000, SRID: 5070}
	data, err := p.EWKB()
	require.NoError(t, err)

	g, err := ewkb.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 5070, g.SRID())
	assert.Equal(t, []float64{1550000, 1950000}, g.FlatCoords())
}

func TestHistogramTotal(t *testing.T) {
	h := Histogram{41: 120, 42: 80, 90: 50}
	assert.Equal(t, int64(250), h.Total())
	assert.Equal(t, int64(0), Histogram{}.Total())
}

func TestHistogramClasses(t *testing.T) {
	h := Histogram{90: 1, 11: 2, 42: 3}
	assert.Equal(t, []int{11, 42, 90}, h.Classes())
}

func TestHistogramProportions(t *testing.T) {
	h := Histogram{41: 75, 42: 25}
	props := h.Proportions()
	assert.InDelta(t, 0.75, props[41], 1e-9)
	assert.InDelta(t, 0.25, props[42], 1e-9)

	assert.Empty(t, Histogram{}.Proportions())
}

func TestNewDefaultsBand(t *testing.T) {
	cfg := testRasterConfig()
	cfg.Band = 0
	r := New(nil, cfg)
	assert.Equal(t, 1, r.cfg.Band)
}
