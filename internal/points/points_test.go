package points

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/landcover-cli/internal/raster"
)

func writePointShapefile(t *testing.T, pts []shp.Point) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	for i := range pts {
		w.Write(&pts[i])
	}
	w.Close()
	return path
}

func TestFromShapefile(t *testing.T) {
	path := writePointShapefile(t, []shp.Point{
		{X: 1550000, Y: 1950000},
		{X: 1560000, Y: 1940000},
	})

	pts, err := FromShapefile(path, 5070)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, raster.Point{X: 1550000, Y: 1950000, SRID: 5070}, pts[0])
	assert.Equal(t, raster.Point{X: 1560000, Y: 1940000, SRID: 5070}, pts[1])
}

func TestFromShapefileEmpty(t *testing.T) {
	path := writePointShapefile(t, nil)

	_, err := FromShapefile(path, 5070)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no point features")
}

func TestFromShapefileMissing(t *testing.T) {
	_, err := FromShapefile(filepath.Join(t.TempDir(), "nope.shp"), 5070)
	require.Error(t, err)
}
