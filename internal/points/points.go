// Package points reads query points from shapefiles for batch sampling.
package points

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/raster"
)

// FromShapefile reads every point feature from a shapefile, tagging each
// with the given SRID. Non-point shapes are skipped with a warning; a
// shapefile containing no point features is an error.
func FromShapefile(path string, srid int) ([]raster.Point, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "points: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	var pts []raster.Point
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		switch s := shape.(type) {
		case *shp.Point:
			pts = append(pts, raster.Point{X: s.X, Y: s.Y, SRID: srid})
		case *shp.PointZ:
			pts = append(pts, raster.Point{X: s.X, Y: s.Y, SRID: srid})
		default:
			skipped++
		}
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "points: read shapefile %s", path)
	}

	if skipped > 0 {
		zap.L().Warn("skipped non-point shapes",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(pts) == 0 {
		return nil, eris.Errorf("points: no point features in %s", path)
	}
	return pts, nil
}
