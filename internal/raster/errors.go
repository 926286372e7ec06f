package raster

import "github.com/rotisserie/eris"

// Sentinel errors for the raster engine boundary. Callers distinguish these
// from connection-level failures with eris.Is.
var (
	// ErrNotFound means the query point intersects no raster tile.
	ErrNotFound = eris.New("raster: point outside raster extent")

	// ErrSRIDMismatch means a point's SRID does not match the raster's SRID.
	ErrSRIDMismatch = eris.New("raster: point SRID does not match raster SRID")
)

func sridMismatch(got, want int) error {
	return eris.Wrapf(ErrSRIDMismatch, "got SRID %d, raster is %d", got, want)
}
