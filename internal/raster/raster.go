// Package raster samples land-cover class values from a PostGIS raster table
// and aggregates class histograms around query points.
package raster

import (
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/db"
)

// Point is an (x, y) coordinate tagged with the SRID that gives it meaning.
// Points with different SRIDs are never combined without an explicit
// reprojection step.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	SRID int     `json:"srid"`
}

// EWKB encodes the point as extended WKB carrying its SRID, for use as a
// geometry query parameter.
func (p Point) EWKB() ([]byte, error) {
	g := geom.NewPointFlat(geom.XY, []float64{p.X, p.Y}).SetSRID(p.SRID)
	return ewkb.Marshal(g, ewkb.NDR)
}

// Cell identifies a grid cell within one raster tile. Cells are derived by
// mapping a Point through the raster's affine transform, never constructed
// directly by callers.
type Cell struct {
	Tile   int `json:"tile"`
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Histogram maps a land-cover class value to its occurrence count. The
// no-data sentinel never appears as a key; counts sum to the number of valid
// cells considered.
type Histogram map[int]int64

// Total returns the number of valid cells counted.
func (h Histogram) Total() int64 {
	var n int64
	for _, c := range h {
		n += c
	}
	return n
}

// Classes returns the class values present, ascending.
func (h Histogram) Classes() []int {
	classes := make([]int, 0, len(h))
	for v := range h {
		classes = append(classes, v)
	}
	sort.Ints(classes)
	return classes
}

// Proportions returns each class's share of the total count.
func (h Histogram) Proportions() map[int]float64 {
	total := h.Total()
	props := make(map[int]float64, len(h))
	if total == 0 {
		return props
	}
	for v, c := range h {
		props[v] = float64(c) / float64(total)
	}
	return props
}

// Raster queries a single land-cover raster table. All geometry parameters
// are passed as EWKB bytes, never interpolated into query text.
type Raster struct {
	pool   db.Pool
	cfg    config.RasterConfig
	table  string
	column string
}

// New creates a Raster over the given pool and table configuration.
func New(pool db.Pool, cfg config.RasterConfig) *Raster {
	if cfg.Band <= 0 {
		cfg.Band = 1
	}
	return &Raster{
		pool:   pool,
		cfg:    cfg,
		table:  db.SanitizeTable(cfg.Table),
		column: pgx.Identifier{cfg.Column}.Sanitize(),
	}
}

// SRID returns the raster's configured SRID.
func (r *Raster) SRID() int { return r.cfg.SRID }

// Resolution returns the configured cell resolution in meters.
func (r *Raster) Resolution() float64 { return r.cfg.ResolutionMeters }

// checkSRID rejects points whose SRID does not match the raster's. Silent
// reinterpretation of coordinates across datums is the failure mode this
// guards against.
func (r *Raster) checkSRID(p Point) error {
	if p.SRID != r.cfg.SRID {
		return sridMismatch(p.SRID, r.cfg.SRID)
	}
	return nil
}
