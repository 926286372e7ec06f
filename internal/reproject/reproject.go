// Package reproject reconciles two coordinate reference systems that share
// projection parameters but differ in geodetic datum, and reports the
// positional drift between them over sample points.
package reproject

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/terrascope/geometry"
	"github.com/terrascope/proj4go"
)

// Projection parameter strings. ConusAlbersNAD83 is the proj4 equivalent of
// EPSG:5070; the land-cover raster's custom CRS uses the same Albers Equal
// Area parameters anchored to WGS84 instead.
const (
	ConusAlbersNAD83 = "+proj=aea +lat_0=23 +lon_0=-96 +lat_1=29.5 +lat_2=45.5 +x_0=0 +y_0=0 +datum=NAD83 +units=m +no_defs"

	// DatumNAD83 and DatumWGS84 are the datum tokens swapped by Derive.
	DatumNAD83 = "NAD83"
	DatumWGS84 = "WGS84"
)

// ErrDatumNotFound means the source datum token is absent from the parameter
// string, so substitution would silently return wrong-datum parameters.
var ErrDatumNotFound = eris.New("reproject: source datum not present in CRS parameters")

// Derive builds the parameter string of a CRS differing from the standard
// one only in datum, by literal substitution of the datum token.
func Derive(standardParams, sourceDatum, targetDatum string) (string, error) {
	token := "+datum=" + sourceDatum
	if !strings.Contains(standardParams, token) {
		return "", eris.Wrapf(ErrDatumNotFound, "datum %q in %q", sourceDatum, standardParams)
	}
	return strings.Replace(standardParams, token, "+datum="+targetDatum, 1), nil
}

// Pair holds the projection parameters of the standard CRS and the derived
// one. The textual parameters are retained for display, not recomputed.
type Pair struct {
	StandardParams string `json:"standard_params"`
	DerivedParams  string `json:"derived_params"`
}

// NewPair derives the second CRS of a pair from the first.
func NewPair(standardParams, sourceDatum, targetDatum string) (*Pair, error) {
	derived, err := Derive(standardParams, sourceDatum, targetDatum)
	if err != nil {
		return nil, err
	}
	return &Pair{StandardParams: standardParams, DerivedParams: derived}, nil
}

// Drift is one geographic point projected through both CRSs, with the
// per-axis difference (derived minus standard) in projected units.
type Drift struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	StandardX float64 `json:"standard_x"`
	StandardY float64 `json:"standard_y"`
	DerivedX  float64 `json:"derived_x"`
	DerivedY  float64 `json:"derived_y"`
	DX        float64 `json:"dx"`
	DY        float64 `json:"dy"`
}

// Compare projects each geographic (lon, lat) point through both transforms
// and reports the per-axis drift. Diagnostic only: neither CRS is treated as
// the correct one.
func (p *Pair) Compare(lonLats [][2]float64) ([]Drift, error) {
	if len(lonLats) == 0 {
		return nil, nil
	}

	standard := make([]geometry.Point, len(lonLats))
	derived := make([]geometry.Point, len(lonLats))
	for i, ll := range lonLats {
		standard[i] = geometry.Point{X: ll[0], Y: ll[1]}
		derived[i] = geometry.Point{X: ll[0], Y: ll[1]}
	}

	if err := proj4go.Forwards(p.StandardParams, standard); err != nil {
		return nil, eris.Wrap(err, "reproject: standard transform")
	}
	if err := proj4go.Forwards(p.DerivedParams, derived); err != nil {
		return nil, eris.Wrap(err, "reproject: derived transform")
	}

	drifts := make([]Drift, len(lonLats))
	for i, ll := range lonLats {
		drifts[i] = Drift{
			Lon:       ll[0],
			Lat:       ll[1],
			StandardX: standard[i].X,
			StandardY: standard[i].Y,
			DerivedX:  derived[i].X,
			DerivedY:  derived[i].Y,
			DX:        derived[i].X - standard[i].X,
			DY:        derived[i].Y - standard[i].Y,
		}
	}
	return drifts, nil
}

// SamplePoints returns the North American city coordinates used by default
// for drift comparison.
func SamplePoints() [][2]float64 {
	return [][2]float64{
		{-73.553785, 45.508722},  // Montreal
		{-118.243683, 34.052235}, // Los Angeles
		{-77.036873, 38.907192},  // Washington, D.C.
		{-123.120738, 49.282729}, // Vancouver
		{-80.191790, 25.761680},  // Miami
	}
}
