package raster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Info describes the raster table as stored by the engine.
type Info struct {
	SRID   int     `json:"srid"`
	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`
	Bands  int     `json:"bands"`
	Tiles  int64   `json:"tiles"`
}

// Info reports the raster's SRID, cell scale, band count and tile count.
func (r *Raster) Info(ctx context.Context) (*Info, error) {
	sql := fmt.Sprintf(`
		SELECT ST_SRID(%[1]s), ST_ScaleX(%[1]s), ST_ScaleY(%[1]s), ST_NumBands(%[1]s),
		       (SELECT COUNT(*) FROM %[2]s)
		FROM %[2]s
		LIMIT 1
	`, r.column, r.table)

	var info Info
	err := r.pool.QueryRow(ctx, sql).Scan(
		&info.SRID, &info.ScaleX, &info.ScaleY, &info.Bands, &info.Tiles,
	)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrap(ErrNotFound, "raster table is empty")
		}
		return nil, eris.Wrap(err, "raster: query info")
	}
	return &info, nil
}

// ValueAt samples the class value at the cell containing the point. The
// second return is false when the cell holds no valid measurement.
func (r *Raster) ValueAt(ctx context.Context, p Point) (int, bool, error) {
	if err := r.checkSRID(p); err != nil {
		return 0, false, err
	}

	wkb, err := p.EWKB()
	if err != nil {
		return 0, false, eris.Wrap(err, "raster: encode point")
	}

	sql := fmt.Sprintf(`
		SELECT ST_Value(%[1]s, $2::int, ST_GeomFromEWKB($1))
		FROM %[2]s
		WHERE ST_Intersects(%[1]s, ST_GeomFromEWKB($1))
		LIMIT 1
	`, r.column, r.table)

	var value *float64
	err = r.pool.QueryRow(ctx, sql, wkb, r.cfg.Band).Scan(&value)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return 0, false, eris.Wrapf(ErrNotFound, "point (%f, %f)", p.X, p.Y)
		}
		return 0, false, eris.Wrap(err, "raster: sample value")
	}
	if value == nil || int(*value) == r.cfg.NoData {
		return 0, false, nil
	}
	return int(*value), true, nil
}
