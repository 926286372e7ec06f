package raster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// rowQuerier is satisfied by both db.Pool and pgx.Tx so Locate can run
// standalone or inside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Locate maps a point to the raster cell containing it, delegating the
// affine world-to-cell arithmetic to the engine. Returns ErrNotFound when the
// point falls outside every tile and ErrSRIDMismatch when the point is tagged
// with a different CRS than the raster.
func (r *Raster) Locate(ctx context.Context, p Point) (Cell, error) {
	return r.locate(ctx, r.pool, p)
}

func (r *Raster) locate(ctx context.Context, q rowQuerier, p Point) (Cell, error) {
	if err := r.checkSRID(p); err != nil {
		return Cell{}, err
	}

	wkb, err := p.EWKB()
	if err != nil {
		return Cell{}, eris.Wrap(err, "raster: encode point")
	}

	sql := fmt.Sprintf(`
		SELECT rid,
		       ST_WorldToRasterCoordX(%[1]s, ST_GeomFromEWKB($1)),
		       ST_WorldToRasterCoordY(%[1]s, ST_GeomFromEWKB($1))
		FROM %[2]s
		WHERE ST_Intersects(%[1]s, ST_GeomFromEWKB($1))
		LIMIT 1
	`, r.column, r.table)

	var cell Cell
	err = q.QueryRow(ctx, sql, wkb).Scan(&cell.Tile, &cell.Column, &cell.Row)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return Cell{}, eris.Wrapf(ErrNotFound, "point (%f, %f)", p.X, p.Y)
		}
		return Cell{}, eris.Wrap(err, "raster: locate cell")
	}
	return cell, nil
}
