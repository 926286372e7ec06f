package raster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/landcover-cli/internal/db"
)

// NeighborhoodHistogram counts class values over a square window of
// radiusCells around the cell containing the point. The locate and window
// extraction run in one transaction. The engine clips the window at tile
// boundaries; no-data cells come back as NULL and are excluded, as are cells
// holding the configured no-data sentinel. Radii below 1 floor to the
// minimum 3x3 window.
func (r *Raster) NeighborhoodHistogram(ctx context.Context, p Point, radiusCells int) (Histogram, error) {
	if err := r.checkSRID(p); err != nil {
		return nil, err
	}
	if radiusCells < 1 {
		radiusCells = 1
	}

	hist := make(Histogram)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		cell, err := r.locate(ctx, tx, p)
		if err != nil {
			return err
		}

		sql := fmt.Sprintf(`
			SELECT unnest(ST_Neighborhood(%[1]s, $2::int, $3::int, $4::int, $5::int, $5::int))
			FROM %[2]s
			WHERE rid = $1
		`, r.column, r.table)

		rows, err := tx.Query(ctx, sql, cell.Tile, r.cfg.Band, cell.Column, cell.Row, radiusCells)
		if err != nil {
			return eris.Wrap(err, "raster: neighborhood window")
		}
		defer rows.Close()

		for rows.Next() {
			var value *float64
			if err := rows.Scan(&value); err != nil {
				return eris.Wrap(err, "raster: scan neighborhood cell")
			}
			if value == nil {
				continue
			}
			class := int(*value)
			if class == r.cfg.NoData {
				continue
			}
			hist[class]++
		}
		return eris.Wrap(rows.Err(), "raster: iterate neighborhood cells")
	})
	if err != nil {
		return nil, err
	}
	return hist, nil
}
