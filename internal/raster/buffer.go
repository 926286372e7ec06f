package raster

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// BufferHistogram counts class values over every cell intersecting a
// circular buffer of radiusMeters around the point. The engine clips the
// raster to the buffer geometry and tabulates values server-side; boundary
// cell inclusion follows the engine's own areal semantics. A buffer that
// intersects no tile yields an empty histogram, not an error.
func (r *Raster) BufferHistogram(ctx context.Context, p Point, radiusMeters float64) (Histogram, error) {
	if err := r.checkSRID(p); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		return nil, eris.Errorf("raster: buffer radius must be positive, got %f", radiusMeters)
	}

	wkb, err := p.EWKB()
	if err != nil {
		return nil, eris.Wrap(err, "raster: encode point")
	}

	sql := fmt.Sprintf(`
		SELECT (pvc).value, SUM((pvc).count)::bigint
		FROM (
			SELECT ST_ValueCount(ST_Clip(%[1]s, $3::int, buf.geom, true)) AS pvc
			FROM %[2]s, (SELECT ST_Buffer(ST_GeomFromEWKB($1), $2) AS geom) AS buf
			WHERE ST_Intersects(%[1]s, buf.geom)
		) AS counts
		GROUP BY (pvc).value
		ORDER BY (pvc).value
	`, r.column, r.table)

	rows, err := r.pool.Query(ctx, sql, wkb, radiusMeters, r.cfg.Band)
	if err != nil {
		return nil, eris.Wrap(err, "raster: buffer histogram")
	}
	defer rows.Close()

	hist := make(Histogram)
	for rows.Next() {
		var value float64
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, eris.Wrap(err, "raster: scan value count row")
		}
		class := int(value)
		if class == r.cfg.NoData {
			continue
		}
		hist[class] += count
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "raster: iterate value count rows")
	}
	return hist, nil
}
