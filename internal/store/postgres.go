package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/landcover-cli/internal/bench"
	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with its own connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := db.New(ctx, config.DatabaseConfig{URL: connString})
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; Close becomes a no-op so the
// shared pool outlives the store.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS bench_runs (
	id         UUID PRIMARY KEY,
	point_x    DOUBLE PRECISION NOT NULL,
	point_y    DOUBLE PRECISION NOT NULL,
	srid       INTEGER NOT NULL,
	sizes      JSONB NOT NULL,
	iterations INTEGER NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bench_samples (
	id         BIGSERIAL PRIMARY KEY,
	run_id     UUID NOT NULL REFERENCES bench_runs(id),
	strategy   TEXT NOT NULL,
	size       DOUBLE PRECISION NOT NULL,
	elapsed_ns BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bench_samples_run_id ON bench_samples(run_id);
CREATE INDEX IF NOT EXISTS idx_bench_runs_created_at ON bench_runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "store: migrate postgres")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

// SaveRun writes the run and all its samples in one transaction and returns
// the new run id.
func (s *PostgresStore) SaveRun(ctx context.Context, result *bench.Result, notes string) (string, error) {
	sizes, err := json.Marshal(result.Sizes)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal sizes")
	}

	id := uuid.NewString()
	err = db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO bench_runs (id, point_x, point_y, srid, sizes, iterations, notes, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, result.Point.X, result.Point.Y, result.Point.SRID,
			sizes, result.Iterations, notes, result.StartedAt.UTC(),
		)
		if err != nil {
			return eris.Wrap(err, "store: insert run")
		}

		for _, sample := range result.Samples() {
			_, err := tx.Exec(ctx,
				`INSERT INTO bench_samples (run_id, strategy, size, elapsed_ns) VALUES ($1, $2, $3, $4)`,
				id, sample.Strategy, sample.Size, int64(sample.Elapsed),
			)
			if err != nil {
				return eris.Wrap(err, "store: insert sample")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetRun loads a run and its samples.
func (s *PostgresStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var sizes []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, point_x, point_y, srid, sizes, iterations, notes, created_at
		 FROM bench_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.PointX, &run.PointY, &run.SRID, &sizes, &run.Iterations, &run.Notes, &run.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrRunNotFound, "id %s", id)
		}
		return nil, eris.Wrap(err, "store: get run")
	}
	if err := json.Unmarshal(sizes, &run.Sizes); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal sizes")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT strategy, size, elapsed_ns FROM bench_samples WHERE run_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, eris.Wrap(err, "store: query samples")
	}
	defer rows.Close()

	for rows.Next() {
		var sample bench.Sample
		var ns int64
		if err := rows.Scan(&sample.Strategy, &sample.Size, &ns); err != nil {
			return nil, eris.Wrap(err, "store: scan sample row")
		}
		sample.Elapsed = time.Duration(ns)
		run.Samples = append(run.Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate sample rows")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT r.id, r.point_x, r.point_y, r.srid, r.iterations, r.notes, r.created_at,
		        (SELECT COUNT(*) FROM bench_samples s WHERE s.run_id = r.id)
		 FROM bench_runs r
		 ORDER BY r.created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.PointX, &sum.PointY, &sum.SRID,
			&sum.Iterations, &sum.Notes, &sum.CreatedAt, &sum.SampleN); err != nil {
			return nil, eris.Wrap(err, "store: scan run row")
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate run rows")
	}
	return out, nil
}
