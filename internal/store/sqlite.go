package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/landcover-cli/internal/bench"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS bench_runs (
	id         TEXT PRIMARY KEY,
	point_x    REAL NOT NULL,
	point_y    REAL NOT NULL,
	srid       INTEGER NOT NULL,
	sizes      TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS bench_samples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL REFERENCES bench_runs(id),
	strategy   TEXT NOT NULL,
	size       REAL NOT NULL,
	elapsed_ns INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bench_samples_run_id ON bench_samples(run_id);
CREATE INDEX IF NOT EXISTS idx_bench_runs_created_at ON bench_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun writes the run and all its samples in one transaction and returns
// the new run id.
func (s *SQLiteStore) SaveRun(ctx context.Context, result *bench.Result, notes string) (string, error) {
	sizes, err := json.Marshal(result.Sizes)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal sizes")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bench_runs (id, point_x, point_y, srid, sizes, iterations, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.Point.X, result.Point.Y, result.Point.SRID,
		string(sizes), result.Iterations, notes, result.StartedAt.UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}

	for _, sample := range result.Samples() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO bench_samples (run_id, strategy, size, elapsed_ns) VALUES (?, ?, ?, ?)`,
			id, sample.Strategy, sample.Size, int64(sample.Elapsed),
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert sample")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit tx")
	}
	return id, nil
}

// GetRun loads a run and its samples.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var sizes string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, point_x, point_y, srid, sizes, iterations, notes, created_at
		 FROM bench_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.PointX, &run.PointY, &run.SRID, &sizes, &run.Iterations, &run.Notes, &run.CreatedAt)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrRunNotFound, "id %s", id)
		}
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	if err := json.Unmarshal([]byte(sizes), &run.Sizes); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sizes")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy, size, elapsed_ns FROM bench_samples WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query samples")
	}
	defer rows.Close()

	for rows.Next() {
		var sample bench.Sample
		var ns int64
		if err := rows.Scan(&sample.Strategy, &sample.Size, &ns); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sample row")
		}
		sample.Elapsed = time.Duration(ns)
		run.Samples = append(run.Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate sample rows")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.point_x, r.point_y, r.srid, r.iterations, r.notes, r.created_at,
		        (SELECT COUNT(*) FROM bench_samples s WHERE s.run_id = r.id)
		 FROM bench_runs r
		 ORDER BY r.created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.PointX, &sum.PointY, &sum.SRID,
			&sum.Iterations, &sum.Notes, &sum.CreatedAt, &sum.SampleN); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run row")
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate run rows")
	}
	return out, nil
}
