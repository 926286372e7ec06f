package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/landcover-cli/internal/bench"
)

func TestPostgresSaveRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)
	result := benchResult()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bench_runs`).
		WithArgs(pgxmock.AnyArg(), 1550000.0, 1950000.0, 5070,
			pgxmock.AnyArg(), 2, "sweep", result.StartedAt.UTC()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for range result.Samples() {
		mock.ExpectExec(`INSERT INTO bench_samples`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	id, err := s.SaveRun(context.Background(), result, "sweep")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveRunRollsBackOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bench_runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	_, err = s.SaveRun(context.Background(), benchResult(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)
	now := time.Now()
	sizes, _ := json.Marshal([]float64{100, 500})

	mock.ExpectQuery(`SELECT id, point_x`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "point_x", "point_y", "srid", "sizes", "iterations", "notes", "created_at",
		}).AddRow("run-1", 1.0, 2.0, 5070, sizes, 3, "", now))
	mock.ExpectQuery(`SELECT strategy, size, elapsed_ns`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"strategy", "size", "elapsed_ns"}).
			AddRow(bench.StrategyBuffer, 100.0, int64(3e6)).
			AddRow(bench.StrategyWindow, 100.0, int64(2e6)))

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 500}, run.Sizes)
	require.Len(t, run.Samples, 2)
	assert.Equal(t, 3*time.Millisecond, run.Samples[0].Elapsed)
}

func TestPostgresGetRunNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)

	mock.ExpectQuery(`SELECT id, point_x`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "point_x", "point_y", "srid", "sizes", "iterations", "notes", "created_at",
		}))

	_, err = s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestPostgresListRuns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT r\.id`).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "point_x", "point_y", "srid", "iterations", "notes", "created_at", "count",
		}).AddRow("run-1", 1.0, 2.0, 5070, 3, "note", now, 12))

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 12, runs[0].SampleN)
}
