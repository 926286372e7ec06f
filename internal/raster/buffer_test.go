package raster

import (
	"context"
	"fmt"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferHistogram(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())
	p := Point{X: 1550000, Y: 1950000, SRID: 5070}
	wkb, err := p.EWKB()
	require.NoError(t, err)

	mock.ExpectQuery(`ST_ValueCount\(ST_Clip`).
		WithArgs(wkb, 900.0, 1).
		WillReturnRows(pgxmock.NewRows([]string{"value", "count"}).
			AddRow(float64(41), int64(1200)).
			AddRow(float64(42), int64(340)).
			AddRow(float64(90), int64(60)))

	hist, err := r.BufferHistogram(context.Background(), p, 900)
	require.NoError(t, err)
	assert.Equal(t, Histogram{41: 1200, 42: 340, 90: 60}, hist)
	assert.Equal(t, int64(1600), hist.Total())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBufferHistogramExcludesNoData(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := testRasterConfig()
	cfg.NoData = 250
	r := New(mock, cfg)

	mock.ExpectQuery(`ST_ValueCount\(ST_Clip`).
		WithArgs(pgxmock.AnyArg(), 300.0, 1).
		WillReturnRows(pgxmock.NewRows([]string{"value", "count"}).
			AddRow(float64(11), int64(40)).
			AddRow(float64(250), int64(9)))

	hist, err := r.BufferHistogram(context.Background(), Point{X: 1, Y: 2, SRID: 5070}, 300)
	require.NoError(t, err)
	assert.Equal(t, Histogram{11: 40}, hist)
	assert.NotContains(t, hist, 250)
}

func TestBufferHistogramEmptyRegion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())

	mock.ExpectQuery(`ST_ValueCount\(ST_Clip`).
		WithArgs(pgxmock.AnyArg(), 500.0, 1).
		WillReturnRows(pgxmock.NewRows([]string{"value", "count"}))

	hist, err := r.BufferHistogram(context.Background(), Point{X: 1, Y: 2, SRID: 5070}, 500)
	require.NoError(t, err)
	assert.Empty(t, hist)
	assert.Equal(t, int64(0), hist.Total())
}

func TestBufferHistogramInvalidRadius(t *testing.T) {
	r := New(nil, testRasterConfig())

	_, err := r.BufferHistogram(context.Background(), Point{X: 1, Y: 2, SRID: 5070}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius must be positive")

	_, err = r.BufferHistogram(context.Background(), Point{X: 1, Y: 2, SRID: 5070}, -100)
	require.Error(t, err)
}

func TestBufferHistogramSRIDMismatch(t *testing.T) {
	r := New(nil, testRasterConfig())

	_, err := r.BufferHistogram(context.Background(), Point{X: -96.7, Y: 32.7, SRID: 4326}, 900)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSRIDMismatch)
}

func TestBufferHistogramConnectionFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())

	mock.ExpectQuery(`ST_ValueCount\(ST_Clip`).
		WithArgs(pgxmock.AnyArg(), 900.0, 1).
		WillReturnError(fmt.Errorf("server closed the connection"))

	_, err = r.BufferHistogram(context.Background(), Point{X: 1, Y: 2, SRID: 5070}, 900)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer histogram")
}
