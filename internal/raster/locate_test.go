package raster

import (
	"context"
	"fmt"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())
	p := Point{X: 1550000, Y: 1950000, SRID: 5070}
	wkb, err := p.EWKB()
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT rid`).
		WithArgs(wkb).
		WillReturnRows(pgxmock.NewRows([]string{"rid", "col", "row"}).AddRow(7, 113, 58))

	cell, err := r.Locate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, Cell{Tile: 7, Column: 113, Row: 58}, cell)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocateOutsideExtent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())
	p := Point{X: -9e6, Y: -9e6, SRID: 5070}

	mock.ExpectQuery(`SELECT rid`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"rid", "col", "row"}))

	_, err = r.Locate(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocateSRIDMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())

	_, err = r.Locate(context.Background(), Point{X: -96.7, Y: 32.7, SRID: 4326})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSRIDMismatch)
	// No query reaches the engine on a CRS mismatch.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocateConnectionFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := New(mock, testRasterConfig())

	mock.ExpectQuery(`SELECT rid`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(fmt.Errorf("connection refused"))

	_, err = r.Locate(context.Background(), Point{X: 1, Y: 2, SRID: 5070})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "locate cell")
}
