// Package store persists benchmark run history.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/landcover-cli/internal/bench"
	"github.com/sells-group/landcover-cli/internal/config"
)

// Run is a persisted benchmark run with its timing samples.
type Run struct {
	ID         string         `json:"id"`
	PointX     float64        `json:"point_x"`
	PointY     float64        `json:"point_y"`
	SRID       int            `json:"srid"`
	Sizes      []float64      `json:"sizes"`
	Iterations int            `json:"iterations"`
	Notes      string         `json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Samples    []bench.Sample `json:"samples,omitempty"`
}

// Summary is a Run without its samples, for listings.
type Summary struct {
	ID         string    `json:"id"`
	PointX     float64   `json:"point_x"`
	PointY     float64   `json:"point_y"`
	SRID       int       `json:"srid"`
	Iterations int       `json:"iterations"`
	SampleN    int       `json:"sample_count"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store defines the persistence interface for benchmark history.
type Store interface {
	SaveRun(ctx context.Context, result *bench.Result, notes string) (string, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Summary, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ErrRunNotFound means no run exists with the requested id.
var ErrRunNotFound = eris.New("store: benchmark run not found")

// Open constructs the configured Store backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.SQLitePath
		if path == "" {
			path = "landcover.db"
		}
		return NewSQLite(path)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver requires store.database_url")
		}
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
