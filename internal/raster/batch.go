package raster

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchOptions bounds concurrent point sampling. The benchmark harness never
// uses this path; it stays strictly sequential.
type BatchOptions struct {
	Concurrency int
	RatePerSec  float64
}

// SampleResult is the outcome of sampling one point.
type SampleResult struct {
	Point Point  `json:"point"`
	Class int    `json:"class"`
	Valid bool   `json:"valid"`
	Err   string `json:"error,omitempty"`
}

// BatchSample samples class values at many points with bounded concurrency
// and a shared rate limit. Per-point failures are recorded in the result,
// not fatal; only context cancellation aborts the batch.
func (r *Raster) BatchSample(ctx context.Context, pts []Point, opts BatchOptions) ([]SampleResult, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 20
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	results := make([]SampleResult, len(pts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, p := range pts {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return eris.Wrap(err, "raster: batch rate limit")
			}

			res := SampleResult{Point: p}
			class, valid, err := r.ValueAt(gctx, p)
			if err != nil {
				if eris.Is(err, ErrNotFound) {
					res.Err = "outside raster extent"
				} else {
					res.Err = err.Error()
					zap.L().Warn("batch sample failed",
						zap.Float64("x", p.X),
						zap.Float64("y", p.Y),
						zap.Error(err),
					)
				}
			} else {
				res.Class = class
				res.Valid = valid
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
