// Package bench compares the scaling behavior of the buffer and neighborhood
// histogram strategies over a sweep of neighborhood sizes.
package bench

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/landcover-cli/internal/raster"
)

// Strategy names, fixed in execution order within each iteration.
const (
	StrategyBuffer = "buffer"
	StrategyWindow = "window"
)

// Aggregators is the slice of raster behavior the harness drives.
// *raster.Raster satisfies it.
type Aggregators interface {
	BufferHistogram(ctx context.Context, p raster.Point, radiusMeters float64) (raster.Histogram, error)
	NeighborhoodHistogram(ctx context.Context, p raster.Point, radiusCells int) (raster.Histogram, error)
	Resolution() float64
}

// Sample is one timed aggregator call.
type Sample struct {
	Strategy string        `json:"strategy"`
	Size     float64       `json:"size"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Result holds every timing sample from one benchmark run, grouped by
// strategy and size.
type Result struct {
	Point      raster.Point                         `json:"point"`
	Sizes      []float64                            `json:"sizes"`
	Iterations int                                  `json:"iterations"`
	Series     map[string]map[float64][]time.Duration `json:"series"`
	StartedAt  time.Time                            `json:"started_at"`
	Duration   time.Duration                        `json:"duration"`
}

// Samples flattens the series into (strategy, size, elapsed) tuples, ordered
// by strategy then size.
func (r *Result) Samples() []Sample {
	var out []Sample
	for _, strategy := range []string{StrategyBuffer, StrategyWindow} {
		bySize := r.Series[strategy]
		for _, size := range r.Sizes {
			for _, d := range bySize[size] {
				out = append(out, Sample{Strategy: strategy, Size: size, Elapsed: d})
			}
		}
	}
	return out
}

// Medians reduces each (strategy, size) series to its median, the summary
// statistic used for comparison because it resists transient I/O outliers.
func (r *Result) Medians() map[string]map[float64]time.Duration {
	out := make(map[string]map[float64]time.Duration, len(r.Series))
	for strategy, bySize := range r.Series {
		out[strategy] = make(map[float64]time.Duration, len(bySize))
		for size, samples := range bySize {
			out[strategy][size] = Median(samples)
		}
	}
	return out
}

// Median returns the middle sample of a series.
func Median(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	xs := make([]float64, len(samples))
	for i, d := range samples {
		xs[i] = float64(d)
	}
	sort.Float64s(xs)
	m := stat.Quantile(0.5, stat.Empirical, xs, nil)
	return time.Duration(m)
}

// Harness runs both aggregators across a size sweep, strictly sequentially so
// timing samples are not contaminated by co-scheduled work.
type Harness struct {
	agg Aggregators
}

// New creates a Harness over the given aggregators.
func New(agg Aggregators) *Harness {
	return &Harness{agg: agg}
}

// Run sweeps the ascending sizes, timing `iterations` calls per strategy per
// size. The buffer strategy takes the size as its radius in meters; the
// window strategy derives an equivalent cell radius from the same size and
// the raster's resolution. Within an iteration the order is always buffer
// then window. Any failed call aborts the run: partial benchmark data is
// worse than a loud failure.
func (h *Harness) Run(ctx context.Context, p raster.Point, sizes []float64, iterations int) (*Result, error) {
	if len(sizes) == 0 {
		return nil, eris.New("bench: no sizes given")
	}
	if iterations < 1 {
		return nil, eris.Errorf("bench: iterations must be >= 1, got %d", iterations)
	}

	sweep := append([]float64(nil), sizes...)
	sort.Float64s(sweep)

	result := &Result{
		Point:      p,
		Sizes:      sweep,
		Iterations: iterations,
		Series: map[string]map[float64][]time.Duration{
			StrategyBuffer: make(map[float64][]time.Duration, len(sweep)),
			StrategyWindow: make(map[float64][]time.Duration, len(sweep)),
		},
		StartedAt: time.Now(),
	}

	log := zap.L().With(zap.String("component", "bench"))

	for _, size := range sweep {
		radiusCells, err := raster.CellsForDistance(size, h.agg.Resolution())
		if err != nil {
			return nil, eris.Wrapf(err, "bench: size %f", size)
		}

		log.Debug("sweep size",
			zap.Float64("size_meters", size),
			zap.Int("radius_cells", radiusCells),
		)

		for i := 0; i < iterations; i++ {
			start := time.Now()
			if _, err := h.agg.BufferHistogram(ctx, p, size); err != nil {
				return nil, eris.Wrapf(err, "bench: buffer call at size %f iteration %d", size, i)
			}
			result.Series[StrategyBuffer][size] = append(result.Series[StrategyBuffer][size], time.Since(start))

			start = time.Now()
			if _, err := h.agg.NeighborhoodHistogram(ctx, p, radiusCells); err != nil {
				return nil, eris.Wrapf(err, "bench: window call at size %f iteration %d", size, i)
			}
			result.Series[StrategyWindow][size] = append(result.Series[StrategyWindow][size], time.Since(start))
		}
	}

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}
