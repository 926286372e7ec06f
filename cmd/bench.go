package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/bench"
	"github.com/sells-group/landcover-cli/internal/report"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the aggregation strategies",
}

var benchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Time buffer-clip against pixel-window across a size sweep",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sizes, _ := cmd.Flags().GetFloat64Slice("sizes")
		iterations, _ := cmd.Flags().GetInt("iterations")
		if len(sizes) == 0 {
			sizes = cfg.Bench.Sizes
		}
		if iterations == 0 {
			iterations = cfg.Bench.Iterations
		}

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		p := flagPoint()
		zap.L().Info("starting benchmark",
			zap.Float64("x", p.X),
			zap.Float64("y", p.Y),
			zap.Float64s("sizes", sizes),
			zap.Int("iterations", iterations),
		)

		result, err := bench.New(rast).Run(ctx, p, sizes, iterations)
		if err != nil {
			return eris.Wrap(err, "bench run")
		}

		if err := report.WriteBenchmark(os.Stdout, result); err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			notes, _ := cmd.Flags().GetString("notes")

			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}

			id, err := st.SaveRun(ctx, result, notes)
			if err != nil {
				return eris.Wrap(err, "save run")
			}
			zap.L().Info("saved benchmark run", zap.String("run_id", id))
		}

		if path, _ := cmd.Flags().GetString("chart"); path != "" {
			if err := report.WriteBenchmarkChart(path, result); err != nil {
				return err
			}
			zap.L().Info("wrote chart", zap.String("path", path))
		}

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			if err := report.WriteBenchmarkXLSX(path, result); err != nil {
				return err
			}
			zap.L().Info("wrote workbook", zap.String("path", path))
		}

		return nil
	},
}

func init() {
	pointFlags(benchRunCmd)
	benchRunCmd.Flags().Float64Slice("sizes", nil, "buffer radii in meters to sweep (default from config)")
	benchRunCmd.Flags().Int("iterations", 0, "timed iterations per strategy per size (default from config)")
	benchRunCmd.Flags().Bool("save", false, "persist the run to the benchmark history store")
	benchRunCmd.Flags().String("notes", "", "free-form notes stored with the run")
	benchRunCmd.Flags().String("chart", "", "write an HTML line chart of median timings to this path")
	benchRunCmd.Flags().String("xlsx", "", "write samples and medians to an XLSX workbook at this path")

	benchCmd.AddCommand(benchRunCmd)
	rootCmd.AddCommand(benchCmd)
}
