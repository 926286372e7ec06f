package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/points"
	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/report"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Sample land-cover classes for many points",
}

var sampleBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Sample every point in a shapefile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		shpPath, _ := cmd.Flags().GetString("shapefile")
		srid, _ := cmd.Flags().GetInt("srid")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		rate, _ := cmd.Flags().GetFloat64("rate")

		if srid == 0 {
			srid = cfg.Raster.SRID
		}
		if concurrency == 0 {
			concurrency = cfg.Sample.Concurrency
		}
		if rate == 0 {
			rate = cfg.Sample.RatePerSec
		}

		pts, err := points.FromShapefile(shpPath, srid)
		if err != nil {
			return eris.Wrap(err, "sample batch")
		}
		zap.L().Info("loaded points", zap.String("shapefile", shpPath), zap.Int("count", len(pts)))

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		results, err := rast.BatchSample(ctx, pts, raster.BatchOptions{
			Concurrency: concurrency,
			RatePerSec:  rate,
		})
		if err != nil {
			return eris.Wrap(err, "sample batch")
		}

		formatSampleResults(results)

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			if err := report.WriteSamplesXLSX(path, results); err != nil {
				return err
			}
			zap.L().Info("wrote workbook", zap.String("path", path))
		}
		return nil
	},
}

func formatSampleResults(results []raster.SampleResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "X\tY\tCLASS\tNAME")

	var failed int
	for _, res := range results {
		switch {
		case res.Err != "":
			failed++
		case !res.Valid:
			_, _ = fmt.Fprintf(w, "%.2f\t%.2f\t-\tnodata\n", res.Point.X, res.Point.Y)
		default:
			_, _ = fmt.Fprintf(w, "%.2f\t%.2f\t%d\t%s\n", res.Point.X, res.Point.Y, res.Class, report.ClassName(res.Class))
		}
	}
	_ = w.Flush()

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d point(s) failed to sample.\n", failed)
	}
}

func init() {
	sampleBatchCmd.Flags().String("shapefile", "", "point shapefile to sample (required)")
	sampleBatchCmd.Flags().Int("srid", 0, "SRID of the shapefile coordinates (default from config)")
	sampleBatchCmd.Flags().Int("concurrency", 0, "concurrent queries (default from config)")
	sampleBatchCmd.Flags().Float64("rate", 0, "max queries per second (default from config)")
	sampleBatchCmd.Flags().String("xlsx", "", "write results to an XLSX workbook at this path")
	_ = sampleBatchCmd.MarkFlagRequired("shapefile")

	sampleCmd.AddCommand(sampleBatchCmd)
	rootCmd.AddCommand(sampleCmd)
}
