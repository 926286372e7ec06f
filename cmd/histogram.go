package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/report"
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Aggregate land-cover classes around a point",
	Long:  "Builds a class histogram around a point, either by clipping the raster to a buffered circle or by reading a square pixel window centered on the point.",
}

var histogramBufferCmd = &cobra.Command{
	Use:   "buffer",
	Short: "Histogram of a buffered circle around a point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		radius, _ := cmd.Flags().GetFloat64("radius")

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		p := flagPoint()
		hist, err := rast.BufferHistogram(ctx, p, radius)
		if err != nil {
			return eris.Wrap(err, "histogram buffer")
		}

		return writeHistogram(cmd, hist)
	},
}

var histogramWindowCmd = &cobra.Command{
	Use:   "window",
	Short: "Histogram of a square pixel window around a point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		distance, _ := cmd.Flags().GetFloat64("distance")
		cells, _ := cmd.Flags().GetInt("cells")

		if distance > 0 {
			var err error
			cells, err = raster.CellsForDistance(distance, cfg.Raster.ResolutionMeters)
			if err != nil {
				return eris.Wrap(err, "histogram window")
			}
			zap.L().Debug("derived window radius",
				zap.Float64("distance_m", distance),
				zap.Int("radius_cells", cells),
			)
		}
		if cells < 1 {
			return eris.New("histogram window: give --distance or --cells")
		}

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		p := flagPoint()
		hist, err := rast.NeighborhoodHistogram(ctx, p, cells)
		if err != nil {
			if eris.Is(err, raster.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "No raster tile covers (%g, %g).\n", p.X, p.Y)
				return nil
			}
			return eris.Wrap(err, "histogram window")
		}

		return writeHistogram(cmd, hist)
	},
}

// writeHistogram prints a histogram and optionally exports it to a workbook.
func writeHistogram(cmd *cobra.Command, hist raster.Histogram) error {
	if err := report.WriteHistogram(os.Stdout, hist); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		if err := report.WriteHistogramXLSX(path, hist); err != nil {
			return err
		}
		zap.L().Info("wrote workbook", zap.String("path", path))
	}
	return nil
}

func init() {
	pointFlags(histogramBufferCmd)
	histogramBufferCmd.Flags().Float64("radius", 1000, "buffer radius in meters")
	histogramBufferCmd.Flags().String("xlsx", "", "also write the histogram to an XLSX workbook")

	pointFlags(histogramWindowCmd)
	histogramWindowCmd.Flags().Float64("distance", 0, "ground distance in meters to derive the window radius from")
	histogramWindowCmd.Flags().Int("cells", 0, "window radius in cells (overridden by --distance)")
	histogramWindowCmd.Flags().String("xlsx", "", "also write the histogram to an XLSX workbook")

	histogramCmd.AddCommand(histogramBufferCmd)
	histogramCmd.AddCommand(histogramWindowCmd)
	rootCmd.AddCommand(histogramCmd)
}
