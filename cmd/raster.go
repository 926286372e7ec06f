package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/report"
)

var (
	pointX    float64
	pointY    float64
	pointSRID int
)

// pointFlags registers the shared point flags on a command.
func pointFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&pointX, "x", 0, "point X in raster CRS units (required)")
	cmd.Flags().Float64Var(&pointY, "y", 0, "point Y in raster CRS units (required)")
	cmd.Flags().IntVar(&pointSRID, "srid", 0, "point SRID (default from config)")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
}

// flagPoint builds a raster.Point from the shared point flags.
func flagPoint() raster.Point {
	srid := pointSRID
	if srid == 0 {
		srid = cfg.Raster.SRID
	}
	return raster.Point{X: pointX, Y: pointY, SRID: srid}
}

var rasterCmd = &cobra.Command{
	Use:   "raster",
	Short: "Inspect and sample the land-cover raster",
}

var rasterInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show raster metadata (SRID, scale, bands, tiles)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		info, err := rast.Info(ctx)
		if err != nil {
			return eris.Wrap(err, "raster info")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "Table:\t%s\n", cfg.Raster.Table)
		_, _ = fmt.Fprintf(w, "SRID:\t%d\n", info.SRID)
		_, _ = fmt.Fprintf(w, "Scale X:\t%g\n", info.ScaleX)
		_, _ = fmt.Fprintf(w, "Scale Y:\t%g\n", info.ScaleY)
		_, _ = fmt.Fprintf(w, "Bands:\t%d\n", info.Bands)
		_, _ = fmt.Fprintf(w, "Tiles:\t%d\n", info.Tiles)
		return w.Flush()
	},
}

var rasterLocateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the raster tile and pixel covering a point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		p := flagPoint()
		cell, err := rast.Locate(ctx, p)
		if err != nil {
			if eris.Is(err, raster.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "No raster tile covers (%g, %g).\n", p.X, p.Y)
				return nil
			}
			return eris.Wrap(err, "raster locate")
		}

		fmt.Printf("tile=%d column=%d row=%d\n", cell.Tile, cell.Column, cell.Row)
		return nil
	},
}

var rasterSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Read the land-cover class at a point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		p := flagPoint()
		class, ok, err := rast.ValueAt(ctx, p)
		if err != nil {
			if eris.Is(err, raster.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "No raster tile covers (%g, %g).\n", p.X, p.Y)
				return nil
			}
			return eris.Wrap(err, "raster sample")
		}
		if !ok {
			fmt.Println("nodata")
			return nil
		}

		zap.L().Debug("sampled point", zap.Float64("x", p.X), zap.Float64("y", p.Y), zap.Int("class", class))
		fmt.Printf("%d\t%s\n", class, report.ClassName(class))
		return nil
	},
}

func init() {
	pointFlags(rasterLocateCmd)
	pointFlags(rasterSampleCmd)

	rasterCmd.AddCommand(rasterInfoCmd)
	rasterCmd.AddCommand(rasterLocateCmd)
	rasterCmd.AddCommand(rasterSampleCmd)
	rootCmd.AddCommand(rasterCmd)
}
