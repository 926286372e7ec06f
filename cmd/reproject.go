package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/report"
	"github.com/sells-group/landcover-cli/internal/reproject"
)

var reprojectCmd = &cobra.Command{
	Use:   "reproject",
	Short: "Reconcile datum-shifted projection parameters",
}

var reprojectCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the standard CRS against its datum-swapped derivation",
	Long:  "Derives a WGS84 variant of the CONUS Albers NAD83 parameters by swapping the datum token, projects a set of reference cities through both, and reports the per-axis drift in meters.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params, _ := cmd.Flags().GetString("params")
		source, _ := cmd.Flags().GetString("source-datum")
		target, _ := cmd.Flags().GetString("target-datum")

		pair, err := reproject.NewPair(params, source, target)
		if err != nil {
			if eris.Is(err, reproject.ErrDatumNotFound) {
				return eris.Wrapf(err, "reproject compare: datum %q not in parameters", source)
			}
			return eris.Wrap(err, "reproject compare")
		}

		zap.L().Debug("derived CRS",
			zap.String("standard", pair.StandardParams),
			zap.String("derived", pair.DerivedParams),
		)

		drifts, err := pair.Compare(reproject.SamplePoints())
		if err != nil {
			return eris.Wrap(err, "reproject compare")
		}

		if err := report.WriteDrift(os.Stdout, drifts); err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			if err := report.WriteDriftXLSX(path, pair, drifts); err != nil {
				return err
			}
			zap.L().Info("wrote workbook", zap.String("path", path))
		}
		return nil
	},
}

func init() {
	reprojectCompareCmd.Flags().String("params", reproject.ConusAlbersNAD83, "proj4 parameters of the standard CRS")
	reprojectCompareCmd.Flags().String("source-datum", reproject.DatumNAD83, "datum token to replace")
	reprojectCompareCmd.Flags().String("target-datum", reproject.DatumWGS84, "datum token to substitute")
	reprojectCompareCmd.Flags().String("xlsx", "", "write drift and CRS sheets to an XLSX workbook at this path")

	reprojectCmd.AddCommand(reprojectCompareCmd)
	rootCmd.AddCommand(reprojectCmd)
}
