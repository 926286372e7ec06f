package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/db"
	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "landcover-cli",
	Short: "Land-cover raster sampling and benchmarking",
	Long:  "Samples NLCD land-cover classes around points via PostGIS raster queries, benchmarks the buffer-clip and pixel-window strategies, and reconciles datum-shifted projections.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initPool connects to the spatial engine.
func initPool(ctx context.Context) (*pgxpool.Pool, error) {
	return db.New(ctx, cfg.Database)
}

// initRaster connects to the spatial engine and binds the configured
// land-cover raster table.
func initRaster(ctx context.Context) (*raster.Raster, *pgxpool.Pool, error) {
	pool, err := initPool(ctx)
	if err != nil {
		return nil, nil, err
	}
	return raster.New(pool, cfg.Raster), pool, nil
}

// initStore opens the benchmark-history store.
func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
