package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a land-cover source archive",
	Long:  "Downloads an archive over HTTP or anonymous FTP into the configured data directory and extracts it if it is a ZIP.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		destDir, _ := cmd.Flags().GetString("dest")
		if destDir == "" {
			destDir = cfg.Fetch.DestDir
		}

		dir, err := fetch.Archive(ctx, args[0], fetch.Options{
			DestDir: destDir,
			Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return eris.Wrap(err, "fetch")
		}

		zap.L().Info("fetch complete", zap.String("dir", dir))
		fmt.Println(dir)
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("dest", "", "destination directory (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
