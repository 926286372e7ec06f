package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/report"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for raster sampling",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rast, pool, err := initRaster(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(rast),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the API routes over a bound raster.
func newRouter(rast *raster.Raster) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/raster/info", func(w http.ResponseWriter, req *http.Request) {
		info, err := rast.Info(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	})

	r.Get("/v1/sample", func(w http.ResponseWriter, req *http.Request) {
		p, ok := queryPoint(w, req, rast.SRID())
		if !ok {
			return
		}

		class, valid, err := rast.ValueAt(req.Context(), p)
		if err != nil {
			if eris.Is(err, raster.ErrNotFound) {
				writeError(w, http.StatusNotFound, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"x":     p.X,
			"y":     p.Y,
			"class": class,
			"name":  report.ClassName(class),
			"valid": valid,
		})
	})

	r.Get("/v1/histogram/buffer", func(w http.ResponseWriter, req *http.Request) {
		p, ok := queryPoint(w, req, rast.SRID())
		if !ok {
			return
		}
		radius, err := strconv.ParseFloat(req.URL.Query().Get("radius"), 64)
		if err != nil || radius <= 0 {
			writeError(w, http.StatusBadRequest, eris.New("radius must be a positive number"))
			return
		}

		hist, err := rast.BufferHistogram(req.Context(), p, radius)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeHistogramJSON(w, hist)
	})

	r.Get("/v1/histogram/window", func(w http.ResponseWriter, req *http.Request) {
		p, ok := queryPoint(w, req, rast.SRID())
		if !ok {
			return
		}

		cells, _ := strconv.Atoi(req.URL.Query().Get("cells"))
		if distStr := req.URL.Query().Get("distance"); distStr != "" {
			dist, err := strconv.ParseFloat(distStr, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, eris.New("distance must be a number"))
				return
			}
			cells, err = raster.CellsForDistance(dist, rast.Resolution())
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}
		if cells < 1 {
			writeError(w, http.StatusBadRequest, eris.New("give cells or distance"))
			return
		}

		hist, err := rast.NeighborhoodHistogram(req.Context(), p, cells)
		if err != nil {
			if eris.Is(err, raster.ErrNotFound) {
				writeError(w, http.StatusNotFound, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeHistogramJSON(w, hist)
	})

	return r
}

// queryPoint parses the x/y/srid query parameters. Writes a 400 and returns
// ok=false when x or y is missing or malformed.
func queryPoint(w http.ResponseWriter, req *http.Request, defaultSRID int) (raster.Point, bool) {
	q := req.URL.Query()

	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, eris.New("x and y must be numbers"))
		return raster.Point{}, false
	}

	srid := defaultSRID
	if s := q.Get("srid"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.New("srid must be an integer"))
			return raster.Point{}, false
		}
		srid = parsed
	}

	return raster.Point{X: x, Y: y, SRID: srid}, true
}

func writeHistogramJSON(w http.ResponseWriter, hist raster.Histogram) {
	classes := make([]map[string]any, 0, len(hist))
	for _, class := range hist.Classes() {
		classes = append(classes, map[string]any{
			"class": class,
			"name":  report.ClassName(class),
			"count": hist[class],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   hist.Total(),
		"classes": classes,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
