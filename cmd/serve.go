package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/daynight/internal/analysis"
	"github.com/sells-group/daynight/internal/model"
	"github.com/sells-group/daynight/internal/report"
	"github.com/sells-group/daynight/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve region analyses over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := resolvePort(servePort, cfg.Server.Port)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env.Store, env.Engine, cfg.Analysis.MeasurementType),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// resolvePort prefers the --port flag over configuration.
func resolvePort(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	return configured
}

// analyzer is the engine surface the HTTP API needs.
type analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*model.RegionAnalysis, error)
}

// buildRouter wires the read-only API. defaultType is the configured
// measurement type used to default the date range.
func buildRouter(st store.Store, engine analyzer, defaultType string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := st.Ping(req.Context()); err != nil {
			zap.L().Warn("health: store unreachable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/regions", func(w http.ResponseWriter, req *http.Request) {
		counts, err := st.RegionStationCounts(req.Context())
		if err != nil {
			writeError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, withStations(counts, req.URL.Query().Get("all") == "true"))
	})

	r.Get("/regions/{name}/analysis", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		mtype := q.Get("type")
		spanType := mtype
		if spanType == "" {
			spanType = defaultType
		}

		start, end, err := resolveRange(req.Context(), st, q.Get("start"), q.Get("end"), spanType)
		if err != nil {
			writeError(w, req, err)
			return
		}

		res, err := engine.Analyze(req.Context(), analysis.Request{
			Region: analysis.CanonicalName(chi.URLParam(req, "name")),
			Start:  start,
			End:    end,
			Type:   mtype,
		})
		if err != nil {
			writeError(w, req, err)
			return
		}

		if q.Get("format") == string(report.FormatYAML) {
			w.Header().Set("Content-Type", "application/yaml")
			if err := report.YAML(w, res); err != nil {
				zap.L().Error("write yaml response", zap.Error(err))
			}
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case eris.Is(err, model.ErrRegionNotFound):
		return http.StatusNotFound
	case eris.Is(err, model.ErrInvalidDateRange):
		return http.StatusBadRequest
	case eris.Is(err, model.ErrMalformedData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", req.URL.Path),
			zap.String("request_id", middleware.GetReqID(req.Context())),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
