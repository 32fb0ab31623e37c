// Package server wires the HTTP surface of the lookup service.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/config"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/health"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/middleware"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/router"
)

type readiness struct {
	cfg config.Config
}

func (r readiness) Readiness() (bool, string) {
	if r.cfg.ImageryLayerURL == "" {
		return false, "IMAGERY_LAYER_URL not configured"
	}
	if r.cfg.SheetLayerURL == "" {
		return false, "SHEET_LAYER_URL not configured"
	}
	return true, ""
}

// Run sets up routing and serves until the context is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, runner router.Runner) error {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(readiness{cfg: cfg}))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/mapsheets", router.HandleMapSheets(logger, runner))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute, // a run blocks for its full pagination
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
