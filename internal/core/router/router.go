// Package router validates lookup requests and renders pipeline results.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/catalog"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/observability"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/pipeline"
)

const maxImageNameLen = 256

// Runner is the pipeline surface the handler drives.
type Runner interface {
	Run(ctx context.Context, imageName string) (pipeline.Result, bool, error)
}

type lookupResponse struct {
	Image  string   `json:"image"`
	Sheets []string `json:"sheets"`
	Count  int      `json:"count"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// HandleMapSheets serves GET /mapsheets?image=<name>.
func HandleMapSheets(logger *slog.Logger, run Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		name, err := parseImageName(r)
		if err != nil {
			writeJSON(sw, http.StatusBadRequest, errorResponse{Message: err.Error()})
			observability.ObserveHTTP(r.Method, "/mapsheets", sw.code, time.Since(start).Seconds())
			return
		}

		res, found, err := run.Run(r.Context(), name)
		switch {
		case err != nil:
			writeJSON(sw, upstreamStatus(err), errorResponse{Message: err.Error()})
		case !found:
			writeJSON(sw, http.StatusNotFound, errorResponse{Message: "no valid identifier found for image " + name})
		default:
			writeJSON(sw, http.StatusOK, lookupResponse{Image: name, Sheets: res.Sheets, Count: res.Count})
		}

		observability.ObserveHTTP(r.Method, "/mapsheets", sw.code, time.Since(start).Seconds())
		logger.DebugContext(r.Context(), "mapsheets request served",
			"image", name, "status", sw.code, "duration", time.Since(start).String())
	}
}

func parseImageName(r *http.Request) (string, error) {
	name := strings.TrimSpace(r.URL.Query().Get("image"))
	if name == "" {
		return "", errors.New("missing required parameter: image")
	}
	if len(name) > maxImageNameLen {
		return "", errors.New("parameter image exceeds maximum length")
	}
	return name, nil
}

// upstreamStatus maps pipeline failures onto response codes: everything the
// portal did wrong is a bad gateway, a malformed footprint is unprocessable.
func upstreamStatus(err error) int {
	var invalid *esri.InvalidGeometryError
	var parse *catalog.ParseError
	if errors.As(err, &invalid) || errors.As(err, &parse) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
