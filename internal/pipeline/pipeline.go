// Package pipeline sequences the lookup stages: resolve the image, fetch
// its footprint, page through contained sheets, summarize.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/logger"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/sheets"
)

// Catalog is the imagery catalog surface the pipeline consumes.
type Catalog interface {
	ResolveImage(ctx context.Context, name string) (objectID int64, found bool, err error)
	FetchFootprint(ctx context.Context, objectID int64) (esri.Polygon, error)
}

// SheetQuerier pages through the sheets contained in a footprint.
type SheetQuerier interface {
	CollectWithin(ctx context.Context, polygon esri.Polygon) []string
}

type Result struct {
	Sheets []string
	Count  int
}

// FormattedSheets renders the bracketed list form, e.g. [T47N, T48N, T49N].
func (r Result) FormattedSheets() string {
	return "[" + strings.Join(r.Sheets, ", ") + "]"
}

type Pipeline struct {
	logger  *slog.Logger
	catalog Catalog
	sheets  SheetQuerier
}

func New(log *slog.Logger, cat Catalog, q SheetQuerier) *Pipeline {
	return &Pipeline{logger: log, catalog: cat, sheets: q}
}

// Run resolves an image name to the sorted unique sheet identifiers whose
// extent lies fully within its footprint. found is false when the catalog
// has no record for the name; that ends the run cleanly with no result and
// no error. Resolution, fetch and geometry failures abort the run: the
// spatial query is never issued without a validated polygon.
func (p *Pipeline) Run(ctx context.Context, imageName string) (Result, bool, error) {
	ctx = logger.WithStage(ctx, "resolve")
	objectID, found, err := p.catalog.ResolveImage(ctx, imageName)
	if err != nil {
		p.logger.ErrorContext(ctx, "image resolution failed", "image", imageName, "err", err)
		return Result{}, false, err
	}
	if !found {
		p.logger.InfoContext(ctx, "no valid identifier found, exiting without further processing", "image", imageName)
		return Result{}, false, nil
	}

	ctx = logger.WithStage(ctx, "footprint")
	polygon, err := p.catalog.FetchFootprint(ctx, objectID)
	if err != nil {
		p.logger.ErrorContext(ctx, "footprint retrieval failed", "image", imageName, "object_id", objectID, "err", err)
		return Result{}, false, err
	}

	ctx = logger.WithStage(ctx, "sheets")
	values := p.sheets.CollectWithin(ctx, polygon)

	unique, count := sheets.Summarize(values)
	p.logger.InfoContext(ctx, "sheet lookup finished",
		"image", imageName,
		"collected", len(values),
		"unique", count)
	return Result{Sheets: unique, Count: count}, true, nil
}
