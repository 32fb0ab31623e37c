// Package sheets drives the paged contained-within query against the
// map-sheet feature layer and summarizes its results.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/observability"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
)

const DefaultPageSize = 2000

type Querier struct {
	logger   *slog.Logger
	client   *http.Client
	layerURL string
	token    string
	field    string
	pageSize int
	startNow func() time.Time // for tests
}

type Options struct {
	// Field is the attribute collected per feature; defaults to sheet_no.
	Field string
	// PageSize caps one request; defaults to DefaultPageSize.
	PageSize int
}

func NewQuerier(logger *slog.Logger, client *http.Client, layerURL, token string, opts Options) *Querier {
	field := opts.Field
	if field == "" {
		field = "sheet_no"
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Querier{
		logger:   logger,
		client:   client,
		layerURL: layerURL,
		token:    token,
		field:    field,
		pageSize: pageSize,
		startNow: time.Now,
	}
}

// CollectWithin pages through every feature whose geometry lies fully within
// the polygon and accumulates the sheet attribute in server order.
//
// Termination is driven purely by page length: an empty page or one shorter
// than the page size is the last, so no total-count field is needed. A page
// that fails mid-stream truncates the loop and whatever accumulated so far
// is returned; for a reporting tool a partial sheet list beats none, and the
// logged error tells the operator the list may be incomplete.
func (q *Querier) CollectWithin(ctx context.Context, polygon esri.Polygon) []string {
	var acc []string
	offset := 0

	for {
		features, err := q.fetchPage(ctx, polygon, offset)
		if err != nil {
			q.logger.ErrorContext(ctx, "paged sheet query failed, returning partial results",
				"offset", offset,
				"accumulated", len(acc),
				"err", err)
			observability.IncSheetPage("error")
			return acc
		}
		observability.IncSheetPage("ok")

		if len(features) == 0 {
			return acc
		}

		for _, f := range features {
			v, ok := esri.AttributeString(f.Attributes[q.field])
			if !ok {
				q.logger.WarnContext(ctx, "feature missing sheet attribute", "field", q.field, "offset", offset)
				continue
			}
			acc = append(acc, v)
		}

		if len(features) < q.pageSize {
			return acc
		}
		offset += q.pageSize
	}
}

func (q *Querier) fetchPage(ctx context.Context, polygon esri.Polygon, offset int) ([]esri.Feature, error) {
	params, err := esri.BuildSpatialQueryParams(polygon, q.field, offset, q.pageSize, q.token)
	if err != nil {
		return nil, err
	}

	u := esri.QueryEndpoint(q.layerURL) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	q.logger.DebugContext(ctx, "querying sheet layer page", "offset", offset, "page_size", q.pageSize)

	start := q.startNow()
	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.ObserveUpstreamLatency("sheet_layer", time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	fs, err := esri.DecodeFeatureSet(body)
	if err != nil {
		return nil, err
	}
	return fs.Features, nil
}
