// Package catalog looks up imagery records by name and reconstructs their
// footprint polygons from the portal's geometry endpoint.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
)

type Client struct {
	logger    *slog.Logger
	client    *http.Client
	layerURL  string
	token     string
	nameField string
	idField   string
}

type Options struct {
	// NameField and IDField default to Name and OBJECTID.
	NameField string
	IDField   string
}

func NewClient(logger *slog.Logger, client *http.Client, layerURL, token string, opts Options) *Client {
	nameField := opts.NameField
	if nameField == "" {
		nameField = "Name"
	}
	idField := opts.IDField
	if idField == "" {
		idField = "OBJECTID"
	}
	return &Client{
		logger:    logger,
		client:    client,
		layerURL:  layerURL,
		token:     token,
		nameField: nameField,
		idField:   idField,
	}
}

// ResolveImage finds the object id of the catalog record whose name matches
// exactly. found is false when the catalog has no such record; that is a
// legitimate outcome, not an error.
func (c *Client) ResolveImage(ctx context.Context, name string) (objectID int64, found bool, err error) {
	params := esri.BuildAttributeQueryParams(c.nameField, name, c.idField, c.token)
	endpoint := esri.QueryEndpoint(c.layerURL)

	c.logger.InfoContext(ctx, "querying imagery layer",
		"layer", c.layerURL,
		"where", fmt.Sprintf("%s='%s'", c.nameField, esri.EscapeWhereValue(name)))

	body, err := c.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return 0, false, &ResolutionError{Err: err}
	}

	fs, err := esri.DecodeFeatureSet(body)
	if err != nil {
		return 0, false, &ResolutionError{Err: err}
	}
	if len(fs.Features) == 0 {
		c.logger.WarnContext(ctx, "no catalog match for image name", "name", name)
		return 0, false, nil
	}

	id, ok := esri.AttributeInt64(fs.Features[0].Attributes[c.idField])
	if !ok {
		return 0, false, &ResolutionError{Err: fmt.Errorf("first feature has no numeric %s attribute", c.idField)}
	}
	return id, true, nil
}

// FetchFootprint retrieves the geometry payload of one record and builds its
// footprint polygon. Ring validation is owned by esri.BuildPolygon.
func (c *Client) FetchFootprint(ctx context.Context, objectID int64) (esri.Polygon, error) {
	params := url.Values{}
	params.Set("f", "json")
	if c.token != "" {
		params.Set("token", c.token)
	}
	u := esri.RecordEndpoint(c.layerURL, objectID) + "?" + params.Encode()

	c.logger.InfoContext(ctx, "retrieving image geometry", "object_id", objectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return esri.Polygon{}, &FetchError{Status: 0, Body: err.Error()}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return esri.Polygon{}, &FetchError{Status: 0, Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return esri.Polygon{}, &FetchError{Status: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return esri.Polygon{}, &FetchError{Status: resp.StatusCode, Body: truncate(string(body), 8<<10)}
	}

	var record struct {
		Geometry esri.Geometry      `json:"geometry"`
		Error    *esri.ServiceError `json:"error,omitempty"`
	}
	if err := json.Unmarshal(body, &record); err != nil {
		return esri.Polygon{}, &ParseError{Raw: body, Err: err}
	}
	if record.Error != nil {
		return esri.Polygon{}, &FetchError{Status: record.Error.Code, Body: record.Error.Message}
	}

	return esri.BuildPolygon(record.Geometry)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
