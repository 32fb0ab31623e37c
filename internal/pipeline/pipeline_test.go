package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/catalog"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/logger"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/sheets"
)

type fakeCatalog struct {
	id         int64
	found      bool
	resolveErr error
	polygon    esri.Polygon
	fetchErr   error
	fetched    bool
}

func (f *fakeCatalog) ResolveImage(_ context.Context, _ string) (int64, bool, error) {
	return f.id, f.found, f.resolveErr
}

func (f *fakeCatalog) FetchFootprint(_ context.Context, _ int64) (esri.Polygon, error) {
	f.fetched = true
	return f.polygon, f.fetchErr
}

type fakeQuerier struct {
	values []string
	called bool
}

func (f *fakeQuerier) CollectWithin(_ context.Context, _ esri.Polygon) []string {
	f.called = true
	return f.values
}

func discardLogger() *zerolog.Logger {
	zl := zerolog.Nop()
	return &zl
}

func TestRun_Success(t *testing.T) {
	cat := &fakeCatalog{id: 42, found: true}
	q := &fakeQuerier{values: []string{"T48N", "T47N", "T47N"}}
	p := New(logger.NewSlog(discardLogger()), cat, q)

	res, found, err := p.Run(context.Background(), "S2_20230101")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"T47N", "T48N"}, res.Sheets)
	assert.Equal(t, 2, res.Count)
}

func TestRun_NotFoundShortCircuits(t *testing.T) {
	cat := &fakeCatalog{found: false}
	q := &fakeQuerier{}
	p := New(logger.NewSlog(discardLogger()), cat, q)

	_, found, err := p.Run(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, cat.fetched, "footprint must not be fetched without an identifier")
	assert.False(t, q.called, "spatial query must not run without an identifier")
}

func TestRun_FetchFailureAbortsBeforeSpatialQuery(t *testing.T) {
	cat := &fakeCatalog{id: 42, found: true, fetchErr: &catalog.FetchError{Status: 500}}
	q := &fakeQuerier{}
	p := New(logger.NewSlog(discardLogger()), cat, q)

	_, _, err := p.Run(context.Background(), "S2_20230101")
	var fe *catalog.FetchError
	require.ErrorAs(t, err, &fe)
	assert.False(t, q.called, "spatial query must never run without a validated polygon")
}

func TestRun_ResolveFailurePropagates(t *testing.T) {
	cat := &fakeCatalog{resolveErr: &catalog.ResolutionError{Err: context.DeadlineExceeded}}
	p := New(logger.NewSlog(discardLogger()), cat, &fakeQuerier{})

	_, _, err := p.Run(context.Background(), "S2_20230101")
	var re *catalog.ResolutionError
	require.ErrorAs(t, err, &re)
}

func TestFormattedSheets(t *testing.T) {
	r := Result{Sheets: []string{"T47N", "T48N", "T49N"}, Count: 3}
	assert.Equal(t, "[T47N, T48N, T49N]", r.FormattedSheets())
	assert.Equal(t, "[]", Result{}.FormattedSheets())
}

// End to end against fake portal services: the scenario with a two-page
// spatial result and duplicate sheets across pages.
func TestRun_EndToEnd(t *testing.T) {
	imagery := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/query":
			require.Equal(t, "Name='S2_20230101'", r.URL.Query().Get("where"))
			_, _ = w.Write([]byte(`{"features":[{"attributes":{"OBJECTID":42}}]}`))
		case "/42":
			_, _ = w.Write([]byte(`{"geometry":{"rings":[[[0,0],[0,10],[10,10],[10,0],[0,0]]]}}`))
		default:
			t.Errorf("unexpected imagery path %q", r.URL.Path)
		}
	}))
	defer imagery.Close()

	sheetSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		switch r.URL.Query().Get("resultOffset") {
		case "0":
			_, _ = w.Write([]byte(`{"features":[
				{"attributes":{"sheet_no":"T48N"}},
				{"attributes":{"sheet_no":"T47N"}},
				{"attributes":{"sheet_no":"T47N"}},
				{"attributes":{"sheet_no":"T49N"}}]}`))
		case "4":
			_, _ = w.Write([]byte(`{"features":[{"attributes":{"sheet_no":"T48N"}}]}`))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("resultOffset"))
		}
	}))
	defer sheetSrv.Close()

	log := logger.NewSlog(discardLogger())
	cat := catalog.NewClient(log, imagery.Client(), imagery.URL, "tok", catalog.Options{})
	q := sheets.NewQuerier(log, sheetSrv.Client(), sheetSrv.URL, "tok", sheets.Options{PageSize: 4})
	p := New(log, cat, q)

	res, found, err := p.Run(context.Background(), "S2_20230101")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"T47N", "T48N", "T49N"}, res.Sheets)
	assert.Equal(t, 3, res.Count)
}

// Geometry endpoint failing must abort with no spatial query issued.
func TestRun_EndToEnd_GeometryFailureAborts(t *testing.T) {
	imagery := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/query" {
			_, _ = w.Write([]byte(`{"features":[{"attributes":{"OBJECTID":42}}]}`))
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer imagery.Close()

	spatialQueried := false
	sheetSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		spatialQueried = true
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer sheetSrv.Close()

	log := logger.NewSlog(discardLogger())
	cat := catalog.NewClient(log, imagery.Client(), imagery.URL, "tok", catalog.Options{})
	q := sheets.NewQuerier(log, sheetSrv.Client(), sheetSrv.URL, "tok", sheets.Options{})
	p := New(log, cat, q)

	_, _, err := p.Run(context.Background(), "S2_20230101")
	var fe *catalog.FetchError
	require.ErrorAs(t, err, &fe)
	assert.False(t, spatialQueried)
}
