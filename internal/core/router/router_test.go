package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/catalog"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/logger"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/pipeline"
)

type fakeRunner struct {
	res   pipeline.Result
	found bool
	err   error
}

func (f *fakeRunner) Run(_ context.Context, _ string) (pipeline.Result, bool, error) {
	return f.res, f.found, f.err
}

func serve(t *testing.T, runner Runner, target string) *httptest.ResponseRecorder {
	t.Helper()
	zl := zerolog.Nop()
	h := HandleMapSheets(logger.NewSlog(&zl), runner)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleMapSheets_OK(t *testing.T) {
	runner := &fakeRunner{
		res:   pipeline.Result{Sheets: []string{"T47N", "T48N"}, Count: 2},
		found: true,
	}
	rec := serve(t, runner, "/mapsheets?image=S2_20230101")

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d want 200", rec.Code)
	}
	var body struct {
		Image  string   `json:"image"`
		Sheets []string `json:"sheets"`
		Count  int      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Image != "S2_20230101" || body.Count != 2 || len(body.Sheets) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHandleMapSheets_MissingImageParam(t *testing.T) {
	rec := serve(t, &fakeRunner{}, "/mapsheets")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d want 400", rec.Code)
	}
}

func TestHandleMapSheets_NotFound(t *testing.T) {
	rec := serve(t, &fakeRunner{found: false}, "/mapsheets?image=missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status got %d want 404", rec.Code)
	}
}

func TestHandleMapSheets_UpstreamFailure(t *testing.T) {
	rec := serve(t, &fakeRunner{err: &catalog.FetchError{Status: 500}}, "/mapsheets?image=x")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status got %d want 502", rec.Code)
	}
}

func TestHandleMapSheets_InvalidGeometry(t *testing.T) {
	rec := serve(t, &fakeRunner{err: &esri.InvalidGeometryError{Reason: "empty rings"}}, "/mapsheets?image=x")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status got %d want 422", rec.Code)
	}
}
