package esri

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func QueryEndpoint(layerURL string) string {
	return strings.TrimRight(layerURL, "/") + "/query"
}

func RecordEndpoint(layerURL string, objectID int64) string {
	return strings.TrimRight(layerURL, "/") + "/" + strconv.FormatInt(objectID, 10)
}

// EscapeWhereValue escapes a literal for use inside a single-quoted where
// clause. Quotes are doubled per the SQL rule ArcGIS filters follow.
func EscapeWhereValue(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// BuildAttributeQueryParams builds an attribute-only exact-match query,
// projecting just the identifier field.
func BuildAttributeQueryParams(nameField, name, idField, token string) url.Values {
	params := url.Values{}
	params.Set("where", fmt.Sprintf("%s='%s'", nameField, EscapeWhereValue(name)))
	params.Set("outFields", idField)
	params.Set("returnGeometry", "false")
	params.Set("f", "json")
	if token != "" {
		params.Set("token", token)
	}
	return params
}

// BuildSpatialQueryParams builds one page of a contained-within query. Only
// the named attribute comes back; feature geometry is never requested.
func BuildSpatialQueryParams(p Polygon, outField string, offset, count int, token string) (url.Values, error) {
	geom, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal polygon: %w", err)
	}

	params := url.Values{}
	params.Set("geometry", string(geom))
	params.Set("geometryType", "esriGeometryPolygon")
	params.Set("inSR", strconv.Itoa(p.SpatialReference.WKID))
	params.Set("spatialRel", "esriSpatialRelWithin")
	params.Set("outFields", outField)
	params.Set("returnGeometry", "false")
	params.Set("resultOffset", strconv.Itoa(offset))
	params.Set("resultRecordCount", strconv.Itoa(count))
	params.Set("f", "json")
	if token != "" {
		params.Set("token", token)
	}
	return params, nil
}
