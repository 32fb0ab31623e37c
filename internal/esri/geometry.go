// Package esri holds the small slice of the ArcGIS REST wire format this
// tool speaks: ring geometries, feature sets and query parameters.
package esri

import (
	"fmt"
	"math"
)

// WebMercatorWKID is the spatial reference every polygon here is tagged
// with. Inputs are expected to already live in it; no reprojection happens.
const WebMercatorWKID = 3857

type SpatialReference struct {
	WKID int `json:"wkid"`
}

// Geometry is the raw payload returned by the catalog's geometry endpoint.
// Vertices may carry more than two ordinates (z, m); only x and y are used.
type Geometry struct {
	Rings [][][]float64 `json:"rings"`
}

// Polygon is a validated single-ring polygon in a fixed spatial reference.
type Polygon struct {
	Rings            [][][2]float64   `json:"rings"`
	SpatialReference SpatialReference `json:"spatialReference"`
}

type InvalidGeometryError struct {
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return "invalid geometry: " + e.Reason
}

// BuildPolygon validates a ring payload and constructs a polygon from its
// first ring. It never returns a partial polygon.
func BuildPolygon(g Geometry) (Polygon, error) {
	if len(g.Rings) == 0 {
		return Polygon{}, &InvalidGeometryError{Reason: "missing or empty rings"}
	}
	ring := g.Rings[0]
	if len(ring) == 0 {
		return Polygon{}, &InvalidGeometryError{Reason: "first ring has no points"}
	}

	out := make([][2]float64, len(ring))
	for i, v := range ring {
		if len(v) < 2 {
			return Polygon{}, &InvalidGeometryError{Reason: fmt.Sprintf("ring point %d has %d ordinates, need 2", i, len(v))}
		}
		x, y := v[0], v[1]
		if !isFinite(x) || !isFinite(y) {
			return Polygon{}, &InvalidGeometryError{Reason: fmt.Sprintf("ring point %d is not finite", i)}
		}
		out[i] = [2]float64{x, y}
	}

	return Polygon{
		Rings:            [][][2]float64{out},
		SpatialReference: SpatialReference{WKID: WebMercatorWKID},
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
