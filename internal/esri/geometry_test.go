package esri

import (
	"errors"
	"math"
	"testing"
)

func TestBuildPolygon_RoundTripsRingCoordinates(t *testing.T) {
	g := Geometry{Rings: [][][]float64{
		{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}},
	}}
	p, err := BuildPolygon(g)
	if err != nil {
		t.Fatalf("BuildPolygon: %v", err)
	}
	if len(p.Rings) != 1 {
		t.Fatalf("expected a single ring, got %d", len(p.Rings))
	}
	if p.SpatialReference.WKID != WebMercatorWKID {
		t.Fatalf("wkid got %d want %d", p.SpatialReference.WKID, WebMercatorWKID)
	}
	want := [][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if len(p.Rings[0]) != len(want) {
		t.Fatalf("ring length got %d want %d", len(p.Rings[0]), len(want))
	}
	for i, v := range want {
		if p.Rings[0][i] != v {
			t.Fatalf("point %d got %v want %v", i, p.Rings[0][i], v)
		}
	}
}

func TestBuildPolygon_DropsExtraOrdinates(t *testing.T) {
	g := Geometry{Rings: [][][]float64{
		{{1, 2, 99}, {3, 4, 98}, {1, 2, 97}},
	}}
	p, err := BuildPolygon(g)
	if err != nil {
		t.Fatalf("BuildPolygon: %v", err)
	}
	if p.Rings[0][1] != [2]float64{3, 4} {
		t.Fatalf("z ordinate leaked into polygon: %v", p.Rings[0][1])
	}
}

func TestBuildPolygon_OnlyFirstRingConsumed(t *testing.T) {
	g := Geometry{Rings: [][][]float64{
		{{0, 0}, {0, 1}, {1, 1}, {0, 0}},
		{{5, 5}, {5, 6}, {6, 6}, {5, 5}},
	}}
	p, err := BuildPolygon(g)
	if err != nil {
		t.Fatalf("BuildPolygon: %v", err)
	}
	if len(p.Rings) != 1 {
		t.Fatalf("expected only the first ring to survive, got %d rings", len(p.Rings))
	}
}

func TestBuildPolygon_Invalid(t *testing.T) {
	cases := map[string]Geometry{
		"no rings field":   {},
		"empty rings":      {Rings: [][][]float64{}},
		"empty first ring": {Rings: [][][]float64{{}}},
		"one ordinate":     {Rings: [][][]float64{{{1}}}},
		"nan ordinate":     {Rings: [][][]float64{{{math.NaN(), 2}}}},
		"inf ordinate":     {Rings: [][][]float64{{{1, math.Inf(1)}}}},
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildPolygon(g)
			var invalid *InvalidGeometryError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidGeometryError, got %v", err)
			}
			if invalid.Reason == "" {
				t.Fatal("expected a reason on the geometry error")
			}
		})
	}
}
