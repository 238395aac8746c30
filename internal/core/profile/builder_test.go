package profile_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
)

func sampleRoute() []domain.RoutePoint {
	return []domain.RoutePoint{
		{Lon: 0, Lat: 0, Ele: 100},
		{Lon: 0, Lat: 0, Ele: 150},
		{Lon: 1, Lat: 1, Ele: 150},
	}
}

func TestBuild_ConcreteScenario(t *testing.T) {
	p, err := profile.Build(sampleRoute())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(p))
	}

	want := []domain.ElevationSample{
		{Elevation: 100, Distance: 0},
		{Elevation: 150, Distance: 50},
		{Elevation: 150, Distance: 50 + math.Sqrt2},
	}
	for i, w := range want {
		if p[i].Elevation != w.Elevation {
			t.Errorf("sample %d: expected elevation %v, got %v", i, w.Elevation, p[i].Elevation)
		}
		if math.Abs(p[i].Distance-w.Distance) > 1e-12 {
			t.Errorf("sample %d: expected distance %v, got %v", i, w.Distance, p[i].Distance)
		}
	}
}

func TestBuild_EmptyRoute(t *testing.T) {
	p, err := profile.Build(nil)
	if !errors.Is(err, domain.ErrEmptyRoute) {
		t.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
	if p != nil {
		t.Errorf("expected no output, got %v", p)
	}
}

func TestBuild_SinglePoint(t *testing.T) {
	p, err := profile.Build([]domain.RoutePoint{{Lon: 7.24, Lat: 45.38, Ele: 2612.5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(p))
	}
	if p[0].Distance != 0 || p[0].Elevation != 2612.5 {
		t.Errorf("unexpected sample: %+v", p[0])
	}
}

func TestBuild_Properties(t *testing.T) {
	route := []domain.RoutePoint{
		{Lon: 7.2465, Lat: 45.3890, Ele: 1805.3},
		{Lon: 7.2471, Lat: 45.3895, Ele: 1811.9},
		{Lon: 7.2471, Lat: 45.3895, Ele: 1811.9}, // coincident
		{Lon: 7.2480, Lat: 45.3901, Ele: 1798.2},
		{Lon: 7.2502, Lat: 45.3911, Ele: 1840.0},
	}
	orig := append([]domain.RoutePoint(nil), route...)

	p, err := profile.Build(route)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p) != len(route) {
		t.Fatalf("expected %d samples, got %d", len(route), len(p))
	}
	if p[0].Distance != 0 {
		t.Errorf("expected zero start, got %v", p[0].Distance)
	}
	for i := range route {
		if p[i].Elevation != route[i].Ele {
			t.Errorf("sample %d: elevation %v != route elevation %v", i, p[i].Elevation, route[i].Ele)
		}
		if i > 0 && p[i].Distance < p[i-1].Distance {
			t.Errorf("distance decreased at %d: %v < %v", i, p[i].Distance, p[i-1].Distance)
		}
	}
	if p[2].Distance != p[1].Distance {
		t.Errorf("coincident points should not add distance: %v vs %v", p[2].Distance, p[1].Distance)
	}
	if !reflect.DeepEqual(route, orig) {
		t.Error("input route was mutated")
	}

	again, _ := profile.Build(route)
	if !reflect.DeepEqual(p, again) {
		t.Error("expected identical output on repeated build")
	}
}

func TestBuildCoordinates_Malformed(t *testing.T) {
	_, err := profile.BuildCoordinates([][]float64{{7.1, 45.2, 1000}, {7.2, 45.3}})
	if !errors.Is(err, domain.ErrMalformedPoint) {
		t.Fatalf("expected ErrMalformedPoint, got %v", err)
	}
}

func TestBuildCoordinates_ExtraComponentsIgnored(t *testing.T) {
	p, err := profile.BuildCoordinates([][]float64{{0, 0, 100, 1700000000}, {0, 0, 150, 1700000010}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p[1].Distance != 50 {
		t.Errorf("expected distance 50, got %v", p[1].Distance)
	}
}

func TestBuildCoordinates_Empty(t *testing.T) {
	if _, err := profile.BuildCoordinates(nil); !errors.Is(err, domain.ErrEmptyRoute) {
		t.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
}

func TestBuild_StoredRoutePoints(t *testing.T) {
	route := domain.Route{Slug: "nivolet", Name: "Colle del Nivolet", Points: sampleRoute()}
	got, err := profile.Build(route.Points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(route.Points) || got[2].Elevation != route.Points[2].Ele {
		t.Errorf("unexpected profile %+v", got)
	}
}
