// Package profile turns routes into elevation-versus-distance series.
package profile

import (
	"fmt"
	"math"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// Build computes the elevation profile of a route.
//
// Distance is the running sum of flat Euclidean norms over the raw
// (lon, lat, ele) tuples. Degrees and meters are mixed as-is so that chart
// output stays identical to the existing pages; see Summarize for a
// geodesic length.
func Build(route []domain.RoutePoint) (domain.ElevationProfile, error) {
	if len(route) == 0 {
		return nil, domain.ErrEmptyRoute
	}

	out := make(domain.ElevationProfile, len(route))
	var dist float64
	out[0] = domain.ElevationSample{Elevation: route[0].Ele, Distance: 0}
	for i := 1; i < len(route); i++ {
		dist += euclidean(route[i-1], route[i])
		out[i] = domain.ElevationSample{Elevation: route[i].Ele, Distance: dist}
	}
	return out, nil
}

// BuildCoordinates is Build over raw coordinate tuples. Every tuple must
// carry at least longitude, latitude and elevation.
func BuildCoordinates(coords [][]float64) (domain.ElevationProfile, error) {
	points, err := PointsFromCoordinates(coords)
	if err != nil {
		return nil, err
	}
	return Build(points)
}

// PointsFromCoordinates converts [lon, lat, ele, ...] tuples into route points.
func PointsFromCoordinates(coords [][]float64) ([]domain.RoutePoint, error) {
	if len(coords) == 0 {
		return nil, domain.ErrEmptyRoute
	}
	points := make([]domain.RoutePoint, len(coords))
	for i, c := range coords {
		if len(c) < 3 {
			return nil, fmt.Errorf("%w: point %d has %d components, want 3", domain.ErrMalformedPoint, i, len(c))
		}
		points[i] = domain.RoutePoint{Lon: c[0], Lat: c[1], Ele: c[2]}
	}
	return points, nil
}

func euclidean(a, b domain.RoutePoint) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	dz := b.Ele - a.Ele
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
