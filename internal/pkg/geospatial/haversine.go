package geospatial

import (
	"math"

	"github.com/samirrijal/trailview/internal/core/domain"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// PathLength sums the great-circle distance along a route, ignoring elevation.
func PathLength(route []domain.RoutePoint) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		total += Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}

// RouteBounds returns the smallest box containing every route point.
func RouteBounds(route []domain.RoutePoint) domain.Bounds {
	if len(route) == 0 {
		return domain.Bounds{}
	}
	b := domain.Bounds{
		MinLat: route[0].Lat, MaxLat: route[0].Lat,
		MinLon: route[0].Lon, MaxLon: route[0].Lon,
	}
	for _, p := range route[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
