package domain

import (
	"time"
)

// RoutePoint is one sample along a route: longitude and latitude in degrees,
// elevation in meters.
type RoutePoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
	Ele float64 `json:"ele"`
}

// Coordinates returns the point as a GeoJSON position [lon, lat, ele].
func (p RoutePoint) Coordinates() []float64 {
	return []float64{p.Lon, p.Lat, p.Ele}
}

// GeoPoint drops the elevation.
func (p RoutePoint) GeoPoint() GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// Route is a stored path traversed start-to-end.
type Route struct {
	ID        string       `json:"id"`
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	Source    string       `json:"source"` // geojson | gpx
	Points    []RoutePoint `json:"points"`
	CreatedAt time.Time    `json:"created_at"`
}

// ElevationSample pairs a point's elevation with its cumulative distance
// from the start of the route.
type ElevationSample struct {
	Elevation float64 `json:"elevation"`
	Distance  float64 `json:"distance"`
}

// ElevationProfile is index-aligned with the route it was built from.
type ElevationProfile []ElevationSample

// ProfileSummary holds aggregate figures for a route.
type ProfileSummary struct {
	Points         int     `json:"points"`
	Distance       float64 `json:"distance"`
	MinElevation   float64 `json:"min_elevation"`
	MaxElevation   float64 `json:"max_elevation"`
	Ascent         float64 `json:"ascent"`
	Descent        float64 `json:"descent"`
	GeodesicLength float64 `json:"geodesic_length_m"` // haversine, informational only
	Bounds         Bounds  `json:"bounds"`
}

// ImportRequest asks for a route document to be fetched and stored.
type ImportRequest struct {
	Slug   string `json:"slug"`
	Name   string `json:"name,omitempty"`
	URL    string `json:"url"`
	Format string `json:"format,omitempty"` // geojson | gpx, guessed from URL when empty
}
