// Package gpx reads and writes routes as GPX tracks.
package gpx

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// Decode flattens every track segment, in document order, into one route.
// GPX routes (<rte>) are used only when the file has no tracks.
func Decode(data []byte) ([]domain.RoutePoint, string, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: gpx: %v", domain.ErrInvalidDocument, err)
	}

	var src []gpx.GPXPoint
	name := g.Name
	for _, trk := range g.Tracks {
		if name == "" {
			name = trk.Name
		}
		for _, seg := range trk.Segments {
			src = append(src, seg.Points...)
		}
	}
	if len(src) == 0 {
		for _, rte := range g.Routes {
			if name == "" {
				name = rte.Name
			}
			src = append(src, rte.Points...)
		}
	}
	if len(src) == 0 {
		return nil, "", domain.ErrEmptyRoute
	}

	points := make([]domain.RoutePoint, len(src))
	for i, p := range src {
		if p.Elevation.Null() {
			return nil, "", fmt.Errorf("%w: point %d has no elevation", domain.ErrMalformedPoint, i)
		}
		points[i] = domain.RoutePoint{Lon: p.Longitude, Lat: p.Latitude, Ele: p.Elevation.Value()}
	}
	return points, name, nil
}

// Encode writes a route as a single-segment GPX 1.1 track.
func Encode(route []domain.RoutePoint, name string) ([]byte, error) {
	seg := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, len(route))}
	for i, p := range route {
		seg.Points[i] = gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  p.Lat,
				Longitude: p.Lon,
				Elevation: *gpx.NewNullableFloat64(p.Ele),
			},
		}
	}
	g := gpx.GPX{
		Version: "1.1",
		Creator: "trailview",
		Name:    name,
		Tracks:  []gpx.GPXTrack{{Name: name, Segments: []gpx.GPXTrackSegment{seg}}},
	}
	return g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}
