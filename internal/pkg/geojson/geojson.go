// Package geojson reads and writes routes as GeoJSON line strings.
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
)

// FeatureCollection is the top-level GeoJSON object.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a geometry with free-form properties.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry holds raw coordinates; only LineString is interpreted.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Decode extracts the first LineString feature of a FeatureCollection. The
// feature's "name" property is returned alongside the points when present.
func Decode(data []byte) ([]domain.RoutePoint, string, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, "", fmt.Errorf("%w: geojson: %v", domain.ErrInvalidDocument, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, "", fmt.Errorf("%w: expected FeatureCollection, got %q", domain.ErrInvalidDocument, fc.Type)
	}

	for _, f := range fc.Features {
		if f.Geometry.Type != "LineString" {
			continue
		}
		coords, err := decodePositions(f.Geometry.Coordinates)
		if err != nil {
			return nil, "", err
		}
		points, err := profile.PointsFromCoordinates(coords)
		if err != nil {
			return nil, "", err
		}
		name, _ := f.Properties["name"].(string)
		return points, name, nil
	}
	return nil, "", fmt.Errorf("%w: no LineString feature", domain.ErrEmptyRoute)
}

// decodePositions reads LineString positions. A null component would
// unmarshal to 0 as a plain float64, so components are decoded as pointers.
func decodePositions(raw json.RawMessage) ([][]float64, error) {
	var positions [][]*float64
	if err := json.Unmarshal(raw, &positions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPoint, err)
	}
	coords := make([][]float64, len(positions))
	for i, pos := range positions {
		c := make([]float64, len(pos))
		for j, v := range pos {
			if v == nil {
				return nil, fmt.Errorf("%w: point %d component %d is not numeric", domain.ErrMalformedPoint, i, j)
			}
			c[j] = *v
		}
		coords[i] = c
	}
	return coords, nil
}

// Encode wraps a route in a single-feature FeatureCollection, the shape
// map renderers accept as a line source.
func Encode(route []domain.RoutePoint, name string) ([]byte, error) {
	coords := make([][]float64, len(route))
	for i, p := range route {
		coords[i] = p.Coordinates()
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	fc := FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{{
			Type:       "Feature",
			Properties: map[string]any{"name": name},
			Geometry:   Geometry{Type: "LineString", Coordinates: raw},
		}},
	}
	return json.Marshal(fc)
}
