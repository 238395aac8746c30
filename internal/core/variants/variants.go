// Package variants holds the presentations of the route page.
//
// All variants share the same route data and profile; they differ in map
// styling, axis formatting, and a few extras (camera rotation, a popup at a
// fixed point, a finish flag).
package variants

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/samirrijal/trailview/internal/core/domain"
)

const Default = "classic"

var nivoletCamera = domain.Camera{
	Center:  domain.GeoPoint{Lat: 45.38901721487122, Lon: 7.246491655545952},
	Zoom:    11.59,
	Pitch:   63.36,
	Bearing: -43.99,
}

func intPtr(i int) *int { return &i }

var registry = map[string]domain.Variant{
	"classic": {
		Name:              "classic",
		Title:             "Nivolet Hill",
		MapStyle:          "mapbox://styles/t0bes/cm52nb8i500cs01s9avx676gs",
		Projection:        "globe",
		Theme:             "dark",
		LineColor:         "red",
		LineWidth:         4,
		LineOpacity:       0.8,
		Camera:            nivoletCamera,
		DistanceDecimals:  1,
		ElevationDecimals: 0,
	},
	"orbit": {
		Name:              "orbit",
		Title:             "Nivolet Hill",
		MapStyle:          "mapbox://styles/mapbox/satellite-streets-v12",
		Projection:        "globe",
		Theme:             "dark",
		LineColor:         "#f97316",
		LineWidth:         5,
		LineOpacity:       0.9,
		Camera:            nivoletCamera,
		DistanceDecimals:  2,
		ElevationDecimals: 0,
		RotateDegPerSec:   3,
	},
	"summit": {
		Name:              "summit",
		Title:             "Col du Nivolet",
		MapStyle:          "mapbox://styles/mapbox/outdoors-v12",
		Projection:        "mercator",
		Theme:             "light",
		LineColor:         "#2563eb",
		LineWidth:         4,
		LineOpacity:       0.8,
		Camera:            nivoletCamera,
		DistanceDecimals:  1,
		ElevationDecimals: 0,
		PopupIndex:        intPtr(0),
		PopupText:         "Start",
	},
	"finish": {
		Name:              "finish",
		Title:             "Nivolet Hill",
		MapStyle:          "mapbox://styles/t0bes/cm52nb8i500cs01s9avx676gs",
		Projection:        "globe",
		Theme:             "dark",
		LineColor:         "red",
		LineWidth:         4,
		LineOpacity:       0.8,
		Camera:            nivoletCamera,
		DistanceDecimals:  0,
		ElevationDecimals: 0,
		FinishFlag:        true,
	},
}

// Lookup returns a variant by name. An empty name selects Default.
func Lookup(name string) (domain.Variant, error) {
	if name == "" {
		name = Default
	}
	v, ok := registry[name]
	if !ok {
		return domain.Variant{}, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, name)
	}
	if v.PopupIndex != nil {
		v.PopupIndex = intPtr(*v.PopupIndex)
	}
	return v, nil
}

// List returns all variants sorted by name.
func List() []domain.Variant {
	out := make([]domain.Variant, 0, len(registry))
	for name := range registry {
		v, _ := Lookup(name)
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Markers places the variant's markers on a route.
func Markers(v domain.Variant, route []domain.RoutePoint) ([]domain.Marker, error) {
	if len(route) == 0 {
		return nil, domain.ErrEmptyRoute
	}

	var markers []domain.Marker
	if v.PopupIndex != nil {
		idx := *v.PopupIndex
		if idx < 0 || idx >= len(route) {
			return nil, fmt.Errorf("%w: index %d, route has %d points", domain.ErrPopupOutOfRange, idx, len(route))
		}
		markers = append(markers, domain.Marker{
			Kind:     domain.MarkerPopup,
			Index:    idx,
			Position: route[idx],
			Text:     v.PopupText,
		})
	}
	if v.FinishFlag {
		last := len(route) - 1
		markers = append(markers, domain.Marker{
			Kind:     domain.MarkerFinish,
			Index:    last,
			Position: route[last],
		})
	}
	return markers, nil
}

// FormatDistance formats a distance axis tick.
func FormatDistance(v domain.Variant, d float64) string {
	return strconv.FormatFloat(d, 'f', v.DistanceDecimals, 64)
}

// FormatElevation formats an elevation axis tick.
func FormatElevation(v domain.Variant, e float64) string {
	return strconv.FormatFloat(e, 'f', v.ElevationDecimals, 64)
}
