package domain

// Camera is the initial camera of a page variant.
type Camera struct {
	Center  GeoPoint `json:"center"`
	Zoom    float64  `json:"zoom"`
	Pitch   float64  `json:"pitch"`
	Bearing float64  `json:"bearing"`
}

// Variant is one presentation of the route page. Variants differ only in
// styling, axis formatting and marker extras.
type Variant struct {
	Name              string  `json:"name"`
	Title             string  `json:"title"`
	MapStyle          string  `json:"map_style"`
	Projection        string  `json:"projection"`
	Theme             string  `json:"theme"`
	LineColor         string  `json:"line_color"`
	LineWidth         float64 `json:"line_width"`
	LineOpacity       float64 `json:"line_opacity"`
	Camera            Camera  `json:"camera"`
	DistanceDecimals  int     `json:"distance_decimals"`
	ElevationDecimals int     `json:"elevation_decimals"`
	RotateDegPerSec   float64 `json:"rotate_deg_per_sec,omitempty"`
	PopupIndex        *int    `json:"popup_index,omitempty"`
	PopupText         string  `json:"popup_text,omitempty"`
	FinishFlag        bool    `json:"finish_flag,omitempty"`
}

// Marker kinds placed on the map.
const (
	MarkerPopup  = "popup"
	MarkerFinish = "finish"
)

// Marker is a point of interest pinned to a route coordinate.
type Marker struct {
	Kind     string     `json:"kind"`
	Index    int        `json:"index"`
	Position RoutePoint `json:"position"`
	Text     string     `json:"text,omitempty"`
}

// PageView is everything the page needs to render one route in one variant.
type PageView struct {
	Route   *Route           `json:"route"`
	Variant Variant          `json:"variant"`
	Profile ElevationProfile `json:"profile"`
	Markers []Marker         `json:"markers"`
	Summary ProfileSummary   `json:"summary"`
}
