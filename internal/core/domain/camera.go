package domain

import (
	"fmt"
	"time"
)

// CameraState is the map camera as reported after a move ends.
type CameraState struct {
	Center  GeoPoint  `json:"center"`
	Zoom    float64   `json:"zoom"`
	Pitch   float64   `json:"pitch"`
	Bearing float64   `json:"bearing"`
	At      time.Time `json:"at"`
}

// Validate checks the camera values are within what a map renderer accepts.
func (c CameraState) Validate() error {
	switch {
	case c.Center.Lat < -90 || c.Center.Lat > 90:
		return fmt.Errorf("%w: latitude %.6f outside [-90, 90]", ErrInvalidCamera, c.Center.Lat)
	case c.Center.Lon < -180 || c.Center.Lon > 180:
		return fmt.Errorf("%w: longitude %.6f outside [-180, 180]", ErrInvalidCamera, c.Center.Lon)
	case c.Zoom < 0 || c.Zoom > 24:
		return fmt.Errorf("%w: zoom %.2f outside [0, 24]", ErrInvalidCamera, c.Zoom)
	case c.Pitch < 0 || c.Pitch > 85:
		return fmt.Errorf("%w: pitch %.2f outside [0, 85]", ErrInvalidCamera, c.Pitch)
	}
	return nil
}

// CameraEvent is a camera change tagged with where it came from.
type CameraEvent struct {
	SessionID string      `json:"session_id"`
	RouteSlug string      `json:"route"`
	State     CameraState `json:"state"`
}

// MapCommand types understood by the browser-side map.
const (
	CommandAddLayer  = "add_layer"
	CommandSetCamera = "set_camera"
	CommandAddMarker = "add_marker"
)

// MapCommand is an instruction sent to the client that renders the map.
type MapCommand struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// LineLayer describes how the route line is drawn.
type LineLayer struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}
