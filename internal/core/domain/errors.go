package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrEmptyRoute is returned when a route carries no points.
	ErrEmptyRoute = errors.New("empty route")

	// ErrMalformedPoint is returned when a coordinate lacks longitude,
	// latitude, or elevation.
	ErrMalformedPoint = errors.New("malformed route point")

	ErrUnknownUnit     = errors.New("unknown distance unit")
	ErrUnknownVariant  = errors.New("unknown page variant")
	ErrPopupOutOfRange = errors.New("popup index out of range")
	ErrInvalidCamera   = errors.New("invalid camera state")
	ErrSessionReleased = errors.New("map session released")
	ErrInvalidSlug     = errors.New("invalid route slug")
	ErrUnknownFormat   = errors.New("unknown route format")
	ErrInvalidDocument = errors.New("invalid route document")
)
