package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/trailview/internal/core/domain"
)

// CameraEventRepo stores camera changes. It satisfies ports.CameraObserver so
// it can be subscribed directly to the camera service.
type CameraEventRepo struct {
	db *DB
}

func NewCameraEventRepo(db *DB) *CameraEventRepo { return &CameraEventRepo{db: db} }

func (r *CameraEventRepo) OnCameraChanged(ctx context.Context, e *domain.CameraEvent) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO camera_events (session_id, route_slug, lat, lon, zoom, pitch, bearing, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.SessionID, e.RouteSlug, e.State.Center.Lat, e.State.Center.Lon,
		e.State.Zoom, e.State.Pitch, e.State.Bearing, e.State.At)
	return err
}

// Latest returns the most recent camera state reported for a route.
func (r *CameraEventRepo) Latest(ctx context.Context, routeSlug string) (*domain.CameraEvent, error) {
	var e domain.CameraEvent
	err := r.db.Pool.QueryRow(ctx, `
		SELECT session_id, route_slug, lat, lon, zoom, pitch, bearing, reported_at
		FROM camera_events WHERE route_slug = $1
		ORDER BY reported_at DESC LIMIT 1
	`, routeSlug).Scan(&e.SessionID, &e.RouteSlug, &e.State.Center.Lat, &e.State.Center.Lon,
		&e.State.Zoom, &e.State.Pitch, &e.State.Bearing, &e.State.At)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("camera for %s: %w", routeSlug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
