package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/trailview/internal/core/domain"
)

// RouteRepo implements ports.RouteRepository. Points are stored as a JSONB
// array of [lon, lat, ele] triples, the same layout a GeoJSON LineString uses.
type RouteRepo struct {
	db *DB
}

func NewRouteRepo(db *DB) *RouteRepo { return &RouteRepo{db: db} }

func (r *RouteRepo) Upsert(ctx context.Context, route *domain.Route) error {
	coords, err := encodePoints(route.Points)
	if err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO routes (slug, name, source, points, point_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, source = EXCLUDED.source,
		    points = EXCLUDED.points, point_count = EXCLUDED.point_count,
		    updated_at = now()
		RETURNING id, created_at
	`, route.Slug, route.Name, route.Source, coords, len(route.Points)).Scan(&route.ID, &route.CreatedAt)
}

func (r *RouteRepo) GetBySlug(ctx context.Context, slug string) (*domain.Route, error) {
	var rt domain.Route
	var coords []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, slug, name, source, points, created_at
		FROM routes WHERE slug = $1
	`, slug).Scan(&rt.ID, &rt.Slug, &rt.Name, &rt.Source, &coords, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("route %s: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if rt.Points, err = decodePoints(coords); err != nil {
		return nil, fmt.Errorf("route %s: %w", slug, err)
	}
	return &rt, nil
}

// List returns route metadata without points.
func (r *RouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, slug, name, source, created_at
		FROM routes ORDER BY slug
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		var rt domain.Route
		if err := rows.Scan(&rt.ID, &rt.Slug, &rt.Name, &rt.Source, &rt.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

func (r *RouteRepo) Delete(ctx context.Context, slug string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM routes WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("route %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

func encodePoints(points []domain.RoutePoint) ([]byte, error) {
	coords := make([][3]float64, len(points))
	for i, p := range points {
		coords[i] = [3]float64{p.Lon, p.Lat, p.Ele}
	}
	return json.Marshal(coords)
}

func decodePoints(data []byte) ([]domain.RoutePoint, error) {
	var coords [][]float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	points := make([]domain.RoutePoint, len(coords))
	for i, c := range coords {
		if len(c) < 3 {
			return nil, fmt.Errorf("%w: stored point %d", domain.ErrMalformedPoint, i)
		}
		points[i] = domain.RoutePoint{Lon: c[0], Lat: c[1], Ele: c[2]}
	}
	return points, nil
}
