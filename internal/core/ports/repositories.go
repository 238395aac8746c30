package ports

import (
	"context"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// RouteRepository persists routes.
type RouteRepository interface {
	Upsert(ctx context.Context, route *domain.Route) error
	GetBySlug(ctx context.Context, slug string) (*domain.Route, error)
	List(ctx context.Context) ([]domain.Route, error)
	Delete(ctx context.Context, slug string) error
}

// CameraHistory reads back persisted camera states.
type CameraHistory interface {
	Latest(ctx context.Context, routeSlug string) (*domain.CameraEvent, error)
}
