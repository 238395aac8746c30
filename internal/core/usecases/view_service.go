package usecases

import (
	"context"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/core/variants"
)

// ViewService assembles everything a route page needs.
type ViewService struct {
	routes   *RouteService
	profiles *ProfileService
}

// NewViewService creates a new ViewService.
func NewViewService(routes *RouteService, profiles *ProfileService) *ViewService {
	return &ViewService{routes: routes, profiles: profiles}
}

// View renders a route in the named variant. The profile is in kilometers,
// which is what the chart axis displays.
func (s *ViewService) View(ctx context.Context, slug, variantName string) (*domain.PageView, error) {
	v, err := variants.Lookup(variantName)
	if err != nil {
		return nil, err
	}

	route, err := s.routes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	markers, err := variants.Markers(v, route.Points)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Profile(ctx, slug, profile.UnitKilometers)
	if err != nil {
		return nil, err
	}
	sum, err := s.profiles.Summary(ctx, slug)
	if err != nil {
		return nil, err
	}

	return &domain.PageView{
		Route:   route,
		Variant: v,
		Profile: p,
		Markers: markers,
		Summary: sum,
	}, nil
}
