package profile

import (
	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/pkg/geospatial"
)

// Summarize aggregates a route and its profile. The two must be index-aligned.
func Summarize(route []domain.RoutePoint, p domain.ElevationProfile) (domain.ProfileSummary, error) {
	if len(route) == 0 || len(p) == 0 {
		return domain.ProfileSummary{}, domain.ErrEmptyRoute
	}

	s := domain.ProfileSummary{
		Points:         len(route),
		Distance:       p[len(p)-1].Distance,
		MinElevation:   route[0].Ele,
		MaxElevation:   route[0].Ele,
		GeodesicLength: geospatial.PathLength(route),
		Bounds:         geospatial.RouteBounds(route),
	}
	for i := 1; i < len(route); i++ {
		ele := route[i].Ele
		if ele < s.MinElevation {
			s.MinElevation = ele
		}
		if ele > s.MaxElevation {
			s.MaxElevation = ele
		}
		if d := ele - route[i-1].Ele; d > 0 {
			s.Ascent += d
		} else {
			s.Descent -= d
		}
	}
	return s, nil
}
