package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/pkg/metrics"
)

const defaultProfileTTL = 600

func profileCacheKey(slug string, unit profile.Unit) string {
	return "profile:" + slug + ":" + string(unit)
}

func summaryCacheKey(slug string) string {
	return "summary:" + slug
}

func profileCacheKeys(slug string) []string {
	return []string{
		profileCacheKey(slug, profile.UnitMeters),
		profileCacheKey(slug, profile.UnitKilometers),
		summaryCacheKey(slug),
	}
}

// ProfileService serves elevation profiles with read-through caching.
type ProfileService struct {
	routes     ports.RouteRepository
	cache      ports.CacheService
	ttlSeconds int
}

// NewProfileService creates a new ProfileService. A non-positive ttl uses
// the 10 minute default.
func NewProfileService(routes ports.RouteRepository, cache ports.CacheService, ttlSeconds int) *ProfileService {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultProfileTTL
	}
	return &ProfileService{routes: routes, cache: cache, ttlSeconds: ttlSeconds}
}

// Profile returns the elevation profile of a stored route in the given unit.
func (s *ProfileService) Profile(ctx context.Context, slug string, unit profile.Unit) (domain.ElevationProfile, error) {
	key := profileCacheKey(slug, unit)
	var cached domain.ElevationProfile
	if s.fromCache(ctx, key, "profile", &cached) {
		return cached, nil
	}

	route, err := s.routes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p, err := build(route.Points)
	if err != nil {
		return nil, err
	}
	p = profile.Rescale(p, unit)

	s.toCache(ctx, key, p)
	return p, nil
}

// Summary returns aggregate figures for a stored route.
func (s *ProfileService) Summary(ctx context.Context, slug string) (domain.ProfileSummary, error) {
	key := summaryCacheKey(slug)
	var cached domain.ProfileSummary
	if s.fromCache(ctx, key, "summary", &cached) {
		return cached, nil
	}

	route, err := s.routes.GetBySlug(ctx, slug)
	if err != nil {
		return domain.ProfileSummary{}, err
	}
	p, err := build(route.Points)
	if err != nil {
		return domain.ProfileSummary{}, err
	}
	sum, err := profile.Summarize(route.Points, p)
	if err != nil {
		return domain.ProfileSummary{}, err
	}

	s.toCache(ctx, key, sum)
	return sum, nil
}

func (s *ProfileService) fromCache(ctx context.Context, key, op string, v any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err == nil && json.Unmarshal(data, v) == nil {
		metrics.CacheHits.WithLabelValues(op).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(op).Inc()
	return false
}

func (s *ProfileService) toCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttlSeconds)
	}
}

// build wraps profile.Build with instrumentation.
func build(points []domain.RoutePoint) (domain.ElevationProfile, error) {
	start := time.Now()
	p, err := profile.Build(points)
	metrics.ProfileBuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProfileBuilds.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ProfileBuilds.WithLabelValues("ok").Inc()
	metrics.RoutePoints.Observe(float64(len(points)))
	return p, nil
}
