package usecases

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/pkg/geojson"
	"github.com/samirrijal/trailview/internal/pkg/gpx"
	"github.com/samirrijal/trailview/internal/pkg/metrics"
)

// Route document formats.
const (
	FormatGeoJSON = "geojson"
	FormatGPX     = "gpx"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// RouteService handles route import and lookup.
type RouteService struct {
	routes    ports.RouteRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewRouteService creates a new RouteService. cache and publisher may be nil.
func NewRouteService(routes ports.RouteRepository, cache ports.CacheService, publisher ports.EventPublisher) *RouteService {
	return &RouteService{routes: routes, cache: cache, publisher: publisher}
}

// Import decodes a route document, checks that a profile can be built from
// it, and stores it under slug. When name is empty the document's own name
// is used, then the slug.
func (s *RouteService) Import(ctx context.Context, slug, name, format string, data []byte) (*domain.Route, error) {
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSlug, slug)
	}

	points, docName, err := Decode(format, data)
	if err != nil {
		return nil, err
	}
	if _, err := profile.Build(points); err != nil {
		return nil, err
	}

	if name == "" {
		name = docName
	}
	if name == "" {
		name = slug
	}

	route := &domain.Route{
		Slug:   slug,
		Name:   name,
		Source: DetectFormat(format, "", data),
		Points: points,
	}
	if err := s.routes.Upsert(ctx, route); err != nil {
		return nil, fmt.Errorf("upsert route %s: %w", slug, err)
	}
	metrics.RoutesImported.WithLabelValues(route.Source).Inc()

	s.invalidate(ctx, slug)

	if s.publisher != nil {
		if err := s.publisher.PublishRouteImported(ctx, route); err != nil {
			slog.WarnContext(ctx, "publish route imported", "slug", slug, "error", err)
		}
	}
	return route, nil
}

// GetBySlug returns a stored route.
func (s *RouteService) GetBySlug(ctx context.Context, slug string) (*domain.Route, error) {
	return s.routes.GetBySlug(ctx, slug)
}

// List returns all stored routes.
func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	return s.routes.List(ctx)
}

// Delete removes a route and its cached profiles.
func (s *RouteService) Delete(ctx context.Context, slug string) error {
	if err := s.routes.Delete(ctx, slug); err != nil {
		return err
	}
	s.invalidate(ctx, slug)
	return nil
}

func (s *RouteService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	for _, key := range profileCacheKeys(slug) {
		_ = s.cache.Delete(ctx, key)
	}
}

// Decode parses a route document in the given format. An empty format is
// sniffed from the content.
func Decode(format string, data []byte) ([]domain.RoutePoint, string, error) {
	switch DetectFormat(format, "", data) {
	case FormatGeoJSON:
		return geojson.Decode(data)
	case FormatGPX:
		return gpx.Decode(data)
	default:
		return nil, "", fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
}

// DetectFormat resolves the document format from an explicit value, a file
// name or URL, or the first non-blank byte of the content.
func DetectFormat(format, name string, data []byte) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case FormatGeoJSON, "json":
		return FormatGeoJSON
	case FormatGPX:
		return FormatGPX
	case "":
	default:
		return f
	}

	switch strings.ToLower(path.Ext(namePath(name))) {
	case ".geojson", ".json":
		return FormatGeoJSON
	case ".gpx":
		return FormatGPX
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FormatGeoJSON
	case bytes.HasPrefix(trimmed, []byte("<")):
		return FormatGPX
	}
	return ""
}

// namePath drops the query and fragment of a URL so only its path is matched.
func namePath(name string) string {
	u, err := url.Parse(name)
	if err != nil || (u.Scheme == "" && u.RawQuery == "" && u.Fragment == "") {
		return name
	}
	return u.Path
}
