package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// --- Mock RouteRepository ---

type mockRouteRepo struct {
	upsertFn    func(ctx context.Context, r *domain.Route) error
	getBySlugFn func(ctx context.Context, slug string) (*domain.Route, error)
	listFn      func(ctx context.Context) ([]domain.Route, error)
	deleteFn    func(ctx context.Context, slug string) error
	gets        int
}

func (m *mockRouteRepo) Upsert(ctx context.Context, r *domain.Route) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, r)
	}
	return nil
}

func (m *mockRouteRepo) GetBySlug(ctx context.Context, slug string) (*domain.Route, error) {
	m.gets++
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRouteRepo) Delete(ctx context.Context, slug string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, slug)
	}
	return nil
}

// --- In-memory cache ---

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("valkey nil message")
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	cameraEvents []*domain.CameraEvent
	imported     []*domain.Route
	err          error
}

func (m *mockPublisher) PublishCameraEvent(ctx context.Context, e *domain.CameraEvent) error {
	m.cameraEvents = append(m.cameraEvents, e)
	return m.err
}

func (m *mockPublisher) PublishRouteImported(ctx context.Context, r *domain.Route) error {
	m.imported = append(m.imported, r)
	return m.err
}

// --- Recording command sink ---

type recordingSink struct {
	cmds []domain.MapCommand
	err  error
}

func (s *recordingSink) Send(cmd domain.MapCommand) error {
	if s.err != nil {
		return s.err
	}
	s.cmds = append(s.cmds, cmd)
	return nil
}

func storedRoute(slug string) *domain.Route {
	return &domain.Route{
		ID:   "r-" + slug,
		Slug: slug,
		Name: "Nivolet Hill",
		Points: []domain.RoutePoint{
			{Lon: 0, Lat: 0, Ele: 100},
			{Lon: 0, Lat: 0, Ele: 150},
			{Lon: 1, Lat: 1, Ele: 150},
		},
	}
}
