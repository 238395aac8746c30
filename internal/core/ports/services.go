package ports

import (
	"context"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishCameraEvent(ctx context.Context, event *domain.CameraEvent) error
	PublishRouteImported(ctx context.Context, route *domain.Route) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeCameraEvents(ctx context.Context, handler func(ctx context.Context, event *domain.CameraEvent) error) error
	SubscribeRouteImported(ctx context.Context, handler func(ctx context.Context, slug string) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// CameraObserver is notified whenever a map camera settles.
type CameraObserver interface {
	OnCameraChanged(ctx context.Context, event *domain.CameraEvent) error
}

// CameraObserverFunc adapts a function to CameraObserver.
type CameraObserverFunc func(ctx context.Context, event *domain.CameraEvent) error

func (f CameraObserverFunc) OnCameraChanged(ctx context.Context, event *domain.CameraEvent) error {
	return f(ctx, event)
}

// CommandSink delivers map commands to whatever renders the map.
type CommandSink interface {
	Send(cmd domain.MapCommand) error
}

// ImportStarter kicks off an asynchronous route import.
type ImportStarter interface {
	StartImport(ctx context.Context, req domain.ImportRequest) (string, error)
}
