package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/pkg/metrics"
)

type observerEntry struct {
	id  uint64
	obs ports.CameraObserver
}

// CameraService fans camera state changes out to subscribed observers and
// the message broker.
type CameraService struct {
	mu        sync.RWMutex
	observers []observerEntry
	nextID    uint64
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewCameraService creates a new CameraService. publisher may be nil.
func NewCameraService(publisher ports.EventPublisher) *CameraService {
	return &CameraService{publisher: publisher, now: time.Now}
}

// Subscribe registers an observer and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (s *CameraService) Subscribe(obs ports.CameraObserver) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observerEntry{id: id, obs: obs})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, e := range s.observers {
				if e.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Report validates a camera change and notifies every observer in
// subscription order. A failing observer does not stop the others; all
// observer errors are returned joined.
func (s *CameraService) Report(ctx context.Context, event *domain.CameraEvent) error {
	if err := event.State.Validate(); err != nil {
		return err
	}
	if event.State.At.IsZero() {
		event.State.At = s.now()
	}
	metrics.CameraEvents.Inc()

	s.mu.RLock()
	observers := make([]observerEntry, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	var errs []error
	for _, e := range observers {
		if err := e.obs.OnCameraChanged(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("observer %d: %w", e.id, err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCameraEvent(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish camera event", "session_id", event.SessionID, "error", err)
		}
	}
	return errors.Join(errs...)
}

// LogObserver writes camera changes to a structured logger at debug level.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) OnCameraChanged(ctx context.Context, event *domain.CameraEvent) error {
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	l.DebugContext(ctx, "camera moved",
		"session_id", event.SessionID,
		"route", event.RouteSlug,
		"zoom", event.State.Zoom,
		"lat", event.State.Center.Lat,
		"lon", event.State.Center.Lon,
		"pitch", event.State.Pitch,
		"bearing", event.State.Bearing,
	)
	return nil
}
