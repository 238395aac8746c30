package usecases

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/pkg/metrics"
)

// SessionRegistry tracks the map sessions currently held by clients.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*MapSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*MapSession)}
}

// Acquire opens a session for a route. The caller owns the session and must
// Release it.
func (r *SessionRegistry) Acquire(routeSlug string, sink ports.CommandSink) (*MapSession, error) {
	if sink == nil {
		return nil, errors.New("map session needs a command sink")
	}
	s := &MapSession{
		ID:        uuid.NewString(),
		RouteSlug: routeSlug,
		sink:      sink,
		registry:  r,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	metrics.ActiveMapSessions.Inc()
	return s, nil
}

// Active returns how many sessions are held.
func (r *SessionRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Get looks up a held session.
func (r *SessionRegistry) Get(id string) (*MapSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *SessionRegistry) remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		metrics.ActiveMapSessions.Dec()
	}
}

// MapSession is the narrow command surface onto one client's map.
type MapSession struct {
	ID        string
	RouteSlug string

	released atomic.Bool
	sink     ports.CommandSink
	registry *SessionRegistry
}

// AddLayer draws a line layer.
func (s *MapSession) AddLayer(layer domain.LineLayer) error {
	return s.send(domain.MapCommand{Type: domain.CommandAddLayer, Payload: layer})
}

// SetCamera moves the camera.
func (s *MapSession) SetCamera(cam domain.Camera) error {
	return s.send(domain.MapCommand{Type: domain.CommandSetCamera, Payload: cam})
}

// AddMarker pins a marker.
func (s *MapSession) AddMarker(m domain.Marker) error {
	return s.send(domain.MapCommand{Type: domain.CommandAddMarker, Payload: m})
}

// Present sends the layer, camera and markers of a variant.
func (s *MapSession) Present(v domain.Variant, markers []domain.Marker) error {
	layer := domain.LineLayer{
		ID:      "route",
		Source:  "route",
		Color:   v.LineColor,
		Width:   v.LineWidth,
		Opacity: v.LineOpacity,
	}
	if err := s.AddLayer(layer); err != nil {
		return err
	}
	if err := s.SetCamera(v.Camera); err != nil {
		return err
	}
	for _, m := range markers {
		if err := s.AddMarker(m); err != nil {
			return err
		}
	}
	return nil
}

// Release returns the session to the registry. Safe to call repeatedly and
// never waits on a send in flight.
func (s *MapSession) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.registry.remove(s.ID)
}

// send holds no lock across the sink; the sink serializes its own writes.
func (s *MapSession) send(cmd domain.MapCommand) error {
	if s.released.Load() {
		return domain.ErrSessionReleased
	}
	return s.sink.Send(cmd)
}
