package usecases_test

import (
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/core/variants"
)

func TestSessionRegistry_AcquireRelease(t *testing.T) {
	reg := usecases.NewSessionRegistry()
	sink := &recordingSink{}

	s, err := reg.Acquire("nivolet", sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected a session id")
	}
	if reg.Active() != 1 {
		t.Fatalf("expected 1 active session, got %d", reg.Active())
	}
	if got, ok := reg.Get(s.ID); !ok || got != s {
		t.Error("expected session to be retrievable")
	}

	s.Release()
	s.Release()
	if reg.Active() != 0 {
		t.Errorf("expected 0 active sessions, got %d", reg.Active())
	}
	if err := s.SetCamera(domain.Camera{}); !errors.Is(err, domain.ErrSessionReleased) {
		t.Errorf("expected ErrSessionReleased, got %v", err)
	}
	if len(sink.cmds) != 0 {
		t.Errorf("no commands should reach the sink after release, got %d", len(sink.cmds))
	}
}

func TestSessionRegistry_NilSink(t *testing.T) {
	if _, err := usecases.NewSessionRegistry().Acquire("nivolet", nil); err == nil {
		t.Fatal("expected error for nil sink")
	}
}

func TestMapSession_Present(t *testing.T) {
	reg := usecases.NewSessionRegistry()
	sink := &recordingSink{}
	s, _ := reg.Acquire("nivolet", sink)
	defer s.Release()

	v, _ := variants.Lookup("finish")
	markers, _ := variants.Markers(v, storedRoute("nivolet").Points)

	if err := s.Present(v, markers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(sink.cmds))
	}
	want := []string{domain.CommandAddLayer, domain.CommandSetCamera, domain.CommandAddMarker}
	for i, typ := range want {
		if sink.cmds[i].Type != typ {
			t.Errorf("command %d: expected %s, got %s", i, typ, sink.cmds[i].Type)
		}
	}
	layer, ok := sink.cmds[0].Payload.(domain.LineLayer)
	if !ok || layer.Color != v.LineColor || layer.Width != v.LineWidth {
		t.Errorf("unexpected layer payload: %#v", sink.cmds[0].Payload)
	}
}

func TestMapSession_SinkError(t *testing.T) {
	reg := usecases.NewSessionRegistry()
	s, _ := reg.Acquire("nivolet", &recordingSink{err: errors.New("closed")})
	defer s.Release()

	v, _ := variants.Lookup("")
	if err := s.Present(v, nil); err == nil {
		t.Fatal("expected sink error")
	}
}

// blockingSink parks every Send until unblock is closed.
type blockingSink struct {
	entered chan struct{}
	unblock chan struct{}
}

func (b *blockingSink) Send(cmd domain.MapCommand) error {
	b.entered <- struct{}{}
	<-b.unblock
	return nil
}

func TestMapSession_ReleaseDuringStalledSend(t *testing.T) {
	reg := usecases.NewSessionRegistry()
	sink := &blockingSink{entered: make(chan struct{}, 1), unblock: make(chan struct{})}
	s, _ := reg.Acquire("nivolet", sink)
	defer close(sink.unblock)

	go func() { _ = s.SetCamera(domain.Camera{}) }()
	<-sink.entered

	released := make(chan struct{})
	go func() {
		s.Release()
		close(released)
	}()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Release blocked behind a stalled send")
	}
	if reg.Active() != 0 {
		t.Errorf("expected 0 active sessions, got %d", reg.Active())
	}
	if err := s.AddMarker(domain.Marker{}); !errors.Is(err, domain.ErrSessionReleased) {
		t.Errorf("expected ErrSessionReleased, got %v", err)
	}
}
