package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/usecases"
)

func validEvent() *domain.CameraEvent {
	return &domain.CameraEvent{
		SessionID: "s1",
		RouteSlug: "nivolet",
		State: domain.CameraState{
			Center:  domain.GeoPoint{Lat: 45.389, Lon: 7.2465},
			Zoom:    11.59,
			Pitch:   63.36,
			Bearing: -43.99,
		},
	}
}

func TestCameraService_FanOutInOrder(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewCameraService(pub)

	var order []string
	svc.Subscribe(ports.CameraObserverFunc(func(ctx context.Context, e *domain.CameraEvent) error {
		order = append(order, "first")
		return nil
	}))
	svc.Subscribe(ports.CameraObserverFunc(func(ctx context.Context, e *domain.CameraEvent) error {
		order = append(order, "second")
		return nil
	}))

	event := validEvent()
	if err := svc.Report(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected notification order: %v", order)
	}
	if event.State.At.IsZero() {
		t.Error("expected report time to be stamped")
	}
	if len(pub.cameraEvents) != 1 {
		t.Errorf("expected 1 published event, got %d", len(pub.cameraEvents))
	}
}

func TestCameraService_ObserverErrorsJoined(t *testing.T) {
	svc := usecases.NewCameraService(nil)
	errA := errors.New("a failed")

	called := false
	svc.Subscribe(ports.CameraObserverFunc(func(ctx context.Context, e *domain.CameraEvent) error { return errA }))
	svc.Subscribe(ports.CameraObserverFunc(func(ctx context.Context, e *domain.CameraEvent) error {
		called = true
		return nil
	}))

	err := svc.Report(context.Background(), validEvent())
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined observer error, got %v", err)
	}
	if !called {
		t.Error("a failing observer must not stop later observers")
	}
}

func TestCameraService_Unsubscribe(t *testing.T) {
	svc := usecases.NewCameraService(nil)
	calls := 0
	unsubscribe := svc.Subscribe(ports.CameraObserverFunc(func(ctx context.Context, e *domain.CameraEvent) error {
		calls++
		return nil
	}))

	_ = svc.Report(context.Background(), validEvent())
	unsubscribe()
	unsubscribe()
	_ = svc.Report(context.Background(), validEvent())

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestCameraService_InvalidState(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewCameraService(pub)

	event := validEvent()
	event.State.Pitch = 120
	if err := svc.Report(context.Background(), event); !errors.Is(err, domain.ErrInvalidCamera) {
		t.Fatalf("expected ErrInvalidCamera, got %v", err)
	}
	if len(pub.cameraEvents) != 0 {
		t.Error("invalid camera state must not be published")
	}
}

func TestLogObserver(t *testing.T) {
	if err := (usecases.LogObserver{}).OnCameraChanged(context.Background(), validEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
