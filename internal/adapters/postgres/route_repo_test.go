package postgres

import (
	"errors"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
)

func TestEncodeDecodePoints(t *testing.T) {
	points := []domain.RoutePoint{{Lon: 7.1, Lat: 45.4, Ele: 1800}, {Lon: 7.2, Lat: 45.5, Ele: 1900.25}}
	data, err := encodePoints(points)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `[[7.1,45.4,1800],[7.2,45.5,1900.25]]` {
		t.Errorf("unexpected encoding: %s", data)
	}
	got, err := decodePoints(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1] != points[1] {
		t.Errorf("unexpected points: %+v", got)
	}
}

func TestDecodePoints_Malformed(t *testing.T) {
	if _, err := decodePoints([]byte(`[[7.1,45.4]]`)); !errors.Is(err, domain.ErrMalformedPoint) {
		t.Fatalf("expected ErrMalformedPoint, got %v", err)
	}
	if _, err := decodePoints([]byte(`{}`)); err == nil {
		t.Fatal("expected error for non-array")
	}
}
