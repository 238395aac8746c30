package gpx_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/pkg/gpx"
)

const track = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Nivolet</name>
    <trkseg>
      <trkpt lat="45.4810" lon="7.1420"><ele>1801.2</ele></trkpt>
      <trkpt lat="45.4822" lon="7.1431"><ele>1815.0</ele></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="45.4840" lon="7.1450"><ele>1833.7</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestDecode(t *testing.T) {
	points, name, err := gpx.Decode([]byte(track))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Nivolet" {
		t.Errorf("expected name Nivolet, got %q", name)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points across segments, got %d", len(points))
	}
	if points[0].Lon != 7.1420 || points[0].Lat != 45.4810 || points[0].Ele != 1801.2 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
}

func TestDecode_MissingElevation(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>
<trkpt lat="45.1" lon="7.1"></trkpt></trkseg></trk></gpx>`
	if _, _, err := gpx.Decode([]byte(doc)); !errors.Is(err, domain.ErrMalformedPoint) {
		t.Fatalf("expected ErrMalformedPoint, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`
	if _, _, err := gpx.Decode([]byte(doc)); !errors.Is(err, domain.ErrEmptyRoute) {
		t.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	route := []domain.RoutePoint{{Lon: 7.1, Lat: 45.4, Ele: 1800}, {Lon: 7.2, Lat: 45.5, Ele: 1900.5}}
	data, err := gpx.Encode(route, "loop")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, name, err := gpx.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if name != "loop" {
		t.Errorf("expected name loop, got %q", name)
	}
	if len(got) != 2 || got[1].Ele != 1900.5 {
		t.Errorf("unexpected points: %+v", got)
	}
}
