package geojson_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/pkg/geojson"
)

const nivolet = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "start"}, "geometry": {"type": "Point", "coordinates": [7.14, 45.48]}},
    {"type": "Feature", "properties": {"name": "Nivolet Hill"}, "geometry": {"type": "LineString", "coordinates": [
      [7.1420, 45.4810, 1801.2],
      [7.1431, 45.4822, 1815.0],
      [7.1450, 45.4840, 1833.7]
    ]}}
  ]
}`

func TestDecode(t *testing.T) {
	points, name, err := geojson.Decode([]byte(nivolet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Nivolet Hill" {
		t.Errorf("expected name Nivolet Hill, got %q", name)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[2].Lon != 7.1450 || points[2].Lat != 45.4840 || points[2].Ele != 1833.7 {
		t.Errorf("unexpected point: %+v", points[2])
	}
}

func TestDecode_MalformedPoint(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[7.1,45.4,1800],[7.2,45.5]]}}]}`
	if _, _, err := geojson.Decode([]byte(doc)); !errors.Is(err, domain.ErrMalformedPoint) {
		t.Fatalf("expected ErrMalformedPoint, got %v", err)
	}
}

func TestDecode_NonNumeric(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[7.1,"x",1800]]}}]}`
	if _, _, err := geojson.Decode([]byte(doc)); !errors.Is(err, domain.ErrMalformedPoint) {
		t.Fatalf("expected ErrMalformedPoint, got %v", err)
	}
}

func TestDecode_NullComponent(t *testing.T) {
	cases := []string{
		`[[7.1,45.2,1000],[7.2,null,null]]`,
		`[[7.1,45.2,null]]`,
		`[[null,45.2,1000]]`,
	}
	for _, coords := range cases {
		doc := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":` + coords + `}}]}`
		points, _, err := geojson.Decode([]byte(doc))
		if !errors.Is(err, domain.ErrMalformedPoint) {
			t.Errorf("%s: expected ErrMalformedPoint, got points=%+v err=%v", coords, points, err)
		}
	}
}

func TestDecode_Empty(t *testing.T) {
	cases := []string{
		`{"type":"FeatureCollection","features":[]}`,
		`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[]}}]}`,
	}
	for _, doc := range cases {
		if _, _, err := geojson.Decode([]byte(doc)); !errors.Is(err, domain.ErrEmptyRoute) {
			t.Errorf("expected ErrEmptyRoute for %s, got %v", doc, err)
		}
	}
}

func TestDecode_NotACollection(t *testing.T) {
	if _, _, err := geojson.Decode([]byte(`{"type":"Feature"}`)); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatal("expected error for non-collection")
	}
	if _, _, err := geojson.Decode([]byte(`not json`)); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatal("expected error for invalid json")
	}
}

func TestEncodeDecode(t *testing.T) {
	route := []domain.RoutePoint{{Lon: 7.1, Lat: 45.4, Ele: 1800}, {Lon: 7.2, Lat: 45.5, Ele: 1900}}
	data, err := geojson.Encode(route, "loop")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, name, err := geojson.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if name != "loop" || len(got) != 2 || got[1] != route[1] {
		t.Errorf("unexpected decode result: %q %+v", name, got)
	}
}
