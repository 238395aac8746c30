package variants_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/variants"
)

var route = []domain.RoutePoint{
	{Lon: 7.24, Lat: 45.38, Ele: 1800},
	{Lon: 7.25, Lat: 45.39, Ele: 1900},
	{Lon: 7.26, Lat: 45.40, Ele: 2600},
}

func TestLookup_Default(t *testing.T) {
	v, err := variants.Lookup("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != variants.Default {
		t.Errorf("expected %s, got %s", variants.Default, v.Name)
	}
	if v.LineWidth != 4 || v.LineOpacity != 0.8 {
		t.Errorf("unexpected line style: %v/%v", v.LineWidth, v.LineOpacity)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := variants.Lookup("neon"); !errors.Is(err, domain.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	v, _ := variants.Lookup("summit")
	*v.PopupIndex = 99
	again, _ := variants.Lookup("summit")
	if *again.PopupIndex != 0 {
		t.Errorf("registry was mutated through returned variant: %d", *again.PopupIndex)
	}
}

func TestList(t *testing.T) {
	list := variants.List()
	if len(list) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Errorf("variants not sorted: %s before %s", list[i-1].Name, list[i].Name)
		}
	}
}

func TestMarkers(t *testing.T) {
	classic, _ := variants.Lookup("classic")
	m, err := variants.Markers(classic, route)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("classic should have no markers, got %d", len(m))
	}

	finish, _ := variants.Lookup("finish")
	m, _ = variants.Markers(finish, route)
	if len(m) != 1 || m[0].Kind != domain.MarkerFinish || m[0].Index != 2 || m[0].Position.Ele != 2600 {
		t.Errorf("unexpected finish markers: %+v", m)
	}

	summit, _ := variants.Lookup("summit")
	m, _ = variants.Markers(summit, route)
	if len(m) != 1 || m[0].Kind != domain.MarkerPopup || m[0].Text != "Start" {
		t.Errorf("unexpected popup markers: %+v", m)
	}
}

func TestMarkers_PopupOutOfRange(t *testing.T) {
	v, _ := variants.Lookup("summit")
	idx := 5
	v.PopupIndex = &idx
	if _, err := variants.Markers(v, route); !errors.Is(err, domain.ErrPopupOutOfRange) {
		t.Fatalf("expected ErrPopupOutOfRange, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	classic, _ := variants.Lookup("classic")
	if got := variants.FormatDistance(classic, 12.345); got != "12.3" {
		t.Errorf("expected 12.3, got %s", got)
	}
	if got := variants.FormatElevation(classic, 2612.6); got != "2613" {
		t.Errorf("expected 2613, got %s", got)
	}
	orbit, _ := variants.Lookup("orbit")
	if got := variants.FormatDistance(orbit, 1.5); got != "1.50" {
		t.Errorf("expected 1.50, got %s", got)
	}
}
