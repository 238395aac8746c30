package profile_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
)

func TestParseUnit(t *testing.T) {
	cases := map[string]profile.Unit{
		"":   profile.UnitKilometers,
		"km": profile.UnitKilometers,
		"KM": profile.UnitKilometers,
		"m":  profile.UnitMeters,
	}
	for in, want := range cases {
		got, err := profile.ParseUnit(in)
		if err != nil {
			t.Errorf("ParseUnit(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseUnit(%q): expected %s, got %s", in, want, got)
		}
	}

	if _, err := profile.ParseUnit("mi"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestRescale(t *testing.T) {
	p := domain.ElevationProfile{{Elevation: 100, Distance: 0}, {Elevation: 120, Distance: 2500}}

	km := profile.Rescale(p, profile.UnitKilometers)
	if km[1].Distance != 2.5 || km[1].Elevation != 120 {
		t.Errorf("unexpected km sample: %+v", km[1])
	}
	if p[1].Distance != 2500 {
		t.Error("rescale mutated its input")
	}

	m := profile.Rescale(p, profile.UnitMeters)
	if m[1].Distance != 2500 {
		t.Errorf("expected 2500, got %v", m[1].Distance)
	}
}
