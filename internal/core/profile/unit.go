package profile

import (
	"fmt"
	"strings"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// Unit is the distance unit a profile is expressed in.
type Unit string

const (
	UnitMeters     Unit = "m"
	UnitKilometers Unit = "km"
)

// Divisor converts raw profile distance into the unit.
func (u Unit) Divisor() float64 {
	if u == UnitKilometers {
		return 1000
	}
	return 1
}

// ParseUnit accepts "m" or "km". An empty string means kilometers, which is
// what the chart axis shows.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "km":
		return UnitKilometers, nil
	case "m":
		return UnitMeters, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownUnit, s)
	}
}

// Rescale returns a copy of p with distances divided for the given unit.
func Rescale(p domain.ElevationProfile, u Unit) domain.ElevationProfile {
	div := u.Divisor()
	out := make(domain.ElevationProfile, len(p))
	for i, s := range p {
		out[i] = domain.ElevationSample{Elevation: s.Elevation, Distance: s.Distance / div}
	}
	return out
}
