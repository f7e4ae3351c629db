// Package astro is the astrocartography engine: planetary positions and
// sidereal time for a birth instant, the four angularity lines each planet
// projects onto the globe, nearest-line influence, chart merging, overlap
// analysis between two charts, and transit activations.
//
// Every function here is pure: no I/O, no shared state, identical inputs
// give bit-identical outputs. All angular quantities on the public surface
// are degrees, never radians.
//
// Civil-time convention: a civil time at east-positive reference longitude
// lon is Local Mean Time, UTC = civil - lon/15 hours. A reference longitude
// of 0 therefore means the supplied time is UTC. Transit scrub dates are
// evaluated at 12:00 LMT at the natal reference longitude.
package astro

import (
	"fmt"
	"strings"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// BandTable maps degree distance to influence bands. Each field is the
// exclusive upper bound of its band; anything at or beyond ModerateMax is
// weak.
type BandTable struct {
	VeryStrongMax float64 `json:"very_strong_max" mapstructure:"very_strong_max"`
	StrongMax     float64 `json:"strong_max" mapstructure:"strong_max"`
	ModerateMax   float64 `json:"moderate_max" mapstructure:"moderate_max"`
}

// OrbTable holds the maximum orb, in degrees, per classical aspect.
type OrbTable struct {
	Conjunction float64 `json:"conjunction" mapstructure:"conjunction"`
	Sextile     float64 `json:"sextile" mapstructure:"sextile"`
	Square      float64 `json:"square" mapstructure:"square"`
	Trine       float64 `json:"trine" mapstructure:"trine"`
	Opposition  float64 `json:"opposition" mapstructure:"opposition"`
}

// ForAspect returns the orb for one aspect.
func (o OrbTable) ForAspect(a domain.Aspect) float64 {
	switch a {
	case domain.Conjunction:
		return o.Conjunction
	case domain.Sextile:
		return o.Sextile
	case domain.Square:
		return o.Square
	case domain.Trine:
		return o.Trine
	case domain.Opposition:
		return o.Opposition
	default:
		panic(fmt.Sprintf("orb table: invalid aspect %d", int(a)))
	}
}

// OverlapTable holds the proximity cut-offs of the overlap decision table.
type OverlapTable struct {
	TightMax float64 `json:"tight_max" mapstructure:"tight_max"`
	CloseMax float64 `json:"close_max" mapstructure:"close_max"`
	FarMin   float64 `json:"far_min" mapstructure:"far_min"`
}

// GradeTable converts a residual/orb ratio into an intensity. Each field is
// the inclusive upper bound of its grade; anything above Moderate but still
// inside the orb is mild.
type GradeTable struct {
	Exact    float64 `json:"exact" mapstructure:"exact"`
	Strong   float64 `json:"strong" mapstructure:"strong"`
	Moderate float64 `json:"moderate" mapstructure:"moderate"`
}

// Thresholds is the engine's single tunable policy table. The zero value is
// not usable; start from DefaultThresholds and override fields.
type Thresholds struct {
	Bands   BandTable    `json:"bands" mapstructure:"bands"`
	Orbs    OrbTable     `json:"orbs" mapstructure:"orbs"`
	Overlap OverlapTable `json:"overlap" mapstructure:"overlap"`
	Grades  GradeTable   `json:"grades" mapstructure:"grades"`
}

// DefaultThresholds returns the stock policy table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Bands: BandTable{
			VeryStrongMax: 2,
			StrongMax:     5,
			ModerateMax:   10,
		},
		Orbs: OrbTable{
			Conjunction: 8,
			Sextile:     4,
			Square:      6,
			Trine:       6,
			Opposition:  8,
		},
		Overlap: OverlapTable{
			TightMax: 1,
			CloseMax: 2.5,
			FarMin:   7,
		},
		Grades: GradeTable{
			Exact:    0.10,
			Strong:   0.40,
			Moderate: 0.70,
		},
	}
}

// Validate checks the table's internal ordering.
func (t Thresholds) Validate() error {
	var errs []string

	if !(0 < t.Bands.VeryStrongMax && t.Bands.VeryStrongMax < t.Bands.StrongMax && t.Bands.StrongMax < t.Bands.ModerateMax) {
		errs = append(errs, fmt.Sprintf("bands must satisfy 0 < very_strong < strong < moderate, got %.2f/%.2f/%.2f",
			t.Bands.VeryStrongMax, t.Bands.StrongMax, t.Bands.ModerateMax))
	}
	for _, a := range domain.Aspects() {
		if t.Orbs.ForAspect(a) <= 0 {
			errs = append(errs, fmt.Sprintf("orb for %s must be positive, got %.2f", a, t.Orbs.ForAspect(a)))
		}
	}
	if !(0 < t.Overlap.TightMax && t.Overlap.TightMax < t.Overlap.CloseMax && t.Overlap.CloseMax < t.Overlap.FarMin) {
		errs = append(errs, fmt.Sprintf("overlap must satisfy 0 < tight < close < far, got %.2f/%.2f/%.2f",
			t.Overlap.TightMax, t.Overlap.CloseMax, t.Overlap.FarMin))
	}
	if !(0 < t.Grades.Exact && t.Grades.Exact < t.Grades.Strong && t.Grades.Strong < t.Grades.Moderate && t.Grades.Moderate < 1) {
		errs = append(errs, fmt.Sprintf("grades must satisfy 0 < exact < strong < moderate < 1, got %.2f/%.2f/%.2f",
			t.Grades.Exact, t.Grades.Strong, t.Grades.Moderate))
	}

	if len(errs) > 0 {
		return fmt.Errorf("threshold validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// band maps a degree distance into its influence band.
func (t Thresholds) band(distance float64) domain.InfluenceBand {
	switch {
	case distance < t.Bands.VeryStrongMax:
		return domain.VeryStrong
	case distance < t.Bands.StrongMax:
		return domain.Strong
	case distance < t.Bands.ModerateMax:
		return domain.Moderate
	default:
		return domain.Weak
	}
}

// grade maps a residual/orb ratio into an intensity. Callers guarantee
// ratio <= 1 (pairs outside orb are excluded before grading).
func (t Thresholds) grade(ratio float64) domain.Intensity {
	switch {
	case ratio <= t.Grades.Exact:
		return domain.Exact
	case ratio <= t.Grades.Strong:
		return domain.StrongIntensity
	case ratio <= t.Grades.Moderate:
		return domain.ModerateIntensity
	default:
		return domain.Mild
	}
}
