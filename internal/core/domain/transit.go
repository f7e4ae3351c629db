package domain

import (
	"encoding/json"
	"fmt"
)

// Aspect is one of the five classical angular relationships between a
// transiting and a natal body.
type Aspect int

const (
	Conjunction Aspect = iota // 0°
	Sextile                   // 60°
	Square                    // 90°
	Trine                     // 120°
	Opposition                // 180°
)

var aspectNames = [...]string{"conjunction", "sextile", "square", "trine", "opposition"}

var aspectAngles = [...]float64{0, 60, 90, 120, 180}

// Aspects returns the five classical aspects ordered by angle.
func Aspects() []Aspect {
	return []Aspect{Conjunction, Sextile, Square, Trine, Opposition}
}

// Valid reports whether a is a known aspect.
func (a Aspect) Valid() bool { return a >= Conjunction && a <= Opposition }

// Angle returns the exact aspect angle in degrees.
func (a Aspect) Angle() float64 {
	if !a.Valid() {
		panic(fmt.Sprintf("aspect angle: invalid aspect %d", int(a)))
	}
	return aspectAngles[a]
}

func (a Aspect) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Aspect(%d)", int(a))
	}
	return aspectNames[a]
}

// ParseAspect converts a wire name ("conjunction", ...) to an Aspect.
func ParseAspect(s string) (Aspect, error) {
	for i, name := range aspectNames {
		if name == s {
			return Aspect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown aspect %q", s)
}

func (a Aspect) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("marshal aspect: invalid value %d", int(a))
	}
	return json.Marshal(a.String())
}

func (a *Aspect) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAspect(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Intensity grades how tight an aspect is relative to its orb.
type Intensity int

const (
	Exact Intensity = iota
	StrongIntensity
	ModerateIntensity
	Mild
)

var intensityNames = [...]string{"exact", "strong", "moderate", "mild"}

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool { return i >= Exact && i <= Mild }

func (i Intensity) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Intensity(%d)", int(i))
	}
	return intensityNames[i]
}

// ParseIntensity converts a wire name ("exact", ...) to an Intensity.
func ParseIntensity(s string) (Intensity, error) {
	for idx, name := range intensityNames {
		if name == s {
			return Intensity(idx), nil
		}
	}
	return 0, fmt.Errorf("unknown intensity %q", s)
}

func (i Intensity) MarshalJSON() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("marshal intensity: invalid value %d", int(i))
	}
	return json.Marshal(i.String())
}

func (i *Intensity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseIntensity(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
