package domain

import (
	"encoding/json"
	"fmt"
)

// Planet identifies a charted body. The ten classical bodies are always
// computed; NorthNode and Lilith are optional minor points.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode
	Lilith
)

var planetNames = [...]string{
	"sun", "moon", "mercury", "venus", "mars", "jupiter",
	"saturn", "uranus", "neptune", "pluto", "north_node", "lilith",
}

// ClassicalPlanets returns the ten classical bodies in chart order.
func ClassicalPlanets() []Planet {
	return []Planet{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// MinorBodies returns the optional minor points.
func MinorBodies() []Planet {
	return []Planet{NorthNode, Lilith}
}

// Valid reports whether p is a known body.
func (p Planet) Valid() bool { return p >= Sun && p <= Lilith }

// IsMinor reports whether p is one of the optional minor points.
func (p Planet) IsMinor() bool { return p == NorthNode || p == Lilith }

func (p Planet) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Planet(%d)", int(p))
	}
	return planetNames[p]
}

// ParsePlanet converts a wire name ("sun", "north_node", ...) to a Planet.
func ParsePlanet(s string) (Planet, error) {
	for i, name := range planetNames {
		if name == s {
			return Planet(i), nil
		}
	}
	return 0, fmt.Errorf("unknown planet %q", s)
}

func (p Planet) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("marshal planet: invalid value %d", int(p))
	}
	return json.Marshal(p.String())
}

func (p *Planet) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePlanet(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
