package astro

import (
	"fmt"
	"math"
	"strings"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

const (
	// DefaultResolution is the sampling density along longitude, points per
	// degree. Coarser sampling trades curve smoothness for smaller output.
	DefaultResolution = 0.5

	// MaxResolution caps pathological sampling requests.
	MaxResolution = 10

	// maxLineLat bounds meridian rendering short of the poles, where the
	// equirectangular distance model degenerates.
	maxLineLat = 89

	// poleEpsilon: a declination this close to ±90° (or to 0°, where the
	// horizon crossing degenerates into fixed meridians) has no well-formed
	// ASC/DSC solution; those curves are omitted rather than corrupted.
	poleEpsilon = 1e-6
)

// LineFilter selects the currently visible subset of a chart's lines. Zero
// fields mean "no restriction".
type LineFilter struct {
	Planets     []domain.Planet   `json:"planets,omitempty"`
	Types       []domain.LineType `json:"types,omitempty"`
	MinStrength float64           `json:"min_strength,omitempty"`
}

// GenerateLines projects the four angularity lines of every position onto
// the globe. The MC line is the meridian where local sidereal time equals
// the planet's right ascension; IC is that meridian + 180°, derived rather
// than recomputed so the two are exactly 180° apart. ASC and DSC sweep
// longitude at the given resolution (points per degree; <= 0 selects
// DefaultResolution) and solve the zero-altitude latitude at each step,
// omitting longitudes with no real solution so the curves terminate
// naturally instead of wrapping.
func GenerateLines(positions []domain.PlanetPosition, gst domain.SiderealTime, source domain.SourceTag, resolution float64) []domain.AstroLine {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	if resolution > MaxResolution {
		resolution = MaxResolution
	}
	step := 1 / resolution

	lines := make([]domain.AstroLine, 0, len(positions)*4)
	for _, pos := range positions {
		mcLon := wrap180(pos.RightAscension - float64(gst))
		icLon := wrap180(mcLon + 180)

		lines = append(lines,
			makeLine(pos.Planet, domain.MC, source, meridianPoints(mcLon, step)),
			makeLine(pos.Planet, domain.IC, source, meridianPoints(icLon, step)),
		)

		asc, dsc := horizonPoints(pos, float64(gst), step)
		if len(asc) > 0 {
			lines = append(lines, makeLine(pos.Planet, domain.ASC, source, asc))
		}
		if len(dsc) > 0 {
			lines = append(lines, makeLine(pos.Planet, domain.DSC, source, dsc))
		}
	}
	return lines
}

func makeLine(p domain.Planet, lt domain.LineType, source domain.SourceTag, points []domain.GeoPoint) domain.AstroLine {
	return domain.AstroLine{
		ID:       fmt.Sprintf("%s-%s-%s", p, strings.ToLower(lt.String()), source),
		Planet:   p,
		Type:     lt,
		Points:   points,
		Source:   source,
		Strength: planetStrength(p),
	}
}

// meridianPoints renders a pole-to-pole meridian at a fixed longitude.
func meridianPoints(lon, step float64) []domain.GeoPoint {
	points := make([]domain.GeoPoint, 0, int(2*maxLineLat/step)+1)
	for lat := -float64(maxLineLat); lat <= maxLineLat; lat += step {
		points = append(points, domain.GeoPoint{Lat: lat, Lon: lon})
	}
	return points
}

// horizonPoints sweeps longitude across the full range and solves, per
// step, the latitude where the planet's altitude is exactly zero. The local
// hour angle H = GST + lon - RA decides the side: H in (-180, 0) is the
// rising half (ASC), H in (0, 180) the setting half (DSC). The solution
// lat = atan(-cos H / tan dec) stays inside |lat| <= 90-|dec|; the H = 0 and
// H = ±180 boundaries, where that bound is reached, carry no real crossing
// and are omitted.
func horizonPoints(pos domain.PlanetPosition, gst, step float64) (asc, dsc []domain.GeoPoint) {
	dec := pos.Declination
	if math.Abs(dec) >= 90-poleEpsilon || math.Abs(dec) <= poleEpsilon {
		return nil, nil
	}

	for lon := -180.0; lon < 180; lon += step {
		h := wrap180(gst + lon - pos.RightAscension)
		if math.Abs(h) <= poleEpsilon || math.Abs(h) >= 180-poleEpsilon {
			continue
		}

		lat := atand(-cosd(h) / tand(dec))
		point := domain.GeoPoint{Lat: lat, Lon: lon}
		if h < 0 {
			asc = append(asc, point)
		} else {
			dsc = append(dsc, point)
		}
	}
	return asc, dsc
}

// Visible returns the lines passing the filter. The input slice is never
// mutated; callers keep "all lines" and derive "currently visible lines"
// explicitly instead of flagging geometry as hidden.
func Visible(lines []domain.AstroLine, f LineFilter) []domain.AstroLine {
	out := make([]domain.AstroLine, 0, len(lines))
	for _, line := range lines {
		if len(f.Planets) > 0 && !containsPlanet(f.Planets, line.Planet) {
			continue
		}
		if len(f.Types) > 0 && !containsLineType(f.Types, line.Type) {
			continue
		}
		if line.Strength < f.MinStrength {
			continue
		}
		out = append(out, line)
	}
	return out
}

func containsPlanet(set []domain.Planet, p domain.Planet) bool {
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}

func containsLineType(set []domain.LineType, lt domain.LineType) bool {
	for _, s := range set {
		if s == lt {
			return true
		}
	}
	return false
}

// planetStrength is the display weight of a body's lines.
func planetStrength(p domain.Planet) float64 {
	switch p {
	case domain.Sun, domain.Moon:
		return 1.0
	case domain.Jupiter, domain.Saturn:
		return 0.95
	case domain.Venus, domain.Mars:
		return 0.9
	case domain.Mercury, domain.Pluto:
		return 0.85
	case domain.Uranus, domain.Neptune:
		return 0.8
	case domain.NorthNode:
		return 0.7
	case domain.Lilith:
		return 0.65
	default:
		panic(fmt.Sprintf("planet strength: unsupported planet %d", int(p)))
	}
}
