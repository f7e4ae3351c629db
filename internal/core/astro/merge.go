package astro

import (
	"fmt"
	"strings"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// Composite builds the midpoint chart of two position sets. Angular fields
// (ecliptic longitude, right ascension, sidereal time) take the midpoint of
// the shorter arc between the two values, so 359° and 1° meet at 0° rather
// than 180°; latitude, declination and distance take the plain mean.
// Planets present in only one input are skipped. Two identical charts
// composite to themselves exactly.
func Composite(posA []domain.PlanetPosition, gstA domain.SiderealTime, posB []domain.PlanetPosition, gstB domain.SiderealTime) ([]domain.PlanetPosition, domain.SiderealTime) {
	byPlanet := make(map[domain.Planet]domain.PlanetPosition, len(posB))
	for _, p := range posB {
		byPlanet[p.Planet] = p
	}

	merged := make([]domain.PlanetPosition, 0, len(posA))
	for _, a := range posA {
		b, ok := byPlanet[a.Planet]
		if !ok {
			continue
		}
		merged = append(merged, domain.PlanetPosition{
			Planet:         a.Planet,
			EclipticLon:    shorterArcMidpoint(a.EclipticLon, b.EclipticLon),
			EclipticLat:    (a.EclipticLat + b.EclipticLat) / 2,
			RightAscension: shorterArcMidpoint(a.RightAscension, b.RightAscension),
			Declination:    (a.Declination + b.Declination) / 2,
			DistanceAU:     (a.DistanceAU + b.DistanceAU) / 2,
		})
	}

	gst := domain.SiderealTime(shorterArcMidpoint(float64(gstA), float64(gstB)))
	return merged, gst
}

// SynastryPair overlays two charts' lines on one map without merging any
// geometry: A's lines are retagged as own, B's as partner, and the two
// sets are concatenated. IDs are rebuilt so the tag stays part of the key.
func SynastryPair(linesA, linesB []domain.AstroLine) []domain.AstroLine {
	out := make([]domain.AstroLine, 0, len(linesA)+len(linesB))
	out = append(out, retag(linesA, domain.SourceOwn)...)
	out = append(out, retag(linesB, domain.SourcePartner)...)
	return out
}

func retag(lines []domain.AstroLine, source domain.SourceTag) []domain.AstroLine {
	out := make([]domain.AstroLine, len(lines))
	for i, line := range lines {
		line.Source = source
		line.ID = fmt.Sprintf("%s-%s-%s", line.Planet, strings.ToLower(line.Type.String()), source)
		out[i] = line
	}
	return out
}
