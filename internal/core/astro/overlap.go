package astro

import (
	"fmt"
	"strings"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// NearbyFunc supplies named cities close to a point, nearest first. The
// engine stays free of I/O; callers wire this to whatever city data they
// hold. A nil func simply yields summaries without city annotations.
type NearbyFunc func(p domain.GeoPoint, limit int) []domain.CityRef

const (
	citiesPerAnchor  = 2
	maxCitiesPerGrp  = 5
	maxThemesPerDesc = 3
)

// TagOverlaps finds, for every (planet, line type) present in both the own
// and partner halves of a synastry line set, how close the two charts'
// corresponding lines run. Meridian lines (MC, IC) compare by longitude
// difference; horizon curves (ASC, DSC) by minimum curve-to-curve distance.
// The input lines pass through untouched; pairs are visited in canonical
// planet and line-type order so the overlap list is deterministic.
func TagOverlaps(lines []domain.AstroLine, th Thresholds) ([]domain.AstroLine, []domain.SynastryOverlap) {
	type key struct {
		planet domain.Planet
		line   domain.LineType
	}
	own := make(map[key]domain.AstroLine)
	partner := make(map[key]domain.AstroLine)
	for _, l := range lines {
		k := key{l.Planet, l.Type}
		switch l.Source {
		case domain.SourceOwn:
			own[k] = l
		case domain.SourcePartner:
			partner[k] = l
		}
	}

	var overlaps []domain.SynastryOverlap
	planets := append(domain.ClassicalPlanets(), domain.MinorBodies()...)
	for _, p := range planets {
		for _, lt := range domain.LineTypes() {
			k := key{p, lt}
			a, okA := own[k]
			b, okB := partner[k]
			if !okA || !okB || len(a.Points) == 0 || len(b.Points) == 0 {
				continue
			}

			var proximity float64
			var anchor domain.GeoPoint
			if lt.IsMeridian() {
				proximity, anchor = meridianProximity(a.Points[0].Lon, b.Points[0].Lon)
			} else {
				proximity, anchor = curveProximity(a.Points, b.Points)
			}

			sentA := Classify(a.Planet, a.Type).Sentiment
			sentB := Classify(b.Planet, b.Type).Sentiment
			overlaps = append(overlaps, domain.SynastryOverlap{
				Planet:    p,
				Type:      lt,
				Kind:      ClassifyOverlap(proximity, sentA, sentB, th),
				Proximity: proximity,
				Anchor:    anchor,
			})
		}
	}
	return lines, overlaps
}

// meridianProximity compares two fixed-longitude lines. The anchor sits on
// the equator halfway between them along the shorter arc.
func meridianProximity(lonA, lonB float64) (float64, domain.GeoPoint) {
	d := angularSeparation(lonA, lonB)
	mid := wrap180(shorterArcMidpoint(lonA, lonB))
	return d, domain.GeoPoint{Lat: 0, Lon: mid}
}

// curveProximity is the symmetric minimum distance between two sampled
// curves, with the anchor at the closest sampled point. Checking both
// directions keeps the result identical when the charts swap sides.
func curveProximity(a, b []domain.GeoPoint) (float64, domain.GeoPoint) {
	dA, pA := nearestOnCurve(a, b)
	dB, pB := nearestOnCurve(b, a)
	if dA <= dB {
		return dA, pA
	}
	return dB, pB
}

// nearestOnCurve scans the query points against the other curve's segments
// and returns the smallest distance with the query point that produced it.
func nearestOnCurve(queries, curve []domain.GeoPoint) (float64, domain.GeoPoint) {
	best := -1.0
	var at domain.GeoPoint
	for _, q := range queries {
		d := distanceToLine(curve, q)
		if best < 0 || d < best {
			best = d
			at = q
		}
	}
	return best, at
}

// ClassifyOverlap maps an overlap's proximity and the two lines' sentiments
// onto the six relationship buckets. The table is symmetric in the two
// sentiments and total over every combination:
//
//	< tight      same sentiment          harmonious
//	             positive vs challenging challenging
//	             neutral + positive      slightly_positive
//	             neutral + challenging   slightly_challenging
//	< close      same sentiment          harmonious
//	             positive vs challenging tension
//	             neutral + positive      slightly_positive
//	             neutral + challenging   slightly_challenging
//	< far        any positive, no challenging   slightly_positive
//	             any challenging, no positive   slightly_challenging
//	             both neutral or mixed opposite neutral_overlap
//	>= far       neutral_overlap
//
// "Same sentiment" means the two charts reinforce the same theme at the
// same place, which reads as harmony even when that shared theme is itself
// a hard one.
func ClassifyOverlap(proximity float64, a, b domain.Sentiment, th Thresholds) domain.OverlapKind {
	switch {
	case proximity < th.Overlap.TightMax:
		return classifyNear(a, b, domain.ChallengingOverlap)
	case proximity < th.Overlap.CloseMax:
		return classifyNear(a, b, domain.Tension)
	case proximity < th.Overlap.FarMin:
		return classifyModerate(a, b)
	default:
		return domain.NeutralOverlap
	}
}

// classifyNear handles the two inner proximity rows, which differ only in
// how hard an opposite-sentiment clash reads.
func classifyNear(a, b domain.Sentiment, clash domain.OverlapKind) domain.OverlapKind {
	switch {
	case a == b:
		return domain.Harmonious
	case bothPresent(a, b, domain.Positive, domain.Challenging):
		return clash
	case a == domain.Positive || b == domain.Positive:
		return domain.SlightlyPositive
	default:
		return domain.SlightlyChallenging
	}
}

func classifyModerate(a, b domain.Sentiment) domain.OverlapKind {
	hasPos := a == domain.Positive || b == domain.Positive
	hasChall := a == domain.Challenging || b == domain.Challenging
	switch {
	case hasPos && !hasChall:
		return domain.SlightlyPositive
	case hasChall && !hasPos:
		return domain.SlightlyChallenging
	default:
		return domain.NeutralOverlap
	}
}

func bothPresent(a, b, x, y domain.Sentiment) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// GenerateBondSummary runs the full synastry pipeline for two birth
// profiles: positions, lines, overlaps, then a partition of the overlaps
// into the six buckets, each with a short description and nearby-city
// references resolved through the supplied collaborator.
func GenerateBondSummary(a, b domain.BirthProfile, includeMinor bool, resolution float64, th Thresholds, nearby NearbyFunc) (domain.BondSummary, error) {
	posA, err := Positions(a.Date, a.Time, a.Lon, includeMinor)
	if err != nil {
		return domain.BondSummary{}, fmt.Errorf("positions for %s: %w", a.Name, err)
	}
	gstA, err := SiderealTimeAt(a.Date, a.Time, a.Lon)
	if err != nil {
		return domain.BondSummary{}, fmt.Errorf("sidereal time for %s: %w", a.Name, err)
	}
	posB, err := Positions(b.Date, b.Time, b.Lon, includeMinor)
	if err != nil {
		return domain.BondSummary{}, fmt.Errorf("positions for %s: %w", b.Name, err)
	}
	gstB, err := SiderealTimeAt(b.Date, b.Time, b.Lon)
	if err != nil {
		return domain.BondSummary{}, fmt.Errorf("sidereal time for %s: %w", b.Name, err)
	}

	linesA := GenerateLines(posA, gstA, domain.SourceOwn, resolution)
	linesB := GenerateLines(posB, gstB, domain.SourcePartner, resolution)
	_, overlaps := TagOverlaps(SynastryPair(linesA, linesB), th)

	byKind := make(map[domain.OverlapKind][]domain.SynastryOverlap)
	for _, ov := range overlaps {
		byKind[ov.Kind] = append(byKind[ov.Kind], ov)
	}

	// All six groups are always emitted, empty ones included, so consumers
	// get a stable shape.
	kinds := domain.OverlapKinds()
	summary := domain.BondSummary{Groups: make([]domain.OverlapGroup, 0, len(kinds))}
	for _, kind := range kinds {
		group := byKind[kind]
		summary.Groups = append(summary.Groups, domain.OverlapGroup{
			Kind:         kind,
			Overlaps:     group,
			Description:  describeGroup(kind, group),
			NearbyCities: nearbyCities(group, nearby),
		})
	}
	return summary, nil
}

func nearbyCities(group []domain.SynastryOverlap, nearby NearbyFunc) []domain.CityRef {
	if nearby == nil {
		return nil
	}
	seen := make(map[string]bool)
	var cities []domain.CityRef
	for _, ov := range group {
		for _, c := range nearby(ov.Anchor, citiesPerAnchor) {
			id := c.Name + "|" + c.Country
			if seen[id] {
				continue
			}
			seen[id] = true
			cities = append(cities, c)
			if len(cities) == maxCitiesPerGrp {
				return cities
			}
		}
	}
	return cities
}

func describeGroup(kind domain.OverlapKind, group []domain.SynastryOverlap) string {
	if len(group) == 0 {
		return fmt.Sprintf("No %s crossings between these charts.", strings.ReplaceAll(kind.String(), "_", " "))
	}

	themes := make([]string, 0, maxThemesPerDesc)
	for _, ov := range group {
		if len(themes) == maxThemesPerDesc {
			break
		}
		themes = append(themes, fmt.Sprintf("%s %s", ov.Planet, ov.Type))
	}
	joined := strings.Join(themes, ", ")

	switch kind {
	case domain.Harmonious:
		return fmt.Sprintf("Both charts reinforce the same themes here: %s.", joined)
	case domain.SlightlyPositive:
		return fmt.Sprintf("Gently supportive crossings: %s.", joined)
	case domain.NeutralOverlap:
		return fmt.Sprintf("Shared territory without a strong pull: %s.", joined)
	case domain.Tension:
		return fmt.Sprintf("The charts pull in different directions around %s.", joined)
	case domain.SlightlyChallenging:
		return fmt.Sprintf("Mild friction worth watching: %s.", joined)
	case domain.ChallengingOverlap:
		return fmt.Sprintf("Strong opposing influences collide at %s.", joined)
	default:
		panic(fmt.Sprintf("describe group: unsupported overlap kind %d", int(kind)))
	}
}
