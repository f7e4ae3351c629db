package astro

import (
	"math"
	"sort"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// NearestLines ranks every line by its angular distance from the query
// point, nearest first, keeping at most maxResults entries (<= 0 keeps
// all). Distance is measured in degrees of arc on a local equirectangular
// plane around the query point, so a result of 0 means the point sits
// exactly on the line. Ties break on line ID to keep the order
// deterministic.
func NearestLines(lines []domain.AstroLine, point domain.GeoPoint, maxResults int, th Thresholds) []domain.NearestLineResult {
	results := make([]domain.NearestLineResult, 0, len(lines))
	for _, line := range lines {
		d := distanceToLine(line.Points, point)
		if math.IsInf(d, 1) {
			continue
		}
		results = append(results, domain.NearestLineResult{
			Line:     line,
			Distance: d,
			Band:     th.band(d),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Line.ID < results[j].Line.ID
	})
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// FilterByImpact returns the results worth surfacing. With hideMild set,
// lines in the weak band are dropped; otherwise the input is copied
// unchanged. The input slice is never mutated.
func FilterByImpact(results []domain.NearestLineResult, hideMild bool) []domain.NearestLineResult {
	out := make([]domain.NearestLineResult, 0, len(results))
	for _, r := range results {
		if hideMild && r.Band == domain.Weak {
			continue
		}
		out = append(out, r)
	}
	return out
}

// distanceToLine is the minimum over the polyline's segments. A line with
// fewer than two points still yields its vertex distances; an empty line
// yields +Inf so callers can drop it.
func distanceToLine(points []domain.GeoPoint, q domain.GeoPoint) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	if len(points) == 1 {
		x, y := project(points[0], q)
		return math.Hypot(x, y)
	}
	min := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		d := segmentDistance(points[i], points[i+1], q)
		if d < min {
			min = d
		}
	}
	return min
}

// segmentDistance measures from q to the segment (a, b) on a plane
// centered at q, with longitude differences wrapped across the
// antimeridian and scaled by cos(q.Lat) so east-west degrees shrink
// toward the poles the way real meridian spacing does.
func segmentDistance(a, b, q domain.GeoPoint) float64 {
	ax, ay := project(a, q)
	bx, by := project(b, q)

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(ax, ay)
	}

	// Project the origin (the query point) onto the segment, clamped to it.
	t := -(ax*dx + ay*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(ax+t*dx, ay+t*dy)
}

// project maps p into the local plane around q, in degrees.
func project(p, q domain.GeoPoint) (x, y float64) {
	x = wrap180(p.Lon-q.Lon) * cosd(q.Lat)
	y = p.Lat - q.Lat
	return x, y
}
