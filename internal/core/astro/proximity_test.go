package astro

import (
	"testing"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

func testMeridian(id string, lon float64) domain.AstroLine {
	var pts []domain.GeoPoint
	for lat := -89.0; lat <= 89; lat += 2 {
		pts = append(pts, domain.GeoPoint{Lat: lat, Lon: lon})
	}
	return domain.AstroLine{ID: id, Planet: domain.Sun, Type: domain.MC, Points: pts, Source: domain.SourceOwn, Strength: 1}
}

func TestNearestLines_SortedAscending(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)

	results := NearestLines(lines, domain.GeoPoint{Lat: 48.86, Lon: 2.35}, 0, DefaultThresholds())
	if len(results) != len(lines) {
		t.Fatalf("got %d results for %d lines", len(results), len(lines))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Fatalf("results out of order at %d: %.4f after %.4f", i, results[i].Distance, results[i-1].Distance)
		}
	}
}

func TestNearestLines_PointOnLineScoresZero(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)
	mc := linesOf(lines, domain.Jupiter, domain.MC)[0]
	onLine := mc.Points[len(mc.Points)/2]

	results := NearestLines(lines, onLine, 0, DefaultThresholds())
	first := results[0]
	if first.Distance != 0 {
		t.Fatalf("nearest distance = %v, want exactly 0", first.Distance)
	}
	if first.Band != domain.VeryStrong {
		t.Errorf("band on the line = %s, want very_strong", first.Band)
	}

	var zeroIDs []string
	for _, r := range results {
		if r.Distance == 0 {
			zeroIDs = append(zeroIDs, r.Line.ID)
		}
	}
	found := false
	for _, id := range zeroIDs {
		if id == mc.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("line %q not among zero-distance results %v", mc.ID, zeroIDs)
	}
}

func TestNearestLines_MaxResultsTruncates(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)
	point := domain.GeoPoint{Lat: -33.87, Lon: 151.21}

	all := NearestLines(lines, point, 0, DefaultThresholds())
	top := NearestLines(lines, point, 3, DefaultThresholds())
	if len(top) != 3 {
		t.Fatalf("maxResults 3 returned %d results", len(top))
	}
	for i := range top {
		if top[i].Line.ID != all[i].Line.ID || top[i].Distance != all[i].Distance {
			t.Errorf("truncated result %d differs from full ranking", i)
		}
	}
}

func TestNearestLines_BandsFollowThresholds(t *testing.T) {
	line := testMeridian("sun-mc-own", 0)
	th := DefaultThresholds()
	cases := []struct {
		lon  float64
		want domain.InfluenceBand
	}{
		{1, domain.VeryStrong},
		{3, domain.Strong},
		{7, domain.Moderate},
		{30, domain.Weak},
	}
	for _, tc := range cases {
		results := NearestLines([]domain.AstroLine{line}, domain.GeoPoint{Lat: 0, Lon: tc.lon}, 0, th)
		if len(results) != 1 {
			t.Fatalf("lon %.0f: got %d results", tc.lon, len(results))
		}
		if !within(results[0].Distance, tc.lon, 1e-9) {
			t.Errorf("lon %.0f: distance = %.6f", tc.lon, results[0].Distance)
		}
		if results[0].Band != tc.want {
			t.Errorf("lon %.0f: band = %s, want %s", tc.lon, results[0].Band, tc.want)
		}
	}
}

func TestNearestLines_WrapsAntimeridian(t *testing.T) {
	line := testMeridian("sun-mc-own", 179.5)
	results := NearestLines([]domain.AstroLine{line}, domain.GeoPoint{Lat: 0, Lon: -179.5}, 0, DefaultThresholds())
	if !within(results[0].Distance, 1, 1e-9) {
		t.Errorf("distance across the antimeridian = %.6f, want 1", results[0].Distance)
	}
	if results[0].Band != domain.VeryStrong {
		t.Errorf("band = %s, want very_strong", results[0].Band)
	}
}

func TestNearestLines_ScalesLongitudeByLatitude(t *testing.T) {
	// 8 degrees of longitude at latitude 60 span only 4 degrees of arc.
	line := testMeridian("sun-mc-own", 0)
	results := NearestLines([]domain.AstroLine{line}, domain.GeoPoint{Lat: 60, Lon: 8}, 0, DefaultThresholds())
	if !within(results[0].Distance, 4, 1e-9) {
		t.Errorf("distance at lat 60 = %.6f, want 4", results[0].Distance)
	}
	if results[0].Band != domain.Strong {
		t.Errorf("band = %s, want strong", results[0].Band)
	}
}

func TestNearestLines_SkipsEmptyLines(t *testing.T) {
	lines := []domain.AstroLine{{ID: "sun-asc-own", Planet: domain.Sun, Type: domain.ASC}}
	if results := NearestLines(lines, domain.GeoPoint{}, 0, DefaultThresholds()); len(results) != 0 {
		t.Errorf("pointless line produced %d results", len(results))
	}
}

func TestFilterByImpact(t *testing.T) {
	lines := []domain.AstroLine{
		testMeridian("sun-mc-own", 1),
		testMeridian("moon-mc-own", 8),
		testMeridian("mars-mc-own", 50),
	}
	results := NearestLines(lines, domain.GeoPoint{Lat: 0, Lon: 0}, 0, DefaultThresholds())

	kept := FilterByImpact(results, true)
	for _, r := range kept {
		if r.Band == domain.Weak {
			t.Errorf("hideMild kept weak line %q", r.Line.ID)
		}
	}
	if len(kept) != 2 {
		t.Errorf("hideMild kept %d results, want 2", len(kept))
	}

	all := FilterByImpact(results, false)
	if len(all) != len(results) {
		t.Errorf("hideMild=false dropped results: %d of %d", len(all), len(results))
	}
	if len(results) != 3 {
		t.Error("FilterByImpact mutated its input")
	}
}
