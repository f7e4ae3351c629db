package geospatial

import (
	"math"
	"testing"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"paris to london", 48.8566, 2.3522, 51.5074, -0.1278, 344, 5},
		{"one degree on the equator", 0, 0, 0, 1, 111.2, 0.5},
		{"same point", 40, -70, 40, -70, 0, 1e-9},
		{"across the antimeridian", 0, 179.5, 0, -179.5, 111.2, 0.5},
	}
	for _, tc := range cases {
		got := HaversineKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if math.Abs(got-tc.wantKm) > tc.tolKm {
			t.Errorf("%s: %.2f km, want %.2f within %.2f", tc.name, got, tc.wantKm, tc.tolKm)
		}
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(48.8566, 2.3522, 50000)
	if minLat >= 48.8566 || maxLat <= 48.8566 || minLon >= 2.3522 || maxLon <= 2.3522 {
		t.Fatalf("box [%f %f %f %f] does not straddle its center", minLat, minLon, maxLat, maxLon)
	}
	// The box must reach roughly 50 km in every cardinal direction.
	if d := HaversineKm(48.8566, 2.3522, maxLat, 2.3522); d < 49.5 || d > 50.5 {
		t.Errorf("north edge %.1f km away, want ~50", d)
	}
	if d := HaversineKm(48.8566, 2.3522, 48.8566, maxLon); d < 49.5 || d > 50.5 {
		t.Errorf("east edge %.1f km away, want ~50", d)
	}
}
