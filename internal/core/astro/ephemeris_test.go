package astro

import (
	"errors"
	"math"
	"testing"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

func date(y, m, d int) domain.CivilDate  { return domain.CivilDate{Year: y, Month: m, Day: d} }
func clock(h, min int) domain.CivilTime  { return domain.CivilTime{Hour: h, Minute: min} }
func within(got, want, tol float64) bool { return math.Abs(got-want) <= tol }

func TestSiderealTimeAt_ReferenceValue(t *testing.T) {
	// 1987-04-10 00:00 UT is the classic worked example: 197.693195 deg.
	gst, err := SiderealTimeAt(date(1987, 4, 10), clock(0, 0), 0)
	if err != nil {
		t.Fatalf("SiderealTimeAt: %v", err)
	}
	if !within(float64(gst), 197.693195, 0.0001) {
		t.Errorf("GST = %.6f, want 197.693195", float64(gst))
	}
}

func TestSiderealTimeAt_J2000Epoch(t *testing.T) {
	gst, err := SiderealTimeAt(date(2000, 1, 1), clock(12, 0), 0)
	if err != nil {
		t.Fatalf("SiderealTimeAt: %v", err)
	}
	if !within(float64(gst), 280.46061837, 1e-9) {
		t.Errorf("GST at epoch = %.9f, want 280.46061837", float64(gst))
	}
}

func TestSiderealTimeAt_ReferenceLongitudeShiftsInstant(t *testing.T) {
	// 13:00 local mean time at 15 deg east is the same instant as 12:00 UTC.
	atGreenwich, err := SiderealTimeAt(date(2020, 3, 20), clock(12, 0), 0)
	if err != nil {
		t.Fatalf("SiderealTimeAt: %v", err)
	}
	atEast, err := SiderealTimeAt(date(2020, 3, 20), clock(13, 0), 15)
	if err != nil {
		t.Fatalf("SiderealTimeAt: %v", err)
	}
	if atGreenwich != atEast {
		t.Errorf("same instant through different reference longitudes: %.9f != %.9f", atGreenwich, atEast)
	}

	sameClockEast, err := SiderealTimeAt(date(2020, 3, 20), clock(12, 0), 15)
	if err != nil {
		t.Fatalf("SiderealTimeAt: %v", err)
	}
	if atGreenwich == sameClockEast {
		t.Error("12:00 at Greenwich and 12:00 at 15E are different instants but matched")
	}
}

func TestPositions_SunLongitude(t *testing.T) {
	// True solar longitude for 1990-01-01 12:00 UTC, equinox of date.
	pos, err := Positions(date(1990, 1, 1), clock(12, 0), 0, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	sun := findBody(t, pos, domain.Sun)
	if !within(sun.EclipticLon, 280.818, 0.15) {
		t.Errorf("Sun longitude = %.4f, want 280.818 within 0.15", sun.EclipticLon)
	}
	if !within(sun.EclipticLat, 0, 0.01) {
		t.Errorf("Sun latitude = %.4f, want ~0", sun.EclipticLat)
	}
	if sun.DistanceAU < 0.98 || sun.DistanceAU > 1.02 {
		t.Errorf("Sun distance = %.5f AU, want ~1", sun.DistanceAU)
	}
}

func TestPositions_MoonAgainstWorkedExample(t *testing.T) {
	// 1992-04-12 00:00: lon 133.1627, lat -3.2291 (geometric, of date).
	// The truncated series is good to a few hundredths of a degree.
	pos, err := Positions(date(1992, 4, 12), clock(0, 0), 0, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	moon := findBody(t, pos, domain.Moon)
	if !within(moon.EclipticLon, 133.1627, 0.3) {
		t.Errorf("Moon longitude = %.4f, want 133.1627 within 0.3", moon.EclipticLon)
	}
	if !within(moon.EclipticLat, -3.2291, 0.1) {
		t.Errorf("Moon latitude = %.4f, want -3.2291 within 0.1", moon.EclipticLat)
	}
	if moon.DistanceAU < 0.00238 || moon.DistanceAU > 0.00272 {
		t.Errorf("Moon distance = %.6f AU, outside the lunar range", moon.DistanceAU)
	}
}

func TestPositions_Deterministic(t *testing.T) {
	first, err := Positions(date(1984, 11, 5), clock(7, 42), -73.97, true)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	second, err := Positions(date(1984, 11, 5), clock(7, 42), -73.97, true)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d differs between identical calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPositions_LocalMeanTimeConvention(t *testing.T) {
	// 12:00 at Greenwich, 18:00 at 90E and 06:00 at 90W name one instant,
	// so the positions must be bit-identical.
	base, err := Positions(date(2010, 7, 1), clock(12, 0), 0, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	east, err := Positions(date(2010, 7, 1), clock(18, 0), 90, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	west, err := Positions(date(2010, 7, 1), clock(6, 0), -90, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	for i := range base {
		if base[i] != east[i] {
			t.Errorf("body %s: Greenwich noon != 18:00 at 90E", base[i].Planet)
		}
		if base[i] != west[i] {
			t.Errorf("body %s: Greenwich noon != 06:00 at 90W", base[i].Planet)
		}
	}
}

func TestPositions_BodySet(t *testing.T) {
	classical, err := Positions(date(2000, 6, 1), clock(0, 0), 0, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(classical) != 10 {
		t.Fatalf("classical set has %d bodies, want 10", len(classical))
	}
	for i, want := range domain.ClassicalPlanets() {
		if classical[i].Planet != want {
			t.Errorf("body %d = %s, want %s", i, classical[i].Planet, want)
		}
	}

	withMinor, err := Positions(date(2000, 6, 1), clock(0, 0), 0, true)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(withMinor) != 12 {
		t.Fatalf("extended set has %d bodies, want 12", len(withMinor))
	}
	node := findBody(t, withMinor, domain.NorthNode)
	lilith := findBody(t, withMinor, domain.Lilith)
	if node.EclipticLat != 0 || lilith.EclipticLat != 0 {
		t.Error("node and apogee are ecliptic loci and must sit at latitude 0")
	}
}

func TestPositions_CoordinateRanges(t *testing.T) {
	instants := []struct {
		d domain.CivilDate
		c domain.CivilTime
	}{
		{date(1900, 6, 15), clock(3, 30)},
		{date(1975, 3, 20), clock(23, 59)},
		{date(2024, 12, 31), clock(0, 0)},
	}
	for _, in := range instants {
		pos, err := Positions(in.d, in.c, 0, true)
		if err != nil {
			t.Fatalf("Positions(%s): %v", in.d, err)
		}
		for _, p := range pos {
			if p.EclipticLon < 0 || p.EclipticLon >= 360 {
				t.Errorf("%s %s: longitude %.4f out of [0,360)", in.d, p.Planet, p.EclipticLon)
			}
			if p.RightAscension < 0 || p.RightAscension >= 360 {
				t.Errorf("%s %s: RA %.4f out of [0,360)", in.d, p.Planet, p.RightAscension)
			}
			if math.Abs(p.Declination) > 90 {
				t.Errorf("%s %s: declination %.4f out of range", in.d, p.Planet, p.Declination)
			}
			if p.DistanceAU <= 0 {
				t.Errorf("%s %s: non-positive distance %.6f", in.d, p.Planet, p.DistanceAU)
			}
		}
	}
}

func TestPositions_NodeRegressesApogeeAdvances(t *testing.T) {
	earlier, err := Positions(date(2005, 6, 1), clock(0, 0), 0, true)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	later, err := Positions(date(2005, 9, 1), clock(0, 0), 0, true)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}

	nodeDelta := wrap180(findBody(t, later, domain.NorthNode).EclipticLon - findBody(t, earlier, domain.NorthNode).EclipticLon)
	if nodeDelta >= 0 {
		t.Errorf("mean node moved %+.4f over three months, want retrograde", nodeDelta)
	}
	apogeeDelta := wrap180(findBody(t, later, domain.Lilith).EclipticLon - findBody(t, earlier, domain.Lilith).EclipticLon)
	if apogeeDelta <= 0 {
		t.Errorf("mean apogee moved %+.4f over three months, want direct", apogeeDelta)
	}
}

func TestPositions_InvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		d      domain.CivilDate
		c      domain.CivilTime
		refLon float64
	}{
		{"feb 30", date(2001, 2, 30), clock(0, 0), 0},
		{"month 13", date(2001, 13, 1), clock(0, 0), 0},
		{"nonleap feb 29", date(1900, 2, 29), clock(0, 0), 0},
		{"hour 24", date(2001, 5, 1), clock(24, 0), 0},
		{"minute 60", date(2001, 5, 1), clock(12, 60), 0},
		{"longitude 181", date(2001, 5, 1), clock(12, 0), 181},
		{"longitude -200", date(2001, 5, 1), clock(12, 0), -200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Positions(tc.d, tc.c, tc.refLon, false); !errors.Is(err, domain.ErrInvalidBirthData) {
				t.Errorf("Positions(%s %s lon %.1f) err = %v, want ErrInvalidBirthData", tc.d, tc.c, tc.refLon, err)
			}
			if _, err := SiderealTimeAt(tc.d, tc.c, tc.refLon); !errors.Is(err, domain.ErrInvalidBirthData) {
				t.Errorf("SiderealTimeAt(%s %s lon %.1f) err = %v, want ErrInvalidBirthData", tc.d, tc.c, tc.refLon, err)
			}
		})
	}

	// Leap day on an actual leap year is fine.
	if _, err := Positions(date(2024, 2, 29), clock(12, 0), 0, false); err != nil {
		t.Errorf("Positions rejected 2024-02-29: %v", err)
	}
}

func findBody(t *testing.T, pos []domain.PlanetPosition, p domain.Planet) domain.PlanetPosition {
	t.Helper()
	for _, pp := range pos {
		if pp.Planet == p {
			return pp
		}
	}
	t.Fatalf("no %s in position set", p)
	return domain.PlanetPosition{}
}
