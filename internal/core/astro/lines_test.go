package astro

import (
	"math"
	"testing"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

func chartFixture(t *testing.T) ([]domain.PlanetPosition, domain.SiderealTime) {
	t.Helper()
	pos, err := Positions(date(1988, 10, 3), clock(14, 25), 2.35, false)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	gst, err := SiderealTimeAt(date(1988, 10, 3), clock(14, 25), 2.35)
	if err != nil {
		t.Fatalf("SiderealTimeAt: %v", err)
	}
	return pos, gst
}

func linesOf(lines []domain.AstroLine, p domain.Planet, lt domain.LineType) []domain.AstroLine {
	var out []domain.AstroLine
	for _, l := range lines {
		if l.Planet == p && l.Type == lt {
			out = append(out, l)
		}
	}
	return out
}

func TestGenerateLines_MCICExactlyOpposite(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)

	for _, p := range domain.ClassicalPlanets() {
		mc := linesOf(lines, p, domain.MC)
		ic := linesOf(lines, p, domain.IC)
		if len(mc) != 1 || len(ic) != 1 {
			t.Fatalf("%s: got %d MC and %d IC lines, want 1 each", p, len(mc), len(ic))
		}
		diff := wrap180(ic[0].Points[0].Lon - mc[0].Points[0].Lon)
		if !within(diff, 180, 1e-9) {
			t.Errorf("%s: IC - MC = %.12f, want exactly 180", p, diff)
		}
	}
}

func TestGenerateLines_MeridianShape(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)

	mc := linesOf(lines, domain.Sun, domain.MC)[0]
	if len(mc.Points) < 2 {
		t.Fatalf("MC line has %d points", len(mc.Points))
	}
	if mc.Points[0].Lat != -maxLineLat || mc.Points[len(mc.Points)-1].Lat != maxLineLat {
		t.Errorf("MC spans %.1f..%.1f, want %d..%d",
			mc.Points[0].Lat, mc.Points[len(mc.Points)-1].Lat, -maxLineLat, maxLineLat)
	}
	for i, pt := range mc.Points {
		if pt.Lon != mc.Points[0].Lon {
			t.Fatalf("MC point %d longitude %.6f differs from %.6f", i, pt.Lon, mc.Points[0].Lon)
		}
		if i > 0 && pt.Lat <= mc.Points[i-1].Lat {
			t.Fatalf("MC latitudes not strictly increasing at %d", i)
		}
	}
}

func TestGenerateLines_HorizonStaysInsideDeclinationBound(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)

	for _, p := range pos {
		bound := 90 - math.Abs(p.Declination)
		for _, lt := range []domain.LineType{domain.ASC, domain.DSC} {
			for _, line := range linesOf(lines, p.Planet, lt) {
				for _, pt := range line.Points {
					if math.Abs(pt.Lat) > bound+1e-9 {
						t.Fatalf("%s %s point at lat %.6f beyond 90-|dec| = %.6f", p.Planet, lt, pt.Lat, bound)
					}
				}
			}
		}
	}
}

func TestGenerateLines_HorizonSidesSplitByHourAngle(t *testing.T) {
	// With RA = GST = 0 the hour angle equals the longitude, so the rising
	// half must sit entirely west of the meridian and the setting half east.
	pos := []domain.PlanetPosition{{
		Planet: domain.Sun, RightAscension: 0, Declination: 20, DistanceAU: 1,
	}}
	lines := GenerateLines(pos, 0, domain.SourceOwn, 1)

	asc := linesOf(lines, domain.Sun, domain.ASC)
	dsc := linesOf(lines, domain.Sun, domain.DSC)
	if len(asc) != 1 || len(dsc) != 1 {
		t.Fatalf("got %d ASC and %d DSC lines, want 1 each", len(asc), len(dsc))
	}
	for _, pt := range asc[0].Points {
		if pt.Lon >= 0 {
			t.Fatalf("ASC point at lon %.2f, want all negative", pt.Lon)
		}
	}
	for _, pt := range dsc[0].Points {
		if pt.Lon <= 0 {
			t.Fatalf("DSC point at lon %.2f, want all positive", pt.Lon)
		}
	}

	// Where the hour angle is -90 the solution latitude is exactly 0.
	var found bool
	for _, pt := range asc[0].Points {
		if pt.Lon == -90 {
			found = true
			if !within(pt.Lat, 0, 1e-9) {
				t.Errorf("ASC at lon -90 has lat %.9f, want 0", pt.Lat)
			}
		}
	}
	if !found {
		t.Error("no ASC sample at lon -90 with resolution 1")
	}
}

func TestGenerateLines_DegenerateDeclinationsOmitHorizon(t *testing.T) {
	cases := []struct {
		name string
		dec  float64
	}{
		{"at north celestial pole", 89.9999999},
		{"at south celestial pole", -89.9999999},
		{"on celestial equator", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := []domain.PlanetPosition{{Planet: domain.Mars, RightAscension: 40, Declination: tc.dec, DistanceAU: 1.5}}
			lines := GenerateLines(pos, 10, domain.SourceOwn, 0)
			if got := len(lines); got != 2 {
				t.Fatalf("got %d lines, want meridians only (2)", got)
			}
			for _, l := range lines {
				if !l.Type.IsMeridian() {
					t.Errorf("unexpected %s line for degenerate declination", l.Type)
				}
			}
		})
	}
}

func TestGenerateLines_IDsCarrySourceTag(t *testing.T) {
	pos := []domain.PlanetPosition{{Planet: domain.Venus, RightAscension: 100, Declination: -12, DistanceAU: 0.7}}
	lines := GenerateLines(pos, 0, domain.SourceComposite, 0)
	want := map[string]bool{
		"venus-mc-composite":  true,
		"venus-ic-composite":  true,
		"venus-asc-composite": true,
		"venus-dsc-composite": true,
	}
	for _, l := range lines {
		if !want[l.ID] {
			t.Errorf("unexpected line ID %q", l.ID)
		}
		delete(want, l.ID)
		if l.Source != domain.SourceComposite {
			t.Errorf("line %q source = %s, want composite", l.ID, l.Source)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing line IDs: %v", want)
	}
}

func TestGenerateLines_StrengthWeights(t *testing.T) {
	pos, gst := chartFixture(t)
	lines := GenerateLines(pos, gst, domain.SourceOwn, 0)
	wants := map[domain.Planet]float64{
		domain.Sun:     1.0,
		domain.Moon:    1.0,
		domain.Jupiter: 0.95,
		domain.Mercury: 0.85,
		domain.Neptune: 0.8,
	}
	for p, want := range wants {
		for _, l := range linesOf(lines, p, domain.MC) {
			if l.Strength != want {
				t.Errorf("%s strength = %.2f, want %.2f", p, l.Strength, want)
			}
		}
	}
}

func TestGenerateLines_ResolutionControlsDensity(t *testing.T) {
	pos, gst := chartFixture(t)
	coarse := linesOf(GenerateLines(pos, gst, domain.SourceOwn, 0.5), domain.Sun, domain.MC)[0]
	fine := linesOf(GenerateLines(pos, gst, domain.SourceOwn, 2), domain.Sun, domain.MC)[0]
	if len(fine.Points) <= len(coarse.Points) {
		t.Errorf("resolution 2 gave %d points, resolution 0.5 gave %d; want more at higher resolution",
			len(fine.Points), len(coarse.Points))
	}
}

func TestVisible_Filters(t *testing.T) {
	pos, gst := chartFixture(t)
	all := GenerateLines(pos, gst, domain.SourceOwn, 0)
	total := len(all)

	sunOnly := Visible(all, LineFilter{Planets: []domain.Planet{domain.Sun}})
	for _, l := range sunOnly {
		if l.Planet != domain.Sun {
			t.Errorf("planet filter leaked %s", l.Planet)
		}
	}
	if len(sunOnly) == 0 || len(sunOnly) >= total {
		t.Errorf("sun filter kept %d of %d lines", len(sunOnly), total)
	}

	meridians := Visible(all, LineFilter{Types: []domain.LineType{domain.MC, domain.IC}})
	for _, l := range meridians {
		if !l.Type.IsMeridian() {
			t.Errorf("type filter leaked %s", l.Type)
		}
	}

	strong := Visible(all, LineFilter{MinStrength: 0.99})
	for _, l := range strong {
		if l.Planet != domain.Sun && l.Planet != domain.Moon {
			t.Errorf("strength filter kept %s at %.2f", l.Planet, l.Strength)
		}
	}

	everything := Visible(all, LineFilter{})
	if len(everything) != total {
		t.Errorf("empty filter kept %d of %d lines", len(everything), total)
	}
	if len(all) != total {
		t.Error("Visible mutated its input")
	}
}
