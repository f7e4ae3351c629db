package astro

import (
	"fmt"
	"math"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

const (
	// j2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 UT).
	j2000 = 2451545.0

	kmPerAU = 149597870.7

	// Nominal geocentric distances for the computed lunar points, which are
	// orbital loci rather than physical bodies.
	nodeDistanceAU   = 0.00257
	apogeeDistanceAU = 0.00271
)

// Positions computes geocentric ecliptic and equatorial coordinates of date
// for every charted body at the given civil instant. The civil time is
// interpreted as Local Mean Time at refLon (east-positive degrees); refLon 0
// means UTC. When includeMinor is set, NorthNode and Lilith are appended
// after the ten classical bodies.
//
// The function is pure and self-contained: positions come from low-order
// mean-element series, with no ephemeris files and no shared state.
func Positions(date domain.CivilDate, t domain.CivilTime, refLon float64, includeMinor bool) ([]domain.PlanetPosition, error) {
	if err := validateInstant(date, t, refLon); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return positionsAtJD(julianDay(date, t, refLon), includeMinor), nil
}

// SiderealTimeAt computes Greenwich sidereal time, in degrees [0, 360), for
// the given civil instant. refLon only affects how the civil time maps to
// UTC; the returned angle is always referred to the Greenwich meridian.
func SiderealTimeAt(date domain.CivilDate, t domain.CivilTime, refLon float64) (domain.SiderealTime, error) {
	if err := validateInstant(date, t, refLon); err != nil {
		return 0, fmt.Errorf("sidereal time: %w", err)
	}
	return siderealAtJD(julianDay(date, t, refLon)), nil
}

func validateInstant(date domain.CivilDate, t domain.CivilTime, refLon float64) error {
	if err := date.Validate(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if refLon < -180 || refLon > 180 {
		return fmt.Errorf("reference longitude %.4f out of range -180..180: %w", refLon, domain.ErrInvalidBirthData)
	}
	return nil
}

// julianDay converts a civil instant to a Julian Day on the proleptic
// Gregorian calendar. The LMT convention is applied here: UTC hours are the
// civil hours minus refLon/15.
func julianDay(date domain.CivilDate, t domain.CivilTime, refLon float64) float64 {
	utcHours := float64(t.Hour) + float64(t.Minute)/60 - refLon/15

	y, m := date.Year, date.Month
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4

	day := float64(date.Day) + utcHours/24
	return math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + day + float64(b) - 1524.5
}

// centuries returns Julian centuries since J2000.0.
func centuries(jd float64) float64 { return (jd - j2000) / 36525 }

// siderealAtJD evaluates the standard GST polynomial.
func siderealAtJD(jd float64) domain.SiderealTime {
	t := centuries(jd)
	theta := 280.46061837 + 360.98564736629*(jd-j2000) + 0.000387933*t*t - t*t*t/38710000
	return domain.SiderealTime(wrap360(theta))
}

// obliquity returns the mean obliquity of the ecliptic, degrees.
func obliquity(t float64) float64 {
	return 23.439291111 - 0.013004167*t - 1.638889e-7*t*t + 5.036111e-7*t*t*t
}

// precessionFromJ2000 is the accumulated general precession in ecliptic
// longitude between J2000.0 and epoch t, degrees. Added to J2000-frame
// longitudes to refer them to the equinox of date, matching the of-date
// sidereal time the line generator works against.
func precessionFromJ2000(t float64) float64 {
	return 1.3969713*t + 0.00030865*t*t
}

// positionsAtJD computes all body positions for a Julian Day.
func positionsAtJD(jd float64, includeMinor bool) []domain.PlanetPosition {
	t := centuries(jd)
	eps := obliquity(t)

	ex, ey, ez := helioEcliptic(earthElements, t)

	bodies := domain.ClassicalPlanets()
	if includeMinor {
		bodies = append(bodies, domain.MinorBodies()...)
	}

	out := make([]domain.PlanetPosition, 0, len(bodies))
	for _, body := range bodies {
		var lon, lat, dist float64
		switch body {
		case domain.Sun:
			lon, lat, dist = vectorToSpherical(-ex, -ey, -ez)
			lon = wrap360(lon + precessionFromJ2000(t))
		case domain.Moon:
			lon, lat, dist = moonEcliptic(t)
		case domain.NorthNode:
			lon, lat, dist = wrap360(125.0445479-1934.1362891*t+0.0020754*t*t), 0, nodeDistanceAU
		case domain.Lilith:
			// Mean lunar apogee: mean perigee + 180°.
			lon, lat, dist = wrap360(263.3532465+4069.0137287*t-0.0103200*t*t), 0, apogeeDistanceAU
		default:
			px, py, pz := helioEcliptic(planetElements[body], t)
			lon, lat, dist = vectorToSpherical(px-ex, py-ey, pz-ez)
			lon = wrap360(lon + precessionFromJ2000(t))
		}

		ra, dec := eclipticToEquatorial(lon, lat, eps)
		out = append(out, domain.PlanetPosition{
			Planet:         body,
			EclipticLon:    lon,
			EclipticLat:    lat,
			RightAscension: ra,
			Declination:    dec,
			DistanceAU:     dist,
		})
	}
	return out
}

// meanElements are Keplerian elements at J2000.0 with per-century rates,
// referred to the mean ecliptic and equinox of J2000 (JPL approximate
// planetary elements, valid 1800-2050).
type meanElements struct {
	a, aDot       float64 // semi-major axis, AU
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination, deg
	l, lDot       float64 // mean longitude, deg
	peri, periDot float64 // longitude of perihelion, deg
	node, nodeDot float64 // longitude of ascending node, deg
}

var earthElements = meanElements{
	// Earth-Moon barycenter.
	a: 1.00000261, aDot: 0.00000562,
	e: 0.01671123, eDot: -0.00004392,
	i: -0.00001531, iDot: -0.01294668,
	l: 100.46457166, lDot: 35999.37244981,
	peri: 102.93768193, periDot: 0.32327364,
	node: 0, nodeDot: 0,
}

var planetElements = map[domain.Planet]meanElements{
	domain.Mercury: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		peri: 77.45779628, periDot: 0.16047689,
		node: 48.33076593, nodeDot: -0.12534081,
	},
	domain.Venus: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		peri: 131.60246718, periDot: 0.00268329,
		node: 76.67984255, nodeDot: -0.27769418,
	},
	domain.Mars: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		peri: -23.94362959, periDot: 0.44441088,
		node: 49.55953891, nodeDot: -0.29257343,
	},
	domain.Jupiter: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		peri: 14.72847983, periDot: 0.21252668,
		node: 100.47390909, nodeDot: 0.20469106,
	},
	domain.Saturn: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		peri: 92.59887831, periDot: -0.41897216,
		node: 113.66242448, nodeDot: -0.28867794,
	},
	domain.Uranus: {
		a: 19.18916464, aDot: -0.00196176,
		e: 0.04725744, eDot: -0.00004397,
		i: 0.77263783, iDot: -0.00242939,
		l: 313.23810451, lDot: 428.48202785,
		peri: 170.95427630, periDot: 0.40805281,
		node: 74.01692503, nodeDot: 0.04240589,
	},
	domain.Neptune: {
		a: 30.06992276, aDot: 0.00026291,
		e: 0.00859048, eDot: 0.00005105,
		i: 1.77004347, iDot: 0.00035372,
		l: -55.12002969, lDot: 218.45945325,
		peri: 44.96476227, periDot: -0.32241464,
		node: 131.78422574, nodeDot: -0.00508664,
	},
	domain.Pluto: {
		a: 39.48211675, aDot: -0.00031596,
		e: 0.24882730, eDot: 0.00005170,
		i: 17.14001206, iDot: 0.00004818,
		l: 238.92903833, lDot: 145.20780515,
		peri: 224.06891629, periDot: -0.04062942,
		node: 110.30393684, nodeDot: -0.01183482,
	},
}

// helioEcliptic returns heliocentric rectangular coordinates in the J2000
// ecliptic frame, AU.
func helioEcliptic(el meanElements, t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	inc := el.i + el.iDot*t
	l := el.l + el.lDot*t
	peri := el.peri + el.periDot*t
	node := el.node + el.nodeDot*t

	omega := peri - node     // argument of perihelion
	m := wrap180(l - peri)   // mean anomaly
	ecc := solveKepler(m, e) // eccentric anomaly, deg

	xp := a * (cosd(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * sind(ecc)

	cw, sw := cosd(omega), sind(omega)
	cn, sn := cosd(node), sind(node)
	ci, si := cosd(inc), sind(inc)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler solves M = E - e·sin(E) for the eccentric anomaly by Newton
// iteration, all angles in degrees.
func solveKepler(m, e float64) float64 {
	eStar := e / degToRad
	ecc := m + eStar*sind(m)
	for i := 0; i < 30; i++ {
		dm := m - (ecc - eStar*sind(ecc))
		de := dm / (1 - e*cosd(ecc))
		ecc += de
		if math.Abs(de) < 1e-8 {
			break
		}
	}
	return ecc
}

// moonEcliptic returns the Moon's geocentric ecliptic coordinates of date
// from the principal periodic terms of the lunar theory.
func moonEcliptic(t float64) (lon, lat, distAU float64) {
	lp := wrap360(218.3164477 + 481267.88123421*t) // mean longitude
	d := wrap360(297.8501921 + 445267.1114034*t)   // mean elongation
	m := wrap360(357.5291092 + 35999.0502909*t)    // solar mean anomaly
	mp := wrap360(134.9633964 + 477198.8675055*t)  // lunar mean anomaly
	f := wrap360(93.2720950 + 483202.0175233*t)    // argument of latitude

	lon = lp +
		6.288774*sind(mp) +
		1.274027*sind(2*d-mp) +
		0.658314*sind(2*d) +
		0.213618*sind(2*mp) -
		0.185116*sind(m) -
		0.114332*sind(2*f) +
		0.058793*sind(2*d-2*mp) +
		0.057066*sind(2*d-m-mp) +
		0.053322*sind(2*d+mp) +
		0.045758*sind(2*d-m) -
		0.040923*sind(m-mp) -
		0.034720*sind(d) -
		0.030383*sind(m+mp) +
		0.015327*sind(2*d-2*f) -
		0.012528*sind(mp+2*f) +
		0.010980*sind(mp-2*f) +
		0.010675*sind(4*d-mp) +
		0.010034*sind(3*mp)

	lat = 5.128122*sind(f) +
		0.280602*sind(mp+f) +
		0.277693*sind(mp-f) +
		0.173237*sind(2*d-f) +
		0.055413*sind(2*d+f-mp) +
		0.046271*sind(2*d-f-mp) +
		0.032573*sind(2*d+f) +
		0.017198*sind(2*mp+f) +
		0.009266*sind(2*d+mp-f) +
		0.008822*sind(2*mp-f)

	distKm := 385000.56 -
		20905.355*cosd(mp) -
		3699.111*cosd(2*d-mp) -
		2955.968*cosd(2*d) -
		569.925*cosd(2*mp)

	return wrap360(lon), lat, distKm / kmPerAU
}

// vectorToSpherical converts a rectangular ecliptic vector to longitude,
// latitude (degrees) and distance.
func vectorToSpherical(x, y, z float64) (lon, lat, dist float64) {
	lon = wrap360(atan2d(y, x))
	lat = atan2d(z, math.Hypot(x, y))
	dist = math.Sqrt(x*x + y*y + z*z)
	return lon, lat, dist
}

// eclipticToEquatorial converts ecliptic longitude/latitude to right
// ascension [0, 360) and declination, given the obliquity, all degrees.
func eclipticToEquatorial(lon, lat, eps float64) (ra, dec float64) {
	ra = wrap360(atan2d(sind(lon)*cosd(eps)-tand(lat)*sind(eps), cosd(lon)))
	dec = asind(sind(lat)*cosd(eps) + cosd(lat)*sind(eps)*sind(lon))
	return ra, dec
}
