package astro

import "math"

const degToRad = math.Pi / 180

// sind, cosd, tand take degrees; asind and atan2d return degrees.
func sind(x float64) float64 { return math.Sin(x * degToRad) }
func cosd(x float64) float64 { return math.Cos(x * degToRad) }
func tand(x float64) float64 { return math.Tan(x * degToRad) }

func asind(x float64) float64 { return math.Asin(x) / degToRad }
func atand(x float64) float64 { return math.Atan(x) / degToRad }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) / degToRad }

// wrap360 normalizes an angle to [0, 360).
func wrap360(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}

// wrap180 normalizes an angle to (-180, 180].
func wrap180(x float64) float64 {
	x = wrap360(x)
	if x > 180 {
		x -= 360
	}
	return x
}

// angularSeparation returns the absolute separation of two longitudes along
// the shorter arc, in [0, 180].
func angularSeparation(a, b float64) float64 {
	return math.Abs(wrap180(a - b))
}

// shorterArcMidpoint returns the midpoint of two angles along the shorter
// arc, so midpoints never go the long way around (359° and 1° give 0°, not
// 180°). Angles exactly 180° apart resolve deterministically toward a+90°.
func shorterArcMidpoint(a, b float64) float64 {
	return wrap360(a + wrap180(b-a)/2)
}
