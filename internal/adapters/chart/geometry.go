package chart

import "math"

type point struct {
	X, Y int
}

// spokeAngle returns the angle of spoke i of n, counter-clockwise from
// east, in radians.
func spokeAngle(i, n int) float64 {
	return 2 * math.Pi * float64(i) / float64(n)
}

// polar converts a radius and angle around (cx, cy) to pixel coordinates.
// Pixel y grows downwards.
func polar(cx, cy int, rho, theta float64) point {
	return point{
		X: cx + int(math.Round(rho*math.Cos(theta))),
		Y: cy - int(math.Round(rho*math.Sin(theta))),
	}
}

// radarPoints places each value on its spoke, scaled so that maxValue lands
// on radius.
func radarPoints(cx, cy int, radius float64, values []int, maxValue int) []point {
	pts := make([]point, len(values))
	for i, v := range values {
		rho := radius * float64(v) / float64(maxValue)
		pts[i] = polar(cx, cy, rho, spokeAngle(i, len(values)))
	}
	return pts
}
