// Package mathutil holds the small Euclidean helpers behind the coordinate
// model's distance measurements.
package mathutil

import "math"

// Distance2Squared returns the squared distance between two 2D points.
func Distance2Squared(x1, y1, x2, y2 float64) float64 {
	x := x2 - x1
	y := y2 - y1
	return x*x + y*y
}

// Distance2 returns the distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(Distance2Squared(x1, y1, x2, y2))
}

// Distance3Squared returns the squared distance between two 3D points.
func Distance3Squared(x1, y1, z1, x2, y2, z2 float64) float64 {
	x := x2 - x1
	y := y2 - y1
	z := z2 - z1
	return x*x + y*y + z*z
}

// Distance3 returns the distance between two 3D points.
func Distance3(x1, y1, z1, x2, y2, z2 float64) float64 {
	return math.Sqrt(Distance3Squared(x1, y1, z1, x2, y2, z2))
}
