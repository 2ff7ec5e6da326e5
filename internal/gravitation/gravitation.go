// Package gravitation provides Newtonian force and acceleration formulas.
//
// Two numeric variants are kept side by side: the float64 functions are the
// ones used next to the coordinate model, the float32 ones (suffix 32) serve
// coarse single-precision callers such as render-side effects. Neither
// variant converts to the other.
package gravitation

import "math"

// G is the gravitational constant in m³·kg⁻¹·s⁻².
const G = 6.67430e-11

// G32 is G for the single-precision path.
const G32 float32 = 6.67430e-11

// Constant is a gravitational constant in the units of a scene. Scaled
// scenes use Constant(1); SI is the physical value.
type Constant float64

// SI is the gravitational constant of SI scenes.
const SI Constant = G

// ForceSquared returns g·mA·mB/d² where d² is the squared distance.
func (g Constant) ForceSquared(massA, massB, distanceSquared float64) float64 {
	return float64(g) * massA * massB / distanceSquared
}

// Force returns g·mA·mB/d².
func (g Constant) Force(massA, massB, distance float64) float64 {
	return g.ForceSquared(massA, massB, distance*distance)
}

// Acceleration returns the magnitude of the acceleration a source of the
// given mass imparts at the squared distance. It equals F/m for any
// receiver mass m, including zero.
func (g Constant) Acceleration(sourceMass, distanceSquared float64) float64 {
	return float64(g) * sourceMass / distanceSquared
}

// CircularSpeed is the speed of a circular orbit of radius distance.
func (g Constant) CircularSpeed(centralMass, distance float64) float64 {
	return math.Sqrt(float64(g) * centralMass / distance)
}

// EscapeSpeed is the speed needed to escape from distance.
func (g Constant) EscapeSpeed(centralMass, distance float64) float64 {
	return math.Sqrt(2 * float64(g) * centralMass / distance)
}

// ForceSquared returns the SI gravitational force for a squared distance.
func ForceSquared(massA, massB, distanceSquared float64) float64 {
	return SI.ForceSquared(massA, massB, distanceSquared)
}

// Force returns the SI gravitational force between two masses.
func Force(massA, massB, distance float64) float64 {
	return SI.Force(massA, massB, distance)
}

// Acceleration returns the SI acceleration magnitude towards sourceMass.
func Acceleration(sourceMass, distanceSquared float64) float64 {
	return SI.Acceleration(sourceMass, distanceSquared)
}

// CircularSpeed returns the SI circular orbit speed.
func CircularSpeed(centralMass, distance float64) float64 {
	return SI.CircularSpeed(centralMass, distance)
}

// EscapeSpeed returns the SI escape speed.
func EscapeSpeed(centralMass, distance float64) float64 {
	return SI.EscapeSpeed(centralMass, distance)
}
