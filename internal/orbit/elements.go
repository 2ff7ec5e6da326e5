// Package orbit propagates two-body Keplerian orbits in closed form.
//
// Positions are measured from the orbited body, with periapsis on the +x
// axis of the perifocal frame and the body at periapsis at time zero.
// Everything here is a pure function of the elements, the time and the
// orbited mass.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orrery/internal/gravitation"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidElements indicates elements that do not describe a closed orbit.
var ErrInvalidElements = errors.New("orbit: invalid orbital elements")

// Elements are the classical orbital elements. Lengths in meters, angles in
// radians.
type Elements struct {
	SemiMajorAxis            float64 `yaml:"semi_major_axis" json:"semi_major_axis"`
	Eccentricity             float64 `yaml:"eccentricity" json:"eccentricity"`
	Inclination              float64 `yaml:"inclination" json:"inclination"`
	LongitudeOfAscendingNode float64 `yaml:"longitude_of_ascending_node" json:"longitude_of_ascending_node"`
	ArgumentOfPeriapsis      float64 `yaml:"argument_of_periapsis" json:"argument_of_periapsis"`
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate rejects elements outside the supported domain: a > 0 and
// 0 ≤ e < 1.
func (e Elements) Validate() error {
	if !finite(e.SemiMajorAxis, e.Eccentricity, e.Inclination, e.LongitudeOfAscendingNode, e.ArgumentOfPeriapsis) {
		return fmt.Errorf("%w: non-finite element", ErrInvalidElements)
	}
	if e.SemiMajorAxis <= 0 {
		return fmt.Errorf("%w: semi-major axis %v", ErrInvalidElements, e.SemiMajorAxis)
	}
	if e.Eccentricity < 0 || e.Eccentricity >= 1 {
		return fmt.Errorf("%w: eccentricity %v is not a closed ellipse", ErrInvalidElements, e.Eccentricity)
	}
	return nil
}

func mu(orbitedMass float64) float64 {
	return gravitation.G * orbitedMass
}

// Period is 2π·sqrt(a³/(G·M)) in seconds.
func (e Elements) Period(orbitedMass float64) float64 {
	a := e.SemiMajorAxis
	return 2 * math.Pi * math.Sqrt(a*a*a/mu(orbitedMass))
}

// MeanMotion is 2π / Period in radians per second.
func (e Elements) MeanMotion(orbitedMass float64) float64 {
	return 2 * math.Pi / e.Period(orbitedMass)
}

// MeanAnomaly is n·t. It is not wrapped into [0, 2π).
func (e Elements) MeanAnomaly(time, orbitedMass float64) float64 {
	return e.MeanMotion(orbitedMass) * time
}

// TrueAnomaly converts an eccentric anomaly with the half-angle form.
func (e Elements) TrueAnomaly(eccentricAnomaly float64) float64 {
	half := eccentricAnomaly / 2
	return 2 * math.Atan2(
		math.Sqrt(1+e.Eccentricity)*math.Sin(half),
		math.Sqrt(1-e.Eccentricity)*math.Cos(half),
	)
}

// Radius is the distance from the orbited body at true anomaly nu.
func (e Elements) Radius(nu float64) float64 {
	ecc := e.Eccentricity
	return e.SemiMajorAxis * (1 - ecc*ecc) / (1 + ecc*math.Cos(nu))
}

// Periapsis returns a(1−e).
func (e Elements) Periapsis() float64 {
	return e.SemiMajorAxis * (1 - e.Eccentricity)
}

// Apoapsis returns a(1+e).
func (e Elements) Apoapsis() float64 {
	return e.SemiMajorAxis * (1 + e.Eccentricity)
}

// Anomalies solves for the true anomaly at time along with the Kepler
// solution it came from.
func (e Elements) Anomalies(time, orbitedMass float64) (nu float64, sol Solution) {
	sol = SolveKepler(e.MeanAnomaly(time, orbitedMass), e.Eccentricity)
	return e.TrueAnomaly(sol.E), sol
}

// Position returns the planar perifocal position and the true anomaly.
func (e Elements) Position(time, orbitedMass float64) (x, y, nu float64) {
	nu, _ = e.Anomalies(time, orbitedMass)
	r := e.Radius(nu)
	return r * math.Cos(nu), r * math.Sin(nu), nu
}

// Position3 returns the position rotated out of the perifocal frame by the
// argument of periapsis, inclination and longitude of ascending node.
func (e Elements) Position3(time, orbitedMass float64) r3.Vec {
	x, y, _ := e.Position(time, orbitedMass)
	return e.toReference(r3.Vec{X: x, Y: y})
}

// StateVectors returns position and velocity in the reference frame. They
// seed a body that switches from analytic to simulated motion.
func (e Elements) StateVectors(time, orbitedMass float64) (pos, vel r3.Vec) {
	nu, _ := e.Anomalies(time, orbitedMass)
	r := e.Radius(nu)
	ecc := e.Eccentricity
	p := e.SemiMajorAxis * (1 - ecc*ecc)
	k := math.Sqrt(mu(orbitedMass) / p)

	sin, cos := math.Sincos(nu)
	pos = e.toReference(r3.Vec{X: r * cos, Y: r * sin})
	vel = e.toReference(r3.Vec{X: -k * sin, Y: k * (ecc + cos)})
	return pos, vel
}

// Speed is the vis-viva speed at distance r.
func (e Elements) Speed(r, orbitedMass float64) float64 {
	return math.Sqrt(mu(orbitedMass) * (2/r - 1/e.SemiMajorAxis))
}

func (e Elements) toReference(v r3.Vec) r3.Vec {
	so, co := math.Sincos(e.ArgumentOfPeriapsis)
	si, ci := math.Sincos(e.Inclination)
	sn, cn := math.Sincos(e.LongitudeOfAscendingNode)

	x := v.X*co - v.Y*so
	y := v.X*so + v.Y*co

	return r3.Vec{
		X: cn*x - sn*ci*y,
		Y: sn*x + cn*ci*y,
		Z: si * y,
	}
}
