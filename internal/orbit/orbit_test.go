package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

const sunMass = 1.989e30

var earth = orbit.Elements{
	SemiMajorAxis: 1.496e11,
	Eccentricity:  0.0167,
}

var _ = Describe("Elements", func() {
	It("gives the Earth a year-long period", func() {
		T := earth.Period(sunMass)
		Expect(T).To(BeNumerically("~", 31_557_600, 31_557_600*1e-3))
		Expect(earth.MeanMotion(sunMass) * T).To(BeNumerically("~", 2*math.Pi, 1e-12))
	})

	It("starts at periapsis", func() {
		x, y, nu := earth.Position(0, sunMass)
		Expect(nu).To(BeNumerically("~", 0, orbit.Tolerance))
		Expect(x).To(BeNumerically("~", earth.Periapsis(), earth.Periapsis()*1e-12))
		Expect(y).To(BeNumerically("~", 0, earth.SemiMajorAxis*orbit.Tolerance))
	})

	It("reaches apoapsis after half a period", func() {
		T := earth.Period(sunMass)
		x, y, nu := earth.Position(T/2, sunMass)
		Expect(math.Abs(nu)).To(BeNumerically("~", math.Pi, 1e-6))
		Expect(math.Hypot(x, y)).To(BeNumerically("~", earth.Apoapsis(), earth.Apoapsis()*1e-9))
		Expect(x).To(BeNumerically("<", 0))
	})

	It("returns to periapsis after a full period", func() {
		T := earth.Period(sunMass)
		x, y, _ := earth.Position(T, sunMass)
		Expect(math.Hypot(x, y)).To(BeNumerically("~", earth.Periapsis(), earth.Periapsis()*1e-9))
		Expect(x).To(BeNumerically(">", 0))
	})

	DescribeTable("matches the closed-form pipeline at nonzero times",
		func(el orbit.Elements, fraction float64) {
			t := fraction * el.Period(sunMass)
			x, y, nu := el.Position(t, sunMass)

			M := el.MeanAnomaly(t, sunMass)
			sol := orbit.SolveKepler(M, el.Eccentricity)
			Expect(sol.Converged).To(BeTrue())
			Expect(math.Abs(sol.E - el.Eccentricity*math.Sin(sol.E) - M)).To(BeNumerically("<=", orbit.Tolerance))

			Expect(nu).To(Equal(el.TrueAnomaly(sol.E)))
			r := el.Radius(nu)
			Expect(x).To(Equal(r * math.Cos(nu)))
			Expect(y).To(Equal(r * math.Sin(nu)))
			Expect(r).To(BeNumerically(">=", el.Periapsis()*(1-1e-12)))
			Expect(r).To(BeNumerically("<=", el.Apoapsis()*(1+1e-12)))
		},
		Entry("earth, quarter", earth, 0.25),
		Entry("earth, many orbits", earth, 12.3),
		Entry("circular", orbit.Elements{SemiMajorAxis: 1e9}, 0.4),
		Entry("eccentric", orbit.Elements{SemiMajorAxis: 2.667e12, Eccentricity: 0.967}, 0.1),
		Entry("negative time", earth, -0.3),
	)

	It("is moving counter-clockwise", func() {
		_, y, nu := earth.Position(earth.Period(sunMass)/8, sunMass)
		Expect(y).To(BeNumerically(">", 0))
		Expect(nu).To(BeNumerically(">", 0))
	})

	Describe("Position3", func() {
		It("equals the planar position with zero angles", func() {
			t := 1e7
			x, y, _ := earth.Position(t, sunMass)
			p := earth.Position3(t, sunMass)
			Expect(p.X).To(BeNumerically("~", x, 1e-3))
			Expect(p.Y).To(BeNumerically("~", y, 1e-3))
			Expect(p.Z).To(BeZero())
		})

		It("tilts the orbit out of the plane", func() {
			el := earth
			el.Inclination = math.Pi / 2
			T := el.Period(sunMass)
			p := el.Position3(T/4, sunMass)
			Expect(math.Abs(p.Z)).To(BeNumerically(">", 1e11))
			Expect(p.Y).To(BeNumerically("~", 0, 1))
		})

		It("preserves the radius under every rotation", func() {
			el := orbit.Elements{
				SemiMajorAxis:            7e9,
				Eccentricity:             0.3,
				Inclination:              0.4,
				LongitudeOfAscendingNode: 1.1,
				ArgumentOfPeriapsis:      2.5,
			}
			t := 0.37 * el.Period(sunMass)
			x, y, _ := el.Position(t, sunMass)
			Expect(r3.Norm(el.Position3(t, sunMass))).To(BeNumerically("~", math.Hypot(x, y), 1e-3))
		})
	})

	Describe("StateVectors", func() {
		It("has circular speed on a circular orbit", func() {
			el := orbit.Elements{SemiMajorAxis: 1.496e11}
			pos, vel := el.StateVectors(0, sunMass)
			Expect(r3.Norm(pos)).To(BeNumerically("~", 1.496e11, 1e-3))
			Expect(r3.Norm(vel)).To(BeNumerically("~", gravitation.CircularSpeed(sunMass, 1.496e11), 1e-6))
			Expect(r3.Dot(pos, vel)).To(BeNumerically("~", 0, 1e-3))
		})

		It("agrees with vis-viva and conserves angular momentum", func() {
			el := orbit.Elements{
				SemiMajorAxis:            2.667e12,
				Eccentricity:             0.967,
				Inclination:              2.8,
				LongitudeOfAscendingNode: 1.0,
				ArgumentOfPeriapsis:      1.9,
			}
			T := el.Period(sunMass)
			var h0 float64
			for i, f := range []float64{0, 0.1, 0.5, 0.77} {
				pos, vel := el.StateVectors(f*T, sunMass)
				r := r3.Norm(pos)
				Expect(r3.Norm(vel)).To(BeNumerically("~", el.Speed(r, sunMass), el.Speed(r, sunMass)*1e-6))

				h := r3.Norm(r3.Cross(pos, vel))
				if i == 0 {
					h0 = h
					continue
				}
				Expect(h).To(BeNumerically("~", h0, h0*1e-6))
			}
		})
	})

	DescribeTable("Validate",
		func(el orbit.Elements, ok bool) {
			err := el.Validate()
			if ok {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(orbit.ErrInvalidElements))
		},
		Entry("earth", earth, true),
		Entry("circular", orbit.Elements{SemiMajorAxis: 1}, true),
		Entry("zero axis", orbit.Elements{}, false),
		Entry("negative eccentricity", orbit.Elements{SemiMajorAxis: 1, Eccentricity: -0.1}, false),
		Entry("parabolic", orbit.Elements{SemiMajorAxis: 1, Eccentricity: 1}, false),
		Entry("hyperbolic", orbit.Elements{SemiMajorAxis: 1, Eccentricity: 1.5}, false),
		Entry("nan angle", orbit.Elements{SemiMajorAxis: 1, Inclination: math.NaN()}, false),
	)
})

var _ = Describe("SolveKepler", func() {
	It("is exact at zero mean anomaly", func() {
		sol := orbit.SolveKepler(0, 0.5)
		Expect(sol.Converged).To(BeTrue())
		Expect(sol.E).To(BeNumerically("~", 0, orbit.Tolerance))
	})

	It("needs no iterations for a circle", func() {
		sol := orbit.SolveKepler(1.234, 0)
		Expect(sol.Iterations).To(BeZero())
		Expect(sol.E).To(Equal(1.234))
	})

	DescribeTable("always terminates",
		func(M, e float64) {
			sol := orbit.SolveKepler(M, e)
			Expect(sol.Iterations).To(BeNumerically("<=", orbit.MaxIterations))
			Expect(math.IsNaN(sol.E)).To(BeFalse())
		},
		Entry("near parabolic", 1e-3, 0.999999),
		Entry("parabolic", 0.5, 1.0),
		Entry("hyperbolic", 2.0, 1.7),
		Entry("huge mean anomaly", 1e6, 0.9),
	)
})
