package gravity_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/gridspace"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	sunMass   = 1.989e30
	earthMass = 5.9722e24
	au        = 1.496e11
)

var _ = Describe("Integrator", func() {
	var (
		space gridspace.Space
		integ *gravity.Integrator
	)

	BeforeEach(func() {
		space = gridspace.DefaultSpace()
		integ = gravity.New(space)
	})

	Describe("Pairwise", func() {
		It("obeys Newton's third law", func() {
			pairs := [][2]body.Body{
				{
					{Mass: sunMass, Position: space.ToGrid(r3.Vec{})},
					{Mass: earthMass, Position: space.ToGrid(r3.Vec{Z: -au})},
				},
				{
					{Mass: 7.3e22, Position: space.ToGrid(r3.Vec{X: 4e12, Y: 1e9})},
					{Mass: 1e3, Position: space.ToGrid(r3.Vec{X: 4e12 + 384.4e6, Y: 1e9, Z: 12})},
				},
				{
					{Mass: 2, Position: space.ToGrid(r3.Vec{X: 1})},
					{Mass: 3, Position: space.ToGrid(r3.Vec{Y: 1}), CenterOfMass: r3.Vec{Z: 0.5}},
				},
			}

			for _, p := range pairs {
				a, b := p[0], p[1]
				onA := integ.Pairwise(&a, &b)
				onB := integ.Pairwise(&b, &a)

				fa := r3.Norm(onA) * a.Mass
				fb := r3.Norm(onB) * b.Mass
				Expect(fa).To(BeNumerically("~", fb, fb*1e-12))
				Expect(r3.Cos(onA, onB)).To(BeNumerically("~", -1, 1e-12))
			}
		})

		It("points from self towards the source", func() {
			self := body.Body{Mass: earthMass, Position: space.ToGrid(r3.Vec{Z: -au})}
			sun := body.Body{Mass: sunMass}

			a := integ.Pairwise(&self, &sun)
			Expect(a.Z).To(BeNumerically(">", 0))
			Expect(a.X).To(BeZero())
			Expect(a.Y).To(BeZero())
			Expect(r3.Norm(a)).To(BeNumerically("~", gravitation.Acceleration(sunMass, au*au), 1e-15))
		})

		It("returns exactly zero for coincident centers of mass", func() {
			pos := space.ToGrid(r3.Vec{X: 1e11, Y: 2, Z: 3})
			a := body.Body{Mass: 10, Position: pos, CenterOfMass: r3.Vec{X: 1}}
			b := body.Body{Mass: 20, Position: pos, CenterOfMass: r3.Vec{X: 1}}

			Expect(integ.Pairwise(&a, &b)).To(Equal(r3.Vec{}))
			Expect(integ.Pairwise(&b, &a)).To(Equal(r3.Vec{}))
		})

		It("uses the centers of mass rather than the origins", func() {
			a := body.Body{Mass: 1, CenterOfMass: r3.Vec{X: 1}}
			b := body.Body{Mass: 1, Position: space.ToGrid(r3.Vec{X: 1})}

			Expect(integ.Pairwise(&a, &b)).To(Equal(r3.Vec{}))
		})
	})

	Describe("Accelerations", func() {
		It("lets exempt bodies feel gravity without exerting it", func() {
			bodies := []body.Body{
				{Name: "sun", Mass: sunMass},
				{Name: "planet", Mass: earthMass, Position: space.ToGrid(r3.Vec{X: au})},
				{Name: "rock", Mass: 1e20, NoGravity: true, Position: space.ToGrid(r3.Vec{Y: au})},
			}

			acc := integ.Accelerations(bodies, nil)
			Expect(r3.Norm(acc[2])).To(BeNumerically(">", 0))

			withoutRock := integ.Accelerations(bodies[:2], nil)
			Expect(acc[0]).To(Equal(withoutRock[0]))
			Expect(acc[1]).To(Equal(withoutRock[1]))
		})

		It("skips self pairs", func() {
			bodies := []body.Body{{Mass: sunMass}}
			acc := integ.Accelerations(bodies, nil)
			Expect(acc[0]).To(Equal(r3.Vec{}))
		})

		It("gives anchored bodies zero acceleration", func() {
			bodies := []body.Body{
				{Mass: sunMass, Anchored: true},
				{Mass: earthMass, Position: space.ToGrid(r3.Vec{X: au})},
			}
			acc := integ.Accelerations(bodies, nil)
			Expect(acc[0]).To(Equal(r3.Vec{}))
			Expect(acc[1].X).To(BeNumerically("<", 0))
		})

		It("is identical when split across workers", func() {
			bodies := make([]body.Body, 200)
			for i := range bodies {
				f := float64(i)
				bodies[i] = body.Body{
					Mass:      1e20 * (1 + f),
					Position:  space.ToGrid(r3.Vec{X: 1e9 * math.Cos(f), Y: 1e9 * math.Sin(f), Z: 1e6 * f}),
					NoGravity: i%7 == 0,
				}
			}

			serial := gravity.New(space, gravity.WithWorkers(1)).Accelerations(bodies, nil)
			parallel := gravity.New(space, gravity.WithWorkers(8)).Accelerations(bodies, nil)
			Expect(parallel).To(Equal(serial))
		})
	})

	Describe("Tick", func() {
		It("computes every acceleration before moving any body", func() {
			reg := body.NewRegistry()
			reg.Add(body.Body{Mass: 1e24, Velocity: r3.Vec{X: 1000}})
			reg.Add(body.Body{Mass: 1e24, Position: space.ToGrid(r3.Vec{X: 1e8}), Velocity: r3.Vec{X: -1000}})
			reg.Add(body.Body{Mass: 1e24, Position: space.ToGrid(r3.Vec{Y: 1e8})})

			before := reg.Snapshot()
			dt := 60.0
			want := integ.Accelerations(before, nil)

			integ.Tick(reg, gravity.Clock{Elapsed: time.Second, TimeScale: dt})

			for i, b := range reg.Snapshot() {
				v := r3.Add(before[i].Velocity, r3.Scale(dt, want[i]))
				Expect(b.Velocity).To(Equal(v))
				moved := space.Delta(before[i].Position, b.Position)
				Expect(r3.Norm(r3.Sub(moved, r3.Scale(dt, v)))).To(BeNumerically("<", 1e-6))
			}
		})

		It("never moves anchored bodies", func() {
			reg := body.NewRegistry()
			sun, _ := reg.Add(body.Body{Mass: sunMass, Anchored: true, Velocity: r3.Vec{X: 5}})
			reg.Add(body.Body{Mass: earthMass, Position: space.ToGrid(r3.Vec{Z: -au})})

			start, _ := reg.Get(sun)
			for i := 0; i < 10; i++ {
				integ.Tick(reg, gravity.Clock{Elapsed: time.Second, TimeScale: 86400})
			}
			end, _ := reg.Get(sun)
			Expect(end).To(Equal(start))
		})

		It("rebases bodies that drift across cells", func() {
			reg := body.NewRegistry()
			h, _ := reg.Add(body.Body{Position: space.ToGrid(r3.Vec{X: 1e11}), Velocity: r3.Vec{X: 30_000}})

			start, _ := reg.Get(h)
			integ.Tick(reg, gravity.Clock{Elapsed: time.Second, TimeScale: 1})
			end, _ := reg.Get(h)

			Expect(end.Position.Cell.X).To(Equal(start.Position.Cell.X + 3))
			Expect(space.NeedsRebase(end.Position)).To(BeFalse())
			Expect(space.Delta(start.Position, end.Position).X).To(BeNumerically("~", 30_000, 1e-6))
		})

		DescribeTable("keeps a circular orbit circular",
			func(scheme gravity.Scheme, tolerance float64) {
				integ := gravity.New(space, gravity.WithScheme(scheme))
				speed := gravitation.CircularSpeed(sunMass, au)

				reg := body.NewRegistry()
				sun, _ := reg.Add(body.Body{Mass: sunMass, Anchored: true})
				earth, _ := reg.Add(body.Body{
					Mass:     earthMass,
					Position: space.ToGrid(r3.Vec{Z: -au}),
					Velocity: r3.Vec{X: speed},
				})

				clock := gravity.Clock{Elapsed: time.Second, TimeScale: 3600}
				maxDrift := 0.0
				for i := 0; i < 3000; i++ {
					integ.Tick(reg, clock)
					s, _ := reg.Get(sun)
					e, _ := reg.Get(earth)
					d := r3.Norm(space.Delta(s.Position, e.Position))
					maxDrift = math.Max(maxDrift, math.Abs(d-au)/au)
				}
				Expect(maxDrift).To(BeNumerically("<", tolerance))

				e, _ := reg.Get(earth)
				Expect(e.Speed()).To(BeNumerically("~", speed, speed*tolerance))
			},
			Entry("semi-implicit euler", gravity.SemiImplicitEuler, 1e-3),
			Entry("leapfrog", gravity.Leapfrog, 1e-4),
		)

		It("conserves linear momentum of a free pair", func() {
			reg := body.NewRegistry()
			reg.Add(body.Body{Mass: sunMass, Velocity: r3.Vec{X: -1}})
			reg.Add(body.Body{
				Mass:     earthMass,
				Position: space.ToGrid(r3.Vec{Z: -au}),
				Velocity: r3.Vec{X: gravitation.CircularSpeed(sunMass, au)},
			})

			momentum := func() r3.Vec {
				var p r3.Vec
				for _, b := range reg.Snapshot() {
					p = r3.Add(p, r3.Scale(b.Mass, b.Velocity))
				}
				return p
			}

			p0 := momentum()
			for i := 0; i < 500; i++ {
				integ.Tick(reg, gravity.Clock{Elapsed: time.Second, TimeScale: 3600})
			}
			p1 := momentum()
			Expect(r3.Norm(r3.Sub(p1, p0))).To(BeNumerically("<", r3.Norm(p0)*1e-9))
		})
	})
})

var _ = Describe("Energy", func() {
	var space gridspace.Space

	BeforeEach(func() {
		space = gridspace.DefaultSpace()
	})

	eccentric := func(exempt bool) *body.Registry {
		reg := body.NewRegistry()
		reg.Add(body.Body{Mass: sunMass, Anchored: true})
		reg.Add(body.Body{
			Mass:      1e24,
			Position:  space.ToGrid(r3.Vec{Z: -au}),
			Velocity:  r3.Vec{X: 1.2 * gravitation.CircularSpeed(sunMass, au)},
			NoGravity: exempt,
		})
		return reg
	}

	It("counts the potential of exempt bodies against sources", func() {
		integ := gravity.New(space)
		reg := eccentric(true)
		b := reg.Snapshot()[1]

		want := 0.5*b.Mass*r3.Norm2(b.Velocity) - gravitation.G*sunMass*b.Mass/au
		Expect(integ.Energy(reg.Snapshot())).To(BeNumerically("~", want, math.Abs(want)*1e-12))
	})

	It("ignores pairs with no source", func() {
		integ := gravity.New(space)
		bodies := []body.Body{
			{Mass: 1e20, NoGravity: true},
			{Mass: 1e20, NoGravity: true, Position: space.ToGrid(r3.Vec{X: 1e6})},
		}
		Expect(integ.Energy(bodies)).To(BeZero())
	})

	DescribeTable("is conserved on an eccentric orbit",
		func(exempt bool) {
			integ := gravity.New(space, gravity.WithScheme(gravity.Leapfrog))
			reg := eccentric(exempt)
			clock := gravity.Clock{Elapsed: time.Second, TimeScale: 3600}

			e0 := integ.Energy(reg.Snapshot())
			maxDrift := 0.0
			for i := 0; i < 2000; i++ {
				integ.Tick(reg, clock)
				maxDrift = math.Max(maxDrift, math.Abs((integ.Energy(reg.Snapshot())-e0)/e0))
			}
			Expect(maxDrift).To(BeNumerically("<", 1e-5))
		},
		Entry("source body", false),
		Entry("exempt body", true),
	)
})

var _ = Describe("Clock", func() {
	It("scales elapsed time", func() {
		c := gravity.Clock{Elapsed: 500 * time.Millisecond, TimeScale: 86400}
		Expect(c.Step()).To(Equal(43200.0))
	})
})

var _ = Describe("ParseScheme", func() {
	DescribeTable("names",
		func(name string, want gravity.Scheme) {
			s, err := gravity.ParseScheme(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(want))
			Expect(s.String()).NotTo(BeEmpty())
		},
		Entry("default", "", gravity.SemiImplicitEuler),
		Entry("euler", "euler", gravity.SemiImplicitEuler),
		Entry("leapfrog", "leapfrog", gravity.Leapfrog),
	)

	It("rejects unknown names", func() {
		_, err := gravity.ParseScheme("rk4")
		Expect(err).To(HaveOccurred())
	})
})
