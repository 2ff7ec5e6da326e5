package gravity

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/gridspace"
	"gonum.org/v1/gonum/spatial/r3"
)

type Integrator struct {
	Space gridspace.Space
	G     gravitation.Constant
	// Workers bounds the goroutines used per phase; zero uses GOMAXPROCS.
	Workers int
	Scheme  Scheme

	acc     []r3.Vec
	sources []int
}

type Option func(*Integrator)

func WithConstant(g gravitation.Constant) Option {
	return func(in *Integrator) { in.G = g }
}

func WithWorkers(n int) Option {
	return func(in *Integrator) { in.Workers = n }
}

func WithScheme(s Scheme) Option {
	return func(in *Integrator) { in.Scheme = s }
}

func New(space gridspace.Space, opts ...Option) *Integrator {
	in := &Integrator{
		Space:  space,
		G:      gravitation.SI,
		Scheme: SemiImplicitEuler,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Separation returns the vector from self's center of mass to source's.
func (in *Integrator) Separation(self, source *body.Body) r3.Vec {
	rel := in.Space.Delta(self.Position, source.Position)
	rel = r3.Add(rel, source.CenterOfMass)
	return r3.Sub(rel, self.CenterOfMass)
}

// Pairwise returns the acceleration source imparts on self. It points from
// self towards source.
func (in *Integrator) Pairwise(self, source *body.Body) r3.Vec {
	rel := in.Separation(self, source)
	if rel.X == 0 && rel.Y == 0 && rel.Z == 0 {
		return r3.Vec{}
	}
	d2 := r3.Norm2(rel)
	a := in.G.Acceleration(source.Mass, d2)
	return r3.Scale(a, r3.Unit(rel))
}

// Accelerations fills dst with the total acceleration on every body. Anchored
// bodies get zero. bodies is only read.
func (in *Integrator) Accelerations(bodies []body.Body, dst []r3.Vec) []r3.Vec {
	n := len(bodies)
	if cap(dst) < n {
		dst = make([]r3.Vec, n)
	}
	dst = dst[:n]

	in.sources = in.sources[:0]
	for j := range bodies {
		if bodies[j].IsSource() {
			in.sources = append(in.sources, j)
		}
	}
	sources := in.sources

	parallelFor(n, in.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			self := &bodies[i]
			var a r3.Vec
			if !self.Anchored {
				for _, j := range sources {
					if j == i {
						continue
					}
					a = r3.Add(a, in.Pairwise(self, &bodies[j]))
				}
			}
			dst[i] = a
		}
	})
	return dst
}

// Kick adds acc·dt to the velocity of every non-anchored body.
func (in *Integrator) Kick(bodies []body.Body, acc []r3.Vec, dt float64) {
	for i := range bodies {
		if bodies[i].Anchored {
			continue
		}
		bodies[i].Velocity = r3.Add(bodies[i].Velocity, r3.Scale(dt, acc[i]))
	}
}

// Drift moves every non-anchored body by velocity·dt and rebases it.
func (in *Integrator) Drift(bodies []body.Body, dt float64) {
	parallelFor(len(bodies), in.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			b := &bodies[i]
			if b.Anchored {
				continue
			}
			b.Position = in.Space.Translate(b.Position, r3.Scale(dt, b.Velocity))
		}
	})
}

// Tick advances the registry by one clock tick.
func (in *Integrator) Tick(reg *body.Registry, clock Clock) {
	in.Advance(reg.Bodies(), clock.Step())
}

// Advance steps bodies by dt simulation seconds.
func (in *Integrator) Advance(bodies []body.Body, dt float64) {
	switch in.Scheme {
	case Leapfrog:
		in.acc = in.Accelerations(bodies, in.acc)
		in.Kick(bodies, in.acc, dt/2)
		in.Drift(bodies, dt)
		in.acc = in.Accelerations(bodies, in.acc)
		in.Kick(bodies, in.acc, dt/2)
	default:
		in.acc = in.Accelerations(bodies, in.acc)
		in.Kick(bodies, in.acc, dt)
		in.Drift(bodies, dt)
	}
}
