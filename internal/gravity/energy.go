package gravity

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gridspace"
	"gonum.org/v1/gonum/spatial/r3"
)

// Energy returns kinetic plus potential energy. A pair carries potential
// when either side is a source, so exempt bodies keep their potential
// against the sources and trade it for kinetic energy without apparent drift.
func (in *Integrator) Energy(bodies []body.Body) float64 {
	ke := 0.0
	pe := 0.0
	g := float64(in.G)

	com := make([]gridspace.Position, len(bodies))
	for i := range bodies {
		com[i] = bodies[i].CenterOfMassPosition(in.Space)
	}

	for i := range bodies {
		bi := &bodies[i]
		if !bi.Anchored {
			ke += 0.5 * bi.Mass * r3.Norm2(bi.Velocity)
		}
		if bi.Mass <= 0 {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			bj := &bodies[j]
			if bj.Mass <= 0 || !(bi.IsSource() || bj.IsSource()) {
				continue
			}
			r := in.Space.Distance(com[i], com[j])
			if r == 0 {
				continue
			}
			pe -= g * bi.Mass * bj.Mass / r
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum of the non-anchored bodies.
func Momentum(bodies []body.Body) r3.Vec {
	var p r3.Vec
	for i := range bodies {
		if bodies[i].Anchored {
			continue
		}
		p = r3.Add(p, r3.Scale(bodies[i].Mass, bodies[i].Velocity))
	}
	return p
}
