package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gridspace"
)

// SeparationDrift tracks the largest relative deviation of the distance
// between two bodies from its initial value. On a circular orbit it
// measures how well the integrator holds the radius.
type SeparationDrift struct {
	name     string
	space    gridspace.Space
	a, b     body.Handle
	initial  float64
	maxDrift float64
	samples  int
}

func NewSeparationDrift(space gridspace.Space, a, b body.Handle) *SeparationDrift {
	return &SeparationDrift{
		name:  fmt.Sprintf("separation_drift_%d_%d", a, b),
		space: space,
		a:     a,
		b:     b,
	}
}

func (s *SeparationDrift) Name() string { return s.name }

func (s *SeparationDrift) Observe(bodies []body.Body, t float64) {
	if int(s.a) >= len(bodies) || int(s.b) >= len(bodies) {
		return
	}
	d := s.space.Distance(bodies[s.a].Position, bodies[s.b].Position)
	if s.samples == 0 {
		s.initial = d
	}
	s.samples++
	if s.initial != 0 {
		s.maxDrift = math.Max(s.maxDrift, math.Abs(d-s.initial)/s.initial)
	}
}

func (s *SeparationDrift) Value() float64 { return s.maxDrift }

func (s *SeparationDrift) Reset() {
	s.initial = 0
	s.maxDrift = 0
	s.samples = 0
}

// Rebases counts how many times bodies changed grid cell.
type Rebases struct {
	name  string
	cells []gridspace.Cell
	count int
}

func NewRebases() *Rebases {
	return &Rebases{name: "rebases"}
}

func (r *Rebases) Name() string { return r.name }

func (r *Rebases) Observe(bodies []body.Body, t float64) {
	if len(r.cells) != len(bodies) {
		r.cells = make([]gridspace.Cell, len(bodies))
		for i := range bodies {
			r.cells[i] = bodies[i].Position.Cell
		}
		return
	}
	for i := range bodies {
		if c := bodies[i].Position.Cell; c != r.cells[i] {
			r.count++
			r.cells[i] = c
		}
	}
}

func (r *Rebases) Value() float64 { return float64(r.count) }

func (r *Rebases) Reset() {
	r.cells = nil
	r.count = 0
}
