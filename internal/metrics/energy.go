package metrics

import (
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravity"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnergyDrift tracks the largest relative change of total energy from the
// first observation.
type EnergyDrift struct {
	name          string
	integ         *gravity.Integrator
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(integ *gravity.Integrator) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		integ: integ,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []body.Body, t float64) {
	energy := e.integ.Energy(bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest change of total linear momentum,
// relative to the initial magnitude when that is nonzero.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []body.Body, t float64) {
	p := gravity.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := r3.Norm(r3.Sub(p, m.initial))
	if n := r3.Norm(m.initial); n != 0 {
		drift /= n
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.maxDrift = 0
	m.samples = 0
}
