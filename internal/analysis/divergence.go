package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrBadTarget = errors.New("analysis: target body out of range")

// Divergence estimates the largest Lyapunov exponent of a scene, in 1/s of
// simulation time, by trajectory separation. Two copies are built; in the
// second the target is displaced by perturbation meters along x. After each
// tick the position separation over all bodies is measured and the second
// copy is pulled back to distance perturbation from the first.
//
// A positive value means nearby scenes diverge exponentially.
func Divergence(ctx context.Context, build sim.Factory, target body.Handle, perturbation float64, cfg sim.Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if !(perturbation > 0) {
		return 0, fmt.Errorf("analysis: perturbation must be positive, got %v", perturbation)
	}

	ref, err := build()
	if err != nil {
		return 0, err
	}
	pert, err := build()
	if err != nil {
		return 0, err
	}

	space := ref.Integrator().Space
	a, b := ref.Registry().Bodies(), pert.Registry().Bodies()
	if int(target) < 0 || int(target) >= len(a) || len(a) != len(b) {
		return 0, ErrBadTarget
	}
	b[target].Position = space.Translate(b[target].Position, r3.Vec{X: perturbation})

	clock := cfg.Clock()
	dt := clock.Step()
	steps := cfg.Steps()

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		ref.Step(clock)
		pert.Step(clock)
		a, b = ref.Registry().Bodies(), pert.Registry().Bodies()

		sep := separation(space, a, b)
		if sep > 0 {
			sumLog += math.Log(sep / perturbation)
			count++
			renormalize(space, a, b, perturbation/sep)
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * dt), nil
}

func separation(space gridspace.Space, a, b []body.Body) float64 {
	sum := 0.0
	for i := range a {
		sum += r3.Norm2(space.Delta(a[i].Position, b[i].Position))
	}
	return math.Sqrt(sum)
}

// renormalize scales the offset of every body in b from its twin in a.
func renormalize(space gridspace.Space, a, b []body.Body, scale float64) {
	for i := range a {
		dp := space.Delta(a[i].Position, b[i].Position)
		dv := r3.Sub(b[i].Velocity, a[i].Velocity)
		b[i].Position = space.Translate(a[i].Position, r3.Scale(scale, dp))
		b[i].Velocity = r3.Add(a[i].Velocity, r3.Scale(scale, dv))
	}
}
