// Package scene turns a config.Scene into a populated body registry and the
// simulator that drives it.
package scene

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownParent is returned when an orbit names a body that is not
// declared before it.
var ErrUnknownParent = errors.New("scene: unknown orbit parent")

// Build validates cfg and creates its bodies. Orbit-seeded bodies are placed
// relative to their parent, which must appear earlier in the list.
func Build(cfg *config.Scene) (*body.Registry, gridspace.Space, error) {
	if err := cfg.Validate(); err != nil {
		return nil, gridspace.Space{}, err
	}
	space := cfg.Space()
	reg := body.NewRegistry()

	for _, bc := range cfg.Bodies {
		b := body.Body{
			Name:         bc.Name,
			Mass:         bc.Mass,
			CenterOfMass: bc.CenterOfMass.R3(),
			Position:     space.ToGrid(bc.Position.R3()),
			Velocity:     bc.Velocity.R3(),
			NoGravity:    bc.NoGravity,
			Anchored:     bc.Anchored,
		}

		if o := bc.Orbit; o != nil {
			h, ok := reg.Lookup(o.Around)
			if !ok {
				return nil, space, fmt.Errorf("%w: %q orbits %q", ErrUnknownParent, bc.Name, o.Around)
			}
			parent, _ := reg.Get(h)
			pos, vel := o.StateVectors(o.Epoch, effectiveMass(cfg.Constant(), parent.Mass))
			b.Position = space.Translate(parent.Position, pos)
			b.Position = space.Translate(b.Position, bc.Position.R3())
			b.Velocity = r3.Add(r3.Add(vel, parent.Velocity), b.Velocity)
		}

		if _, err := reg.Add(b); err != nil {
			return nil, space, err
		}
	}

	if cfg.Asteroids != nil {
		if err := seedAsteroids(reg, space, cfg.Asteroids); err != nil {
			return nil, space, err
		}
	}
	return reg, space, nil
}

// effectiveMass rescales mass so the SI propagator sees g·M when the scene
// runs with a non-SI constant.
func effectiveMass(g gravitation.Constant, mass float64) float64 {
	if g == gravitation.SI {
		return mass
	}
	return mass * float64(g) / gravitation.G
}

func seedAsteroids(reg *body.Registry, space gridspace.Space, a *config.AsteroidConfig) error {
	rng := rand.New(rand.NewSource(a.Seed))
	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	count := a.CountMin
	if a.CountMax > a.CountMin {
		count += rng.Intn(a.CountMax - a.CountMin)
	}

	for i := 0; i < count; i++ {
		pos := config.Vec3{
			uniform(a.PositionMin, a.PositionMax) + a.PositionShift,
			uniform(a.PositionMin, a.PositionMax) + a.PositionShift,
			uniform(a.PositionMin, a.PositionMax) + a.PositionShift,
		}
		vel := config.Vec3{
			uniform(a.SpeedMin, a.SpeedMax) + a.SpeedShift,
			uniform(a.SpeedMin, a.SpeedMax) + a.SpeedShift,
			uniform(a.SpeedMin, a.SpeedMax) + a.SpeedShift,
		}
		_, err := reg.Add(body.Body{
			Name:      fmt.Sprintf("Asteroid %d", i),
			Mass:      uniform(a.MassMin, a.MassMax),
			Position:  space.ToGrid(pos.R3()),
			Velocity:  vel.R3(),
			NoGravity: true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RunConfig extracts the time settings of cfg.
func RunConfig(cfg *config.Scene) sim.Config {
	rc := sim.DefaultConfig()
	rc.Dt = cfg.Dt
	rc.Duration = cfg.Duration
	rc.TimeScale = cfg.TimeScale
	rc.SampleEvery = cfg.SampleEvery
	return rc
}

// Integrator builds the integrator cfg asks for.
func Integrator(cfg *config.Scene, space gridspace.Space) (*gravity.Integrator, error) {
	scheme, err := gravity.ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	return gravity.New(space,
		gravity.WithConstant(cfg.Constant()),
		gravity.WithWorkers(cfg.Workers),
		gravity.WithScheme(scheme),
	), nil
}

// NewSimulator builds the bodies and integrator of cfg and returns a
// simulator ready to run.
func NewSimulator(cfg *config.Scene, opts ...sim.Option) (*sim.Simulator, error) {
	reg, space, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	integ, err := Integrator(cfg, space)
	if err != nil {
		return nil, err
	}
	return sim.New(reg, integ, opts...), nil
}
