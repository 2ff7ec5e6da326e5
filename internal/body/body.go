// Package body holds the set of simulated masses.
//
// A [Registry] owns its bodies in a flat slice addressed by stable [Handle]
// values. The simulation tick takes the mutable view from [Registry.Bodies];
// everything else (rendering, storage, metrics) reads [Registry.Snapshot]
// between ticks.
package body

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orrery/internal/gridspace"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidMass indicates a negative or non-finite mass.
	ErrInvalidMass = errors.New("body: invalid mass")

	// ErrDuplicateName indicates a second body registered under a name.
	ErrDuplicateName = errors.New("body: duplicate name")
)

// Handle identifies a body within its Registry.
type Handle int

type Body struct {
	Name string
	Mass float64
	// CenterOfMass is the center of mass relative to the body's origin.
	CenterOfMass r3.Vec
	Position     gridspace.Position
	Velocity     r3.Vec
	// NoGravity marks a body that feels gravity but exerts none, such as
	// debris whose mass is negligible next to the planets.
	NoGravity bool
	// Anchored bodies have no velocity: they attract others but are never
	// accelerated or moved.
	Anchored bool
}

// IsSource reports whether b contributes gravity to other bodies.
func (b *Body) IsSource() bool {
	return !b.NoGravity && b.Mass > 0
}

// Speed returns the velocity magnitude.
func (b *Body) Speed() float64 {
	return r3.Norm(b.Velocity)
}

// CenterOfMassPosition returns the position of the center of mass.
func (b *Body) CenterOfMassPosition(space gridspace.Space) gridspace.Position {
	return space.Translate(b.Position, b.CenterOfMass)
}

func validMass(m float64) bool {
	return m >= 0 && !math.IsInf(m, 0)
}

type Registry struct {
	bodies []Body
	names  map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{
		bodies: make([]Body, 0),
		names:  make(map[string]Handle),
	}
}

// Add registers b and returns its handle. Unnamed bodies are allowed and
// never collide.
func (r *Registry) Add(b Body) (Handle, error) {
	if !validMass(b.Mass) {
		return -1, fmt.Errorf("%w: %q has mass %v", ErrInvalidMass, b.Name, b.Mass)
	}
	if b.Name != "" {
		if _, ok := r.names[b.Name]; ok {
			return -1, fmt.Errorf("%w: %q", ErrDuplicateName, b.Name)
		}
	}
	h := Handle(len(r.bodies))
	r.bodies = append(r.bodies, b)
	if b.Name != "" {
		r.names[b.Name] = h
	}
	return h, nil
}

func (r *Registry) Get(h Handle) (Body, bool) {
	if h < 0 || int(h) >= len(r.bodies) {
		return Body{}, false
	}
	return r.bodies[h], true
}

func (r *Registry) Lookup(name string) (Handle, bool) {
	h, ok := r.names[name]
	return h, ok
}

func (r *Registry) Len() int { return len(r.bodies) }

// Handles returns every handle in registration order.
func (r *Registry) Handles() []Handle {
	hs := make([]Handle, len(r.bodies))
	for i := range hs {
		hs[i] = Handle(i)
	}
	return hs
}

// Snapshot returns a copy of every body, indexed by handle.
func (r *Registry) Snapshot() []Body {
	s := make([]Body, len(r.bodies))
	copy(s, r.bodies)
	return s
}

// Bodies returns the registry's own storage. Only the simulation tick
// should hold it, and only for the duration of the tick.
func (r *Registry) Bodies() []Body {
	return r.bodies
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		bodies: r.Snapshot(),
		names:  make(map[string]Handle, len(r.names)),
	}
	for k, v := range r.names {
		c.names[k] = v
	}
	return c
}
