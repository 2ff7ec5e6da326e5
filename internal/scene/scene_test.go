package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBuild_SolarSystem(t *testing.T) {
	cfg, _ := config.GetPreset("solar_system")
	reg, space, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	n := reg.Len() - len(cfg.Bodies)
	if n < 10 || n >= 20 {
		t.Errorf("expected 10..19 asteroids, got %d", n)
	}

	h, ok := reg.Lookup("Earth")
	if !ok {
		t.Fatal("Earth missing")
	}
	earth, _ := reg.Get(h)
	want := gridspace.Cell{Z: -14_960_000}
	if earth.Position.Cell != want {
		t.Errorf("Earth cell = %v, want %v", earth.Position.Cell, want)
	}
	if got := space.Absolute(earth.Position).Z; got != -149.6e9 {
		t.Errorf("Earth z = %v", got)
	}

	for _, b := range reg.Bodies()[len(cfg.Bodies):] {
		if !b.NoGravity {
			t.Errorf("%s should be gravity-exempt", b.Name)
		}
		if b.Mass < 1e10 || b.Mass >= 1e20 {
			t.Errorf("%s mass %v out of range", b.Name, b.Mass)
		}
		abs := space.Absolute(b.Position)
		for _, c := range []float64{abs.X, abs.Y, abs.Z} {
			if c < 1e10-1.5e10 || c >= 1e11-1.5e10 {
				t.Errorf("%s coordinate %v out of range", b.Name, c)
			}
		}
	}
}

func TestBuild_AsteroidsDeterministic(t *testing.T) {
	cfg, _ := config.GetPreset("belt")
	a, _, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, _, _ := Build(cfg)

	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i, x := range a.Snapshot() {
		if x != b.Snapshot()[i] {
			t.Fatalf("body %d differs between builds", i)
		}
	}

	cfg.Asteroids.Seed++
	c, _, _ := Build(cfg)
	last := a.Len() - 1
	if c.Len() > last && c.Snapshot()[last] == a.Snapshot()[last] {
		t.Error("different seed produced the same asteroid")
	}
}

func TestBuild_OrbitRelativeToParent(t *testing.T) {
	cfg := config.DefaultScene()
	elements := orbit.Elements{SemiMajorAxis: 1e9, Eccentricity: 0.1}
	cfg.Bodies = []config.BodyConfig{
		{Name: "star", Mass: 1e30, Position: config.Vec3{5e11, 0, 0}, Velocity: config.Vec3{0, 100, 0}},
		{Name: "planet", Mass: 1e20, Orbit: &config.OrbitConfig{Around: "star", Elements: elements, Epoch: 3600}},
	}

	reg, space, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	bodies := reg.Bodies()
	pos, vel := elements.StateVectors(3600, 1e30)

	got := space.Delta(bodies[0].Position, bodies[1].Position)
	if d := r3.Norm(r3.Sub(got, pos)); d > 1e-3 {
		t.Errorf("relative position off by %v m", d)
	}
	wantVel := r3.Add(vel, r3.Vec{Y: 100})
	if d := r3.Norm(r3.Sub(bodies[1].Velocity, wantVel)); d > 1e-9 {
		t.Errorf("velocity off by %v", d)
	}
}

func TestBuild_UnknownParent(t *testing.T) {
	cfg := config.DefaultScene()
	cfg.Bodies = []config.BodyConfig{
		{Name: "moon", Orbit: &config.OrbitConfig{Around: "planet", Elements: orbit.Elements{SemiMajorAxis: 1}}},
		{Name: "planet", Mass: 1},
	}

	_, _, err := Build(cfg)
	if !errors.Is(err, ErrUnknownParent) {
		t.Errorf("expected ErrUnknownParent, got %v", err)
	}
}

func TestBuild_Invalid(t *testing.T) {
	cfg := config.DefaultScene()
	cfg.Dt = 0
	if _, _, err := Build(cfg); !errors.Is(err, config.ErrInvalidScene) {
		t.Errorf("expected ErrInvalidScene, got %v", err)
	}
}

func TestEffectiveMass(t *testing.T) {
	// With G = 1 a unit orbit around unit mass has period 2π.
	m := effectiveMass(1, 1)
	period := orbit.Elements{SemiMajorAxis: 1}.Period(m)
	if math.Abs(period-2*math.Pi) > 1e-9 {
		t.Errorf("period = %v, want 2π", period)
	}
}

func TestNewSimulator(t *testing.T) {
	cfg, _ := config.GetPreset("earth_sun")
	cfg.Duration = 30
	s, err := NewSimulator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Integrator().Scheme != gravity.Leapfrog {
		t.Errorf("scheme = %v", s.Integrator().Scheme)
	}

	result, err := s.Run(context.Background(), RunConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if result.StepsTaken != 30 {
		t.Errorf("steps = %d, want 30", result.StepsTaken)
	}
	if math.Abs(result.SimTime-30*86400) > 1 {
		t.Errorf("sim time = %v", result.SimTime)
	}
}
