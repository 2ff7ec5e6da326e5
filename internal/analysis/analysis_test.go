package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func cosine(n int, cycles float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 5 + math.Cos(2*math.Pi*cycles*float64(i)/float64(n)+0.3)
	}
	return s
}

func TestPowerSpectrum(t *testing.T) {
	if ps := PowerSpectrum(nil); ps != nil {
		t.Errorf("expected nil spectrum, got %v", ps)
	}

	ps := PowerSpectrum(cosine(64, 8))
	if len(ps) != 33 {
		t.Fatalf("expected 33 bins, got %d", len(ps))
	}
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != 8 {
		t.Errorf("peak at bin %d, want 8", peak)
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		cycles float64
		tol    float64
	}{
		{8, 1e-9},
		{8.5, 1e-3},
		{4.3, 1e-2},
		{13.7, 1e-2},
	}

	for _, tt := range tests {
		n := 256
		want := float64(n) * 0.5 / tt.cycles
		got, err := DominantPeriod(cosine(n, tt.cycles), 0.5)
		if err != nil {
			t.Fatalf("%v cycles: %v", tt.cycles, err)
		}
		if math.Abs(got-want)/want > tt.tol {
			t.Errorf("%v cycles: period %v, want %v", tt.cycles, got, want)
		}
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	if _, err := DominantPeriod([]float64{1, 2, 3}, 1); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
	flat := make([]float64, 32)
	for i := range flat {
		flat[i] = 7
	}
	if _, err := DominantPeriod(flat, 1); !errors.Is(err, ErrNoPeriod) {
		t.Errorf("expected ErrNoPeriod, got %v", err)
	}
}

const (
	sunMass = 1.989e30
	au      = 1.496e11
)

func earthSun() (*sim.Simulator, error) {
	space := gridspace.DefaultSpace()
	reg := body.NewRegistry()
	if _, err := reg.Add(body.Body{Name: "Sun", Mass: sunMass, Anchored: true}); err != nil {
		return nil, err
	}
	_, err := reg.Add(body.Body{
		Name:     "Earth",
		Mass:     5.9722e24,
		Position: space.ToGrid(r3.Vec{Z: -au}),
		Velocity: r3.Vec{X: gravitation.CircularSpeed(sunMass, au)},
	})
	if err != nil {
		return nil, err
	}
	return sim.New(reg, gravity.New(space, gravity.WithScheme(gravity.Leapfrog))), nil
}

func TestDominantPeriod_EarthOrbit(t *testing.T) {
	s, _ := earthSun()
	space := s.Integrator().Space

	xs := make([]float64, 0, 1100)
	cfg := sim.Config{Dt: 1, Duration: 3 * 365.25, TimeScale: 86400}
	err := s.RunWithCallback(context.Background(), cfg, func(bodies []body.Body, _ float64) bool {
		xs = append(xs, space.Delta(bodies[0].Position, bodies[1].Position).X)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}

	period, err := DominantPeriod(xs, 86400)
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * math.Pi * math.Sqrt(au*au*au/(gravitation.G*sunMass))
	if math.Abs(period-want)/want > 0.01 {
		t.Errorf("period = %.0f days, want %.0f", period/86400, want/86400)
	}
}

func TestDivergence_KeplerOrbitIsRegular(t *testing.T) {
	cfg := sim.Config{Dt: 1, Duration: 100, TimeScale: 86400}
	lambda, err := Divergence(context.Background(), earthSun, 1, 1e3, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(lambda) || math.Abs(lambda) > 1e-6 {
		t.Errorf("lambda = %e, want near zero", lambda)
	}
}

func TestDivergence_Errors(t *testing.T) {
	cfg := sim.Config{Dt: 1, Duration: 1, TimeScale: 1}
	if _, err := Divergence(context.Background(), earthSun, 5, 1, cfg); !errors.Is(err, ErrBadTarget) {
		t.Errorf("expected ErrBadTarget, got %v", err)
	}
	if _, err := Divergence(context.Background(), earthSun, 1, 0, cfg); err == nil {
		t.Error("expected error for zero perturbation")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Divergence(ctx, earthSun, 1, 1, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
