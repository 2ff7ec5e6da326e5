package sim

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravity"
)

type Simulator struct {
	reg       *body.Registry
	integ     *gravity.Integrator
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
	time      float64
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(reg *body.Registry, integ *gravity.Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		reg:       reg,
		integ:     integ,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Registry returns the simulated bodies. Callers must not hold it across a
// tick.
func (s *Simulator) Registry() *body.Registry { return s.reg }

func (s *Simulator) Integrator() *gravity.Integrator { return s.integ }

// Time is the simulation time reached so far.
func (s *Simulator) Time() float64 { return s.time }

// Step advances one tick and returns the new simulation time.
func (s *Simulator) Step(clock gravity.Clock) float64 {
	s.integ.Tick(s.reg, clock)
	s.time += clock.Step()
	return s.time
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	clock := cfg.Clock()
	result := &Result{
		Samples: make([]Sample, 0, sampleCount(steps, cfg.SampleEvery)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.time
	result.Samples = append(result.Samples, Sample{Time: s.time, Bodies: s.reg.Snapshot()})
	initialEnergy := s.integ.Energy(s.reg.Bodies())
	for _, m := range s.metrics {
		m.Observe(s.reg.Bodies(), s.time)
	}

	s.logger.Info("run started",
		"bodies", s.reg.Len(),
		"steps", steps,
		"tick", clock.Step(),
		"scheme", s.integ.Scheme.String())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.SimTime = s.time - start
			return result, ctx.Err()
		default:
		}

		t := s.Step(clock)
		result.StepsTaken++

		bodies := s.reg.Bodies()
		if cfg.ValidateState && !validBodies(bodies) {
			err := SimError{Time: t, Step: i, Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.logger.Error("invalid state", "step", i, "time", t)
			break
		}

		for _, m := range s.metrics {
			m.Observe(bodies, t)
		}
		if len(s.observers) > 0 {
			snap := s.reg.Snapshot()
			for _, obs := range s.observers {
				obs.OnTick(snap, t)
			}
		}

		last := i == steps-1
		if last || (cfg.SampleEvery > 0 && (i+1)%cfg.SampleEvery == 0) {
			result.Samples = append(result.Samples, Sample{Time: t, Bodies: s.reg.Snapshot()})
			s.logger.Debug("sample", "step", i+1, "time", t)
		}
	}

	finalEnergy := s.integ.Energy(s.reg.Bodies())
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	result.SimTime = s.time - start

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		"steps", result.StepsTaken,
		"sim_time", result.SimTime,
		"energy_drift", result.EnergyDrift)

	return result, nil
}

// RunWithCallback ticks until the duration elapses or fn returns false.
// fn receives the registry's own storage and must not retain it.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(bodies []body.Body, t float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	clock := cfg.Clock()
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := s.Step(clock)
		if cfg.ValidateState && !validBodies(s.reg.Bodies()) {
			return SimError{Time: t, Step: i, Wrapped: ErrInvalidState}
		}
		if !fn(s.reg.Bodies(), t) {
			return nil
		}
	}
	return nil
}

func sampleCount(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}
