package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravity"
)

// Metric accumulates a scalar over a run. bodies must not be retained or
// modified.
type Metric interface {
	Name() string
	Observe(bodies []body.Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every tick with a snapshot it may keep.
type Observer interface {
	OnTick(bodies []body.Body, t float64)
}

// MaxDt bounds the tick length; a Clock holds it in int64 nanoseconds.
const MaxDt = float64(math.MaxInt64) / float64(time.Second)

type Config struct {
	// Dt is the real duration of one tick in seconds.
	Dt float64
	// Duration is the real run length in seconds.
	Duration float64
	// TimeScale converts real seconds into simulation seconds.
	TimeScale float64
	// SampleEvery records a sample every n ticks; zero records only the
	// first and last state.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      60,
		TimeScale:     86400,
		SampleEvery:   60,
		ValidateState: true,
	}
}

// Clock returns the per-tick clock described by the config.
func (c Config) Clock() gravity.Clock {
	return gravity.Clock{
		Elapsed:   time.Duration(math.Round(c.Dt * float64(time.Second))),
		TimeScale: c.TimeScale,
	}
}

// Steps is the number of ticks in the run.
func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Dt >= MaxDt {
		return fmt.Errorf("%w: dt %g must be below %g seconds", ErrInvalidConfig, c.Dt, MaxDt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("%w: time scale must be positive, got %f", ErrInvalidConfig, c.TimeScale)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Sample is the body state at one simulation time.
type Sample struct {
	Time   float64
	Bodies []body.Body
}

type Result struct {
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	// SimTime is the simulated seconds covered by the run.
	SimTime float64
	Errors  []error
}

// Final returns the last recorded sample.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

func validBodies(bodies []body.Body) bool {
	for i := range bodies {
		b := &bodies[i]
		for _, v := range []float64{
			b.Velocity.X, b.Velocity.Y, b.Velocity.Z,
			b.Position.Offset.X, b.Position.Offset.Y, b.Position.Offset.Z,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
