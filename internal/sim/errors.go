package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a NaN or Inf in a body's position or velocity.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates unusable run settings.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

// SimError records where in a run a failure occurred.
type SimError struct {
	Time    float64
	Step    int
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
