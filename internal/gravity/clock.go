package gravity

import "time"

// Clock is the per-tick timing supplied by the application loop.
type Clock struct {
	// Elapsed is the real duration of the tick.
	Elapsed time.Duration
	// TimeScale multiplies Elapsed into simulation seconds; 86400 runs a
	// simulated day per real second.
	TimeScale float64
}

// Step returns the simulation seconds covered by the tick.
func (c Clock) Step() float64 {
	return c.Elapsed.Seconds() * c.TimeScale
}
