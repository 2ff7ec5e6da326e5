package gravity

import "fmt"

// Scheme selects how a tick orders kicks and drifts.
type Scheme int

const (
	// SemiImplicitEuler kicks velocities by a full step, then drifts
	// positions with the new velocities.
	SemiImplicitEuler Scheme = iota
	// Leapfrog is kick-drift-kick with half-step kicks. It evaluates
	// accelerations twice per tick.
	Leapfrog
)

func (s Scheme) String() string {
	switch s {
	case SemiImplicitEuler:
		return "euler"
	case Leapfrog:
		return "leapfrog"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "", "euler", "semi-implicit-euler":
		return SemiImplicitEuler, nil
	case "leapfrog", "kdk":
		return Leapfrog, nil
	default:
		return 0, fmt.Errorf("unknown scheme: %s", name)
	}
}
