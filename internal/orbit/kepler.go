package orbit

import "math"

const (
	// Tolerance is the residual |E − e·sin E − M| at which the solver stops.
	Tolerance = 1e-6
	// MaxIterations bounds the Newton–Raphson loop. Circular and moderate
	// orbits converge in a handful of steps; the bound only matters near e = 1.
	MaxIterations = 64
)

// Solution is the result of SolveKepler. E is the best estimate even when
// Converged is false.
type Solution struct {
	E          float64
	Iterations int
	Converged  bool
	Residual   float64
}

func keplerResidual(E, e, M float64) float64 {
	return E - e*math.Sin(E) - M
}

// SolveKepler finds the eccentric anomaly E for mean anomaly M.
func SolveKepler(M, e float64) Solution {
	E := M + e*math.Cos(M)
	res := keplerResidual(E, e, M)

	best := Solution{E: E, Residual: math.Abs(res)}
	i := 0
	for ; i < MaxIterations && math.Abs(res) > Tolerance; i++ {
		d := 1 - e*math.Cos(E)
		if d == 0 {
			break
		}
		E -= res / d
		res = keplerResidual(E, e, M)
		if math.Abs(res) < best.Residual {
			best.E, best.Residual = E, math.Abs(res)
		}
	}

	best.Iterations = i
	best.Converged = best.Residual <= Tolerance
	return best
}
