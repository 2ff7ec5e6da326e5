package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	ErrShortSeries = errors.New("analysis: series too short")
	ErrNoPeriod    = errors.New("analysis: no periodic component")
)

// PowerSpectrum returns the magnitude of each non-negative frequency bin of
// data. Bin k corresponds to k/(len(data)·dt).
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	coeff := fourier.NewFFT(len(data)).Coefficients(nil, data)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// hann applies a Hann window to a mean-removed copy of data.
func hann(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := float64(len(data))
	out := make([]float64, len(data))
	for i, v := range data {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		out[i] = (v - mean) * w
	}
	return out
}

// DominantPeriod estimates the period of the strongest oscillation in a
// series sampled every dt seconds. The peak bin is refined by fitting a
// parabola to the log magnitudes around it.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if len(series) < 8 {
		return 0, ErrShortSeries
	}
	ps := PowerSpectrum(hann(series))

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, ErrNoPeriod
	}

	bin := float64(peak)
	if peak < len(ps)-1 && ps[peak-1] > 0 && ps[peak+1] > 0 {
		a, b, c := math.Log(ps[peak-1]), math.Log(ps[peak]), math.Log(ps[peak+1])
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	if bin <= 0 {
		return 0, ErrNoPeriod
	}
	return float64(len(series)) * dt / bin, nil
}
