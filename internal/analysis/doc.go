// Package analysis estimates properties of recorded or running scenes.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled series
//   - [DominantPeriod]: period of the strongest oscillation, for example a
//     planet's coordinate relative to its star
//   - [Divergence]: largest Lyapunov exponent by trajectory separation
//
// A two-body orbit has a divergence near zero; perturbations of a Kepler
// orbit grow linearly, not exponentially:
//
//	lambda, err := analysis.Divergence(ctx, build, earth, 1e3, cfg)
//	if lambda*cfg.Duration*cfg.TimeScale > 1 {
//	    // nearby scenes separate by e within the run
//	}
package analysis
