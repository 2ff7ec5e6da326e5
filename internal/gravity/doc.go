// Package gravity implements the pairwise N-body integrator that runs over
// the grid coordinate model.
//
// Each tick runs in separate phases over the registry:
//
//  1. accelerations for every body, all read from the same snapshot
//  2. velocity update (kick)
//  3. position update through [gridspace.Space.Translate] (drift), which
//     rebases offsets that crossed the switching bound
//
// Accelerations and drifts are independent per body and are split across
// workers; no phase starts before the previous one has finished for every
// body.
//
// # Gravity-exempt bodies
//
// Bodies flagged [body.Body.NoGravity] are accelerated by every source but
// are never a source themselves. The relation is deliberately asymmetric:
// a swarm of asteroids can be simulated at O(n·m) cost against m planets
// without perturbing them.
//
// # Coincident centers of mass
//
// A pair whose relative vector is exactly zero contributes zero
// acceleration rather than an infinite or NaN one.
package gravity
