// Package metrics provides run-level measurements that plug into
// [sim.Simulator.AddMetric].
package metrics
