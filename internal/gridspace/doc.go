// Package gridspace implements the large-scale coordinate model.
//
// An absolute position is stored as an integer [Cell] plus a float64 offset
// local to that cell's origin. Offsets stay within half a cell edge (plus a
// switching threshold) so their precision does not depend on how far the
// entity is from the nominal origin.
//
// Positions of two entities are only ever compared through [Space.Relative]
// or [Space.Delta], which subtract the integer cells first:
//
//	space := gridspace.DefaultSpace()
//	earth := space.ToGrid(r3.Vec{Z: -149.6e9})
//	moon := space.ToGrid(r3.Vec{Z: -149.6e9, X: 384.4e6})
//	d := space.Delta(earth, moon) // ~{384.4e6, 0, 0}, no 1e11 cancellation
//
// # Rebasing
//
// [Space.Rebase] re-partitions a position whose offset drifted past the bound.
// It never changes the represented absolute position beyond rounding and is a
// no-op for positions already in bound.
package gridspace
