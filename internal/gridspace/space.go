package gridspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orrery/internal/mathutil"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidSpace is returned by Validate for unusable grid settings.
var ErrInvalidSpace = errors.New("gridspace: invalid grid settings")

const (
	DefaultCellEdge           = 10_000.0
	DefaultSwitchingThreshold = 100.0
)

// Position is a cell index plus the offset from that cell's origin.
type Position struct {
	Cell   Cell
	Offset r3.Vec
}

// Space holds the grid settings shared by every position of a scene.
type Space struct {
	// CellEdge is the edge length of a cell.
	CellEdge float64
	// SwitchingThreshold is how far past half an edge an offset may drift
	// before it is rebased. It keeps entities sitting on a cell boundary
	// from flipping cells every tick.
	SwitchingThreshold float64
}

func DefaultSpace() Space {
	return Space{
		CellEdge:           DefaultCellEdge,
		SwitchingThreshold: DefaultSwitchingThreshold,
	}
}

func (s Space) Validate() error {
	if !(s.CellEdge > 0) || math.IsInf(s.CellEdge, 0) {
		return fmt.Errorf("%w: cell edge %v", ErrInvalidSpace, s.CellEdge)
	}
	if !(s.SwitchingThreshold >= 0) || math.IsInf(s.SwitchingThreshold, 0) {
		return fmt.Errorf("%w: switching threshold %v", ErrInvalidSpace, s.SwitchingThreshold)
	}
	return nil
}

// ToGrid partitions an absolute vector into the nearest cell and the
// offset from that cell's origin.
func (s Space) ToGrid(abs r3.Vec) Position {
	cx := math.Round(abs.X / s.CellEdge)
	cy := math.Round(abs.Y / s.CellEdge)
	cz := math.Round(abs.Z / s.CellEdge)
	return Position{
		Cell: Cell{int64(cx), int64(cy), int64(cz)},
		Offset: r3.Vec{
			X: abs.X - cx*s.CellEdge,
			Y: abs.Y - cy*s.CellEdge,
			Z: abs.Z - cz*s.CellEdge,
		},
	}
}

// CellOrigin returns the absolute origin of a cell.
func (s Space) CellOrigin(c Cell) r3.Vec {
	return r3.Vec{
		X: float64(c.X) * s.CellEdge,
		Y: float64(c.Y) * s.CellEdge,
		Z: float64(c.Z) * s.CellEdge,
	}
}

// Absolute reconstructs cell·edge + offset. Differencing two results of
// Absolute loses precision far from the origin; use Delta instead.
func (s Space) Absolute(p Position) r3.Vec {
	return r3.Add(s.CellOrigin(p.Cell), p.Offset)
}

// Relative returns other expressed relative to the origin of cell self.
func (s Space) Relative(other Position, self Cell) r3.Vec {
	return r3.Add(s.CellOrigin(other.Cell.Sub(self)), other.Offset)
}

// Delta returns the vector from `from` to `to`.
func (s Space) Delta(from, to Position) r3.Vec {
	return r3.Sub(s.Relative(to, from.Cell), from.Offset)
}

// Distance is the length of Delta(a, b). Both positions are expressed in
// a's cell frame before measuring.
func (s Space) Distance(a, b Position) float64 {
	ra, rb := a.Offset, s.Relative(b, a.Cell)
	return mathutil.Distance3(ra.X, ra.Y, ra.Z, rb.X, rb.Y, rb.Z)
}

// NeedsRebase reports whether any offset axis is past the switching bound.
func (s Space) NeedsRebase(p Position) bool {
	limit := s.CellEdge/2 + s.SwitchingThreshold
	return math.Abs(p.Offset.X) > limit ||
		math.Abs(p.Offset.Y) > limit ||
		math.Abs(p.Offset.Z) > limit
}

// Rebase moves whole cells out of the offset into the cell index.
func (s Space) Rebase(p Position) Position {
	if !s.NeedsRebase(p) {
		return p
	}
	sub := s.ToGrid(p.Offset)
	return Position{
		Cell:   p.Cell.Add(sub.Cell),
		Offset: sub.Offset,
	}
}

// Translate displaces p by delta and rebases the result.
func (s Space) Translate(p Position, delta r3.Vec) Position {
	p.Offset = r3.Add(p.Offset, delta)
	return s.Rebase(p)
}

// RenderTranslation is the single-precision translation of p relative to
// a floating origin, the value a renderer places in its transform.
func (s Space) RenderTranslation(p, origin Position) mgl32.Vec3 {
	d := s.Delta(origin, p)
	return mgl32.Vec3{float32(d.X), float32(d.Y), float32(d.Z)}
}
