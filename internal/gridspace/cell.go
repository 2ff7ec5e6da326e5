package gridspace

import "fmt"

// Cell identifies a coarse spatial partition.
type Cell struct {
	X, Y, Z int64
}

func (c Cell) Add(o Cell) Cell {
	return Cell{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c Cell) Sub(o Cell) Cell {
	return Cell{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

func (c Cell) IsZero() bool {
	return c.X == 0 && c.Y == 0 && c.Z == 0
}

func (c Cell) String() string {
	return fmt.Sprintf("%dx, %dy, %dz", c.X, c.Y, c.Z)
}
