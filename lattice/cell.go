package lattice

import "fmt"

// Cell is a coordinate on the unbounded lattice grid.
// Rows grow downwards and columns grow to the right.
type Cell struct {
	Row int32
	Col int32
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Less orders cells row-major. Used wherever a deterministic tie-break is needed.
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Side names one of the four edges of a cell.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

// Sides lists the four sides in the fixed order used for all neighbour scans.
var Sides = [4]Side{Top, Bottom, Left, Right}

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Opposite returns the side a neighbour presents back across the same wall.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

// Neighbour returns the cell across the given side.
func (c Cell) Neighbour(s Side) Cell {
	switch s {
	case Top:
		return Cell{Row: c.Row - 1, Col: c.Col}
	case Bottom:
		return Cell{Row: c.Row + 1, Col: c.Col}
	case Left:
		return Cell{Row: c.Row, Col: c.Col - 1}
	default:
		return Cell{Row: c.Row, Col: c.Col + 1}
	}
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	MinRow, MinCol int32
	MaxRow, MaxCol int32
}

// Contains reports whether c lies inside the rectangle.
func (r Rect) Contains(c Cell) bool {
	return c.Row >= r.MinRow && c.Row <= r.MaxRow && c.Col >= r.MinCol && c.Col <= r.MaxCol
}
