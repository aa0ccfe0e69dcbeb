package lattice

import "fmt"

// BoundaryType is the kind of wall a cell presents on one side.
type BoundaryType int

const (
	// BoundaryNone marks a lattice edge with no neighbour.
	BoundaryNone BoundaryType = iota
	// BoundaryConnected marks an edge internal to a multi-cell region, or a
	// region edge stitched to a neighbour for the current slice.
	BoundaryConnected
	// BoundaryRough exposes the Z observable.
	BoundaryRough
	// BoundarySmooth exposes the X observable.
	BoundarySmooth
)

func (b BoundaryType) String() string {
	switch b {
	case BoundaryNone:
		return "None"
	case BoundaryConnected:
		return "Connected"
	case BoundaryRough:
		return "Rough"
	case BoundarySmooth:
		return "Smooth"
	}
	return fmt.Sprintf("BoundaryType(%d)", int(b))
}

// Boundary is one edge of a single cell.
type Boundary struct {
	Type   BoundaryType
	Active bool
}

// SingleCellRegion is one cell plus its four boundaries.
type SingleCellRegion struct {
	Cell   Cell
	Top    Boundary
	Bottom Boundary
	Left   Boundary
	Right  Boundary
}

// Side returns the boundary on side s.
func (r SingleCellRegion) Side(s Side) Boundary {
	switch s {
	case Top:
		return r.Top
	case Bottom:
		return r.Bottom
	case Left:
		return r.Left
	default:
		return r.Right
	}
}

// SetSide replaces the boundary on side s.
func (r *SingleCellRegion) SetSide(s Side, b Boundary) {
	switch s {
	case Top:
		r.Top = b
	case Bottom:
		r.Bottom = b
	case Left:
		r.Left = b
	default:
		r.Right = b
	}
}

// MultiCellRegion is an ordered set of cells forming one 4-connected area.
type MultiCellRegion struct {
	Cells []SingleCellRegion
}

// Extent is the closed set of shapes a patch can take:
// SingleCellRegion or MultiCellRegion.
type Extent interface {
	Regions() []SingleCellRegion
	cloneExtent() Extent
}

func (r SingleCellRegion) Regions() []SingleCellRegion { return []SingleCellRegion{r} }
func (r SingleCellRegion) cloneExtent() Extent         { return r }

func (m MultiCellRegion) Regions() []SingleCellRegion { return m.Cells }
func (m MultiCellRegion) cloneExtent() Extent {
	cells := make([]SingleCellRegion, len(m.Cells))
	copy(cells, m.Cells)
	return MultiCellRegion{Cells: cells}
}

// PatchType classifies what a patch is used for.
type PatchType int

const (
	PatchQubit PatchType = iota
	PatchPreparedState
	PatchDistillation
	PatchRouting
)

func (t PatchType) String() string {
	switch t {
	case PatchQubit:
		return "Qubit"
	case PatchPreparedState:
		return "PreparedState"
	case PatchDistillation:
		return "Distillation"
	case PatchRouting:
		return "Routing"
	}
	return fmt.Sprintf("PatchType(%d)", int(t))
}

// PatchActivity is the transient per-slice activity of a patch.
type PatchActivity int

const (
	ActivityNone PatchActivity = iota
	// ActivityMeasurement is destructive: the patch is gone on the next slice.
	ActivityMeasurement
	// ActivityUnitary lasts exactly one slice.
	ActivityUnitary
)

func (a PatchActivity) String() string {
	switch a {
	case ActivityNone:
		return "None"
	case ActivityMeasurement:
		return "Measurement"
	case ActivityUnitary:
		return "Unitary"
	}
	return fmt.Sprintf("PatchActivity(%d)", int(a))
}

// PatchID identifies a persistent patch across slices.
type PatchID uint32

// Patch is a logical or ancilla region of the lattice.
// ID is nil for transient routing regions and for unbound layout patches.
type Patch struct {
	Extent   Extent
	Type     PatchType
	Activity PatchActivity
	ID       *PatchID
}

// HasID reports whether the patch carries the given identifier.
func (p Patch) HasID(id PatchID) bool {
	return p.ID != nil && *p.ID == id
}

// Regions returns the cells the patch occupies, in extent order.
func (p Patch) Regions() []SingleCellRegion {
	if p.Extent == nil {
		return nil
	}
	return p.Extent.Regions()
}

// Occupies reports whether the patch covers cell c.
func (p Patch) Occupies(c Cell) bool {
	_, ok := p.region(c)
	return ok
}

// Boundary returns the boundary the patch presents on side s of cell c.
func (p Patch) Boundary(c Cell, s Side) (Boundary, bool) {
	r, ok := p.region(c)
	if !ok {
		return Boundary{}, false
	}
	return r.Side(s), true
}

func (p Patch) region(c Cell) (SingleCellRegion, bool) {
	for _, r := range p.Regions() {
		if r.Cell == c {
			return r, true
		}
	}
	return SingleCellRegion{}, false
}

// Clone returns a deep copy that shares no mutable storage with p.
func (p Patch) Clone() Patch {
	out := p
	if p.Extent != nil {
		out.Extent = p.Extent.cloneExtent()
	}
	if p.ID != nil {
		id := *p.ID
		out.ID = &id
	}
	return out
}

// setBoundary rewrites one wall in place. The caller must own the extent (see Clone).
func (p *Patch) setBoundary(c Cell, s Side, b Boundary) {
	switch e := p.Extent.(type) {
	case SingleCellRegion:
		if e.Cell == c {
			e.SetSide(s, b)
			p.Extent = e
		}
	case MultiCellRegion:
		for i := range e.Cells {
			if e.Cells[i].Cell == c {
				e.Cells[i].SetSide(s, b)
			}
		}
	default:
		panic(fmt.Sprintf("setBoundary: unknown extent %T", p.Extent))
	}
}

// ExposedSides lists every (cell, side) whose wall has type bt and faces a
// cell outside the patch. Order follows the extent order, then Sides.
func (p Patch) ExposedSides(bt BoundaryType) []CellSide {
	var out []CellSide
	for _, r := range p.Regions() {
		for _, s := range Sides {
			if r.Side(s).Type != bt || p.Occupies(r.Cell.Neighbour(s)) {
				continue
			}
			out = append(out, CellSide{Cell: r.Cell, Side: s})
		}
	}
	return out
}

// CellSide addresses one wall of one cell.
type CellSide struct {
	Cell Cell
	Side Side
}

// SquarePatch builds a single-cell patch with rough top/bottom and smooth
// left/right boundaries, all inactive.
func SquarePatch(c Cell, t PatchType) Patch {
	return Patch{
		Extent: SingleCellRegion{
			Cell:   c,
			Top:    Boundary{Type: BoundaryRough},
			Bottom: Boundary{Type: BoundaryRough},
			Left:   Boundary{Type: BoundarySmooth},
			Right:  Boundary{Type: BoundarySmooth},
		},
		Type: t,
	}
}

func idRef(id PatchID) *PatchID { return &id }
