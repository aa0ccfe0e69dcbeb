package lattice

import "fmt"

// Slice is the lattice configuration held fixed for Duration rounds of
// syndrome extraction.
type Slice struct {
	Duration int
	Patches  []Patch
	// Operations whose effect is visible in this slice, in program order.
	// Carries measurement signs through to downstream consumers.
	Operations []LogicalLatticeOperation
}

// NextSlice derives the slice that follows s:
// measured patches are dropped, unitary activity is cleared, everything else
// (including idle routing patches) is carried over unchanged.
func (s Slice) NextSlice() Slice {
	next := Slice{Duration: s.Duration, Patches: make([]Patch, 0, len(s.Patches))}
	for _, p := range s.Patches {
		if p.Activity == ActivityMeasurement {
			continue
		}
		q := p.Clone()
		if q.Activity == ActivityUnitary {
			q.Activity = ActivityNone
		}
		next.Patches = append(next.Patches, q)
	}
	return next
}

// Clone returns a deep copy of s.
func (s Slice) Clone() Slice {
	out := Slice{Duration: s.Duration, Patches: make([]Patch, len(s.Patches))}
	for i, p := range s.Patches {
		out.Patches[i] = p.Clone()
	}
	if len(s.Operations) > 0 {
		out.Operations = append([]LogicalLatticeOperation(nil), s.Operations...)
	}
	return out
}

// PatchByID returns the index of the patch carrying id, or -1.
func (s Slice) PatchByID(id PatchID) int {
	for i, p := range s.Patches {
		if p.HasID(id) {
			return i
		}
	}
	return -1
}

// PatchAt returns the index of the patch occupying c, or -1.
func (s Slice) PatchAt(c Cell) int {
	for i, p := range s.Patches {
		if p.Occupies(c) {
			return i
		}
	}
	return -1
}

// Occupancy maps every occupied cell to the index of its patch.
func (s Slice) Occupancy() map[Cell]int {
	occ := make(map[Cell]int)
	for i, p := range s.Patches {
		for _, r := range p.Regions() {
			occ[r.Cell] = i
		}
	}
	return occ
}

// Validate checks the geometric invariants of a slice: extents never
// overlap, multi-cell extents are 4-connected, and every pair of adjacent
// occupied cells agrees on the wall between them.
func (s Slice) Validate() error {
	if s.Duration < 1 {
		return fmt.Errorf("slice duration must be positive, got %d", s.Duration)
	}
	occ := make(map[Cell]int)
	for i, p := range s.Patches {
		regions := p.Regions()
		if len(regions) == 0 {
			return fmt.Errorf("patch %d has an empty extent", i)
		}
		for _, r := range regions {
			if j, taken := occ[r.Cell]; taken {
				return fmt.Errorf("patches %d and %d overlap at %v", j, i, r.Cell)
			}
			occ[r.Cell] = i
		}
		if !connected(regions) {
			return fmt.Errorf("patch %d extent is not 4-connected", i)
		}
	}
	for i, p := range s.Patches {
		for _, r := range p.Regions() {
			for _, side := range Sides {
				nc := r.Cell.Neighbour(side)
				j, ok := occ[nc]
				if !ok {
					continue
				}
				mine := r.Side(side)
				theirs, _ := s.Patches[j].Boundary(nc, side.Opposite())
				if mine != theirs {
					return fmt.Errorf("asymmetric wall between %v (patch %d, %s %v/%t) and %v (patch %d, %s %v/%t)",
						r.Cell, i, side, mine.Type, mine.Active, nc, j, side.Opposite(), theirs.Type, theirs.Active)
				}
			}
		}
	}
	return nil
}

func connected(regions []SingleCellRegion) bool {
	if len(regions) <= 1 {
		return true
	}
	cells := make(map[Cell]bool, len(regions))
	for _, r := range regions {
		cells[r.Cell] = true
	}
	seen := map[Cell]bool{regions[0].Cell: true}
	stack := []Cell{regions[0].Cell}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, side := range Sides {
			n := c.Neighbour(side)
			if cells[n] && !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return len(seen) == len(cells)
}
