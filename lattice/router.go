package lattice

// RouteTarget is one patch a routed region must reach, through a boundary
// matching Observable.
type RouteTarget struct {
	Patch      Patch
	Observable PauliOperator
}

// RouteRequest describes one routing problem.
type RouteRequest struct {
	// Bounds limits the search; cells outside are never used.
	Bounds Rect
	// Blocked holds every cell the region may not use: occupied cells,
	// distillery cells and magic-state queue cells.
	Blocked map[Cell]bool
	// Targets in measurement order.
	Targets []RouteTarget
}

// Free reports whether c may become part of a routed region.
func (r RouteRequest) Free(c Cell) bool {
	return r.Bounds.Contains(c) && !r.Blocked[c]
}

// Router finds an ancilla region for a joint measurement.
//
// Implementations must return a single 4-connected set of free cells such
// that, for every target and every boundary type RequiredBoundaries demands
// of its observable, some cell of the region sits across an exposed wall of
// that type. Same request in, same region out.
// When no such region exists Route returns an error wrapping ErrRoutingInfeasible.
type Router interface {
	Route(req RouteRequest) ([]Cell, error)
}

// NewRouterFunc constructs the default Router. Set by lattice/routing's init().
var NewRouterFunc func() Router

// RequiredBoundaries returns the boundary types a region must touch to
// measure op: X needs Smooth, Z needs Rough, Y needs both.
func RequiredBoundaries(op PauliOperator) []BoundaryType {
	switch op {
	case PauliX:
		return []BoundaryType{BoundarySmooth}
	case PauliZ:
		return []BoundaryType{BoundaryRough}
	case PauliY:
		return []BoundaryType{BoundaryRough, BoundarySmooth}
	}
	return nil
}

// Terminals lists, for each boundary type op requires, the free cells across
// a matching exposed wall of p. The outer slice follows RequiredBoundaries.
func (r RouteRequest) Terminals(p Patch, op PauliOperator) [][]Cell {
	required := RequiredBoundaries(op)
	out := make([][]Cell, 0, len(required))
	for _, bt := range required {
		var cells []Cell
		seen := make(map[Cell]bool)
		for _, cs := range p.ExposedSides(bt) {
			n := cs.Cell.Neighbour(cs.Side)
			if r.Free(n) && !seen[n] {
				seen[n] = true
				cells = append(cells, n)
			}
		}
		out = append(out, cells)
	}
	return out
}
