// Package routing provides the default ancilla region router.
// The Router interface is defined in lattice/ (parent package).
//
// SteinerRouter grows one tree of free cells. The first terminal seeds the
// search; every further terminal is connected by a shortest path from any
// cell already in the tree. Y observables contribute two terminals for the
// same patch (one Rough, one Smooth). All ties are broken row-major, so the
// same request always yields the same region.
package routing

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lattice-surgery/lsqecc/lattice"
)

// SteinerRouter is a shortest-path Steiner tree approximation over free cells.
type SteinerRouter struct{}

// NewSteinerRouter creates a SteinerRouter.
func NewSteinerRouter() *SteinerRouter {
	return &SteinerRouter{}
}

// terminal is a set of free cells, any one of which satisfies one boundary
// requirement of one target.
type terminal struct {
	target int
	cells  []lattice.Cell
}

func (r *SteinerRouter) Route(req lattice.RouteRequest) ([]lattice.Cell, error) {
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("%w: no targets", lattice.ErrRoutingInfeasible)
	}

	var terminals []terminal
	for i, t := range req.Targets {
		sets := req.Terminals(t.Patch, t.Observable)
		if len(sets) == 0 {
			return nil, fmt.Errorf("%w: target %d: %v has no boundary to route to", lattice.ErrRoutingInfeasible, i, t.Observable)
		}
		for _, cells := range sets {
			if len(cells) == 0 {
				return nil, fmt.Errorf("%w: target %d has no free cell beside a %v boundary", lattice.ErrRoutingInfeasible, i, t.Observable)
			}
			terminals = append(terminals, terminal{target: i, cells: cells})
		}
	}

	var tree []lattice.Cell
	inTree := make(map[lattice.Cell]bool)
	add := func(cells []lattice.Cell) {
		for _, c := range cells {
			if !inTree[c] {
				inTree[c] = true
				tree = append(tree, c)
			}
		}
	}

	if len(terminals) == 1 {
		add(terminals[0].cells[:1])
		return tree, nil
	}

	sources := terminals[0].cells
	for _, term := range terminals[1:] {
		if touches(term.cells, inTree) {
			continue
		}
		path, ok := shortestPath(req, sources, term.cells)
		if !ok {
			return nil, fmt.Errorf("%w: target %d unreachable from the region", lattice.ErrRoutingInfeasible, term.target)
		}
		add(path)
		sources = tree
	}
	logrus.Debugf("routed %d targets through %d cells", len(req.Targets), len(tree))
	return tree, nil
}

func touches(cells []lattice.Cell, set map[lattice.Cell]bool) bool {
	for _, c := range cells {
		if set[c] {
			return true
		}
	}
	return false
}

// shortestPath runs a multi-source unit-cost search over free cells and
// returns the path from the nearest source to the nearest goal, source first.
func shortestPath(req lattice.RouteRequest, sources, goals []lattice.Cell) ([]lattice.Cell, bool) {
	goal := make(map[lattice.Cell]bool, len(goals))
	for _, g := range goals {
		goal[g] = true
	}

	parent := make(map[lattice.Cell]lattice.Cell)
	discovered := make(map[lattice.Cell]bool)
	settled := make(map[lattice.Cell]bool)
	f := newFrontier()
	for _, s := range sources {
		if !discovered[s] {
			discovered[s] = true
			f.schedule(s, 0)
		}
	}

	for {
		item, ok := f.popNext()
		if !ok {
			return nil, false
		}
		if settled[item.cell] {
			continue
		}
		settled[item.cell] = true
		if goal[item.cell] {
			return walkBack(item.cell, parent), true
		}
		for _, side := range lattice.Sides {
			n := item.cell.Neighbour(side)
			if discovered[n] || !req.Free(n) {
				continue
			}
			discovered[n] = true
			parent[n] = item.cell
			f.schedule(n, item.dist+1)
		}
	}
}

func walkBack(end lattice.Cell, parent map[lattice.Cell]lattice.Cell) []lattice.Cell {
	path := []lattice.Cell{end}
	for {
		p, ok := parent[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
