package routing

import (
	"container/heap"

	"github.com/lattice-surgery/lsqecc/lattice"
)

// frontierItem is a cell waiting to be expanded at a known distance.
type frontierItem struct {
	cell lattice.Cell
	dist int
}

// frontier implements a priority queue with deterministic ordering
// Ordering: distance → row → column
type frontier struct {
	items []frontierItem
}

// newFrontier creates an empty frontier
func newFrontier() *frontier {
	f := &frontier{
		items: make([]frontierItem, 0),
	}
	heap.Init(f)
	return f
}

// Len implements heap.Interface
func (f *frontier) Len() int {
	return len(f.items)
}

// Less implements heap.Interface with deterministic ordering
// Order by: distance → row → column
func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]

	// Primary: distance (lower first)
	if a.dist != b.dist {
		return a.dist < b.dist
	}

	// Secondary and tertiary: row-major cell order
	return a.cell.Less(b.cell)
}

// Swap implements heap.Interface
func (f *frontier) Swap(i, j int) {
	f.items[i], f.items[j] = f.items[j], f.items[i]
}

// Push implements heap.Interface
func (f *frontier) Push(x interface{}) {
	f.items = append(f.items, x.(frontierItem))
}

// Pop implements heap.Interface
func (f *frontier) Pop() interface{} {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[0 : n-1]
	return item
}

// schedule adds a cell to the frontier
func (f *frontier) schedule(c lattice.Cell, dist int) {
	heap.Push(f, frontierItem{cell: c, dist: dist})
}

// popNext removes and returns the closest cell
func (f *frontier) popNext() (frontierItem, bool) {
	if f.Len() == 0 {
		return frontierItem{}, false
	}
	return heap.Pop(f).(frontierItem), true
}
