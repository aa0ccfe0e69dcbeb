package lattice

import (
	"fmt"
	"slices"

	"github.com/lattice-surgery/lsqecc/lattice/trace"
)

func (s *Scheduler) locate(cur *Slice, id PatchID) (int, error) {
	idx := cur.PatchByID(id)
	if idx < 0 {
		return -1, fmt.Errorf("%w: patch %d is not on the lattice", ErrUnknownTarget, id)
	}
	return idx, nil
}

// checkObservable fails unless p exposes every boundary type op requires.
func checkObservable(p Patch, op PauliOperator, needAll bool) error {
	required := RequiredBoundaries(op)
	if len(required) == 0 || (!needAll && len(required) > 1) {
		return fmt.Errorf("%w: %v cannot be measured directly", ErrIncompatibleObservable, op)
	}
	for _, bt := range required {
		if len(p.ExposedSides(bt)) == 0 {
			return fmt.Errorf("%w: patch exposes no %v boundary for %v", ErrIncompatibleObservable, bt, op)
		}
	}
	return nil
}

func (s *Scheduler) applyPauli(cur *Slice, op LogicalPauli) error {
	idx, err := s.locate(cur, op.Target)
	if err != nil {
		return err
	}
	cur.Patches[idx].Activity = ActivityUnitary
	return nil
}

// applySingleMeasurement measures a patch in place. Only X and Z are
// supported without an ancilla; Y needs a routed region.
func (s *Scheduler) applySingleMeasurement(cur *Slice, op SinglePatchMeasurement) error {
	idx, err := s.locate(cur, op.Target)
	if err != nil {
		return err
	}
	if err := checkObservable(cur.Patches[idx], op.Observable, false); err != nil {
		return err
	}
	cur.Patches[idx].Activity = ActivityMeasurement
	return nil
}

// applyMultiMeasurement routes one ancilla region touching every target
// through a boundary matching its observable, stitches the joining walls
// and marks the region and the targets as measured.
func (s *Scheduler) applyMultiMeasurement(cur *Slice, targets []TargetObservable) (*trace.RoutingRecord, error) {
	req := RouteRequest{
		Bounds:  s.layout.Bounds(),
		Blocked: s.blocked(cur),
		Targets: make([]RouteTarget, 0, len(targets)),
	}
	indices := make([]int, 0, len(targets))
	for _, t := range targets {
		idx, err := s.locate(cur, t.ID)
		if err != nil {
			return nil, err
		}
		if err := checkObservable(cur.Patches[idx], t.Observable, true); err != nil {
			return nil, fmt.Errorf("patch %d: %w", t.ID, err)
		}
		indices = append(indices, idx)
		req.Targets = append(req.Targets, RouteTarget{Patch: cur.Patches[idx], Observable: t.Observable})
	}

	region, err := s.router.Route(req)
	if err != nil {
		return nil, err
	}

	joins := make(map[int][]BoundaryType, len(indices))
	for i, idx := range indices {
		joins[idx] = RequiredBoundaries(targets[i].Observable)
	}
	materializeRegion(cur, region, joins)
	if err := cur.Validate(); err != nil {
		return nil, fmt.Errorf("%w: router returned an inconsistent region: %v", ErrRoutingInfeasible, err)
	}
	for _, idx := range indices {
		cur.Patches[idx].Activity = ActivityMeasurement
	}

	record := &trace.RoutingRecord{RegionSize: len(region)}
	for _, t := range targets {
		record.Targets = append(record.Targets, uint32(t.ID))
		record.Observables = append(record.Observables, t.Observable.String())
	}
	return record, nil
}

// applyMagicStateRequest waits, inserting idle slices, until the pipeline
// has a state of the requested kind, then places it on a free queue cell
// and joins it to the target through their rough boundaries. It returns the
// slice the effect was written into.
func (s *Scheduler) applyMagicStateRequest(st *staged, cur Slice, op MagicStateRequest) (Slice, error) {
	if _, err := s.locate(&cur, op.Target); err != nil {
		return cur, err
	}
	st.waitKind = op.Kind
	if st.pipeline.Capacity(op.Kind) == 0 {
		return cur, fmt.Errorf("%w: no queue slots produce %v states", ErrQueueDeadlock, op.Kind)
	}
	for !st.pipeline.Peek(op.Kind) {
		if st.idle >= s.cfg.MaxIdleSlices {
			return cur, fmt.Errorf("%w: no %v state after %d idle slices", ErrQueueDeadlock, op.Kind, st.idle)
		}
		cur = st.seal(cur)
		st.idle++
	}

	if err := st.pipeline.Consume(op.Kind); err != nil {
		return cur, err
	}
	id, err := st.ids.Next()
	if err != nil {
		return cur, err
	}
	if !s.placeMagicState(&cur, id) {
		return cur, fmt.Errorf("%w: no free magic state queue location", ErrRoutingInfeasible)
	}

	record, err := s.applyMultiMeasurement(&cur, []TargetObservable{
		{ID: op.Target, Observable: PauliZ},
		{ID: id, Observable: PauliZ},
	})
	if err != nil {
		return cur, err
	}
	st.routing = record
	st.consumed = &trace.ConsumptionRecord{Kind: op.Kind.String(), PatchID: uint32(id), Target: uint32(op.Target)}
	return cur, nil
}

// applyAncillaInitialization places a square qubit patch on the first
// ancilla location that is free and keeps the slice consistent.
func (s *Scheduler) applyAncillaInitialization(cur *Slice, op AncillaQubitInitialization) error {
	if cur.PatchByID(op.Target) >= 0 {
		return fmt.Errorf("%w: patch %d already on the lattice", ErrInvalidAssembly, op.Target)
	}
	for _, c := range s.layout.AncillaLocations() {
		if cur.PatchAt(c) >= 0 || s.reserved[c] {
			continue
		}
		p := SquarePatch(c, PatchQubit)
		p.ID = idRef(op.Target)
		cur.Patches = append(cur.Patches, p)
		if cur.Validate() == nil {
			return nil
		}
		cur.Patches = cur.Patches[:len(cur.Patches)-1]
	}
	return fmt.Errorf("%w: no free ancilla location for patch %d", ErrRoutingInfeasible, op.Target)
}

// placeMagicState puts a prepared-state patch on the first queue location
// that is free and keeps the slice consistent.
func (s *Scheduler) placeMagicState(cur *Slice, id PatchID) bool {
	for _, c := range s.layout.MagicStateQueueLocations() {
		if cur.PatchAt(c) >= 0 {
			continue
		}
		p := SquarePatch(c, PatchPreparedState)
		p.ID = idRef(id)
		cur.Patches = append(cur.Patches, p)
		if cur.Validate() == nil {
			return true
		}
		cur.Patches = cur.Patches[:len(cur.Patches)-1]
	}
	return false
}

// blocked is every cell a routed region may not use.
func (s *Scheduler) blocked(cur *Slice) map[Cell]bool {
	b := make(map[Cell]bool, len(s.reserved))
	for c := range s.reserved {
		b[c] = true
	}
	for c := range cur.Occupancy() {
		b[c] = true
	}
	return b
}

// materializeRegion appends the routed cells to cur as one Routing patch
// under measurement. Walls inside the region are Connected. Walls against a
// target boundary listed in joins are stitched: both sides become
// Connected/active for this slice. Walls against any other occupied cell
// mirror that cell's boundary so adjacent cells always agree.
func materializeRegion(cur *Slice, region []Cell, joins map[int][]BoundaryType) {
	inRegion := make(map[Cell]bool, len(region))
	for _, c := range region {
		inRegion[c] = true
	}
	occ := cur.Occupancy()
	stitched := Boundary{Type: BoundaryConnected, Active: true}

	cells := make([]SingleCellRegion, 0, len(region))
	for _, c := range region {
		r := SingleCellRegion{Cell: c}
		for _, side := range Sides {
			n := c.Neighbour(side)
			if inRegion[n] {
				r.SetSide(side, Boundary{Type: BoundaryConnected})
				continue
			}
			idx, occupied := occ[n]
			if !occupied {
				r.SetSide(side, Boundary{Type: BoundaryNone})
				continue
			}
			theirs, _ := cur.Patches[idx].Boundary(n, side.Opposite())
			if slices.Contains(joins[idx], theirs.Type) {
				r.SetSide(side, stitched)
				cur.Patches[idx].setBoundary(n, side.Opposite(), stitched)
				continue
			}
			r.SetSide(side, theirs)
		}
		cells = append(cells, r)
	}

	var extent Extent = MultiCellRegion{Cells: cells}
	if len(cells) == 1 {
		extent = cells[0]
	}
	cur.Patches = append(cur.Patches, Patch{
		Extent:   extent,
		Type:     PatchRouting,
		Activity: ActivityMeasurement,
	})
}
