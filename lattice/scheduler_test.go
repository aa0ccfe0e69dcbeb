package lattice

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-surgery/lsqecc/lattice/trace"
)

func TestMakePatchComputation_NoInstructions_SingleIdleSlice(t *testing.T) {
	// GIVEN one core qubit and no instructions
	a := LogicalLatticeAssembly{CoreQubits: ids(0)}

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())

	// THEN there is exactly one slice holding an idle square qubit at (0,0)
	require.Equal(t, 1, pc.NumSlices())
	s := pc.Slice(0)
	require.Len(t, s.Patches, 1)
	p := s.Patches[0]
	assert.Equal(t, PatchQubit, p.Type)
	assert.Equal(t, ActivityNone, p.Activity)
	assert.Equal(t, SingleCellRegion{
		Cell:   Cell{Row: 0, Col: 0},
		Top:    Boundary{Type: BoundaryRough},
		Bottom: Boundary{Type: BoundaryRough},
		Left:   Boundary{Type: BoundarySmooth},
		Right:  Boundary{Type: BoundarySmooth},
	}, p.Extent)
	// the core patch is bound to its logical qubit id
	assert.True(t, p.HasID(0))
}

func TestMakePatchComputation_SingleMeasurement_PatchVanishes(t *testing.T) {
	// GIVEN one qubit measured in X
	instr := SinglePatchMeasurement{Target: 0, Observable: PauliX}
	a := LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(instr)}

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())

	// THEN slice 0 shows the measurement and slice 1 no longer holds the qubit
	require.Equal(t, 2, pc.NumSlices())
	assert.Equal(t, ActivityMeasurement, patchWithID(t, pc.Slice(0), 0).Activity)
	assert.Equal(t, ops(instr), pc.Slice(0).Operations)
	assert.Equal(t, -1, pc.Slice(1).PatchByID(0))
	assert.Empty(t, pc.Slice(1).Operations)
}

// mixedAssembly exercises every instruction that needs no idle slices.
func mixedAssembly() LogicalLatticeAssembly {
	return LogicalLatticeAssembly{
		CoreQubits: ids(0, 1, 2, 3),
		Instructions: ops(
			LogicalPauli{Target: 0, Operator: PauliX},
			SinglePatchMeasurement{Target: 1, Observable: PauliZ, Negate: true},
			AncillaQubitInitialization{Target: 8, State: AncillaZero},
			joint(TargetObservable{ID: 0, Observable: PauliX}, TargetObservable{ID: 2, Observable: PauliZ}),
			MagicStateRequest{Target: 3, Kind: MagicStateS},
			LogicalPauli{Target: 8, Operator: PauliZ},
			SinglePatchMeasurement{Target: 8, Observable: PauliX},
		),
	}
}

func TestScheduler_TimelineLaws(t *testing.T) {
	// GIVEN an assembly mixing every instruction kind
	a := mixedAssembly()

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())

	// THEN one slice per instruction plus the initial slice
	require.Equal(t, 1+len(a.Instructions), pc.NumSlices())

	// AND every slice satisfies the geometric invariants
	assertTimelineInvariants(t, pc)

	for i, instr := range a.Instructions {
		cur, next := pc.Slice(i), pc.Slice(i+1)
		assert.Equal(t, ops(instr), cur.Operations, "slice %d operations", i)
		switch op := instr.(type) {
		case LogicalPauli:
			// unitary lasts exactly one slice
			assert.Equal(t, ActivityUnitary, patchWithID(t, cur, op.Target).Activity)
			assert.Equal(t, ActivityNone, patchWithID(t, next, op.Target).Activity)
		case SinglePatchMeasurement, MultiPatchMeasurement, MagicStateRequest:
			// measured targets are present, then gone
			for _, id := range instr.OperatingPatches() {
				assert.Equal(t, ActivityMeasurement, patchWithID(t, cur, id).Activity, "instruction %d target %d", i, id)
				assert.Equal(t, -1, next.PatchByID(id), "instruction %d target %d survived", i, id)
			}
		case AncillaQubitInitialization:
			assert.Equal(t, PatchQubit, patchWithID(t, cur, op.Target).Type)
		}
		// routing regions never outlive their slice
		assert.Empty(t, routingPatches(next), "slice %d", i+1)
	}
}

func TestScheduler_Determinism_IndependentRuns(t *testing.T) {
	slowT := DefaultSchedulerConfig()
	slowT.MagicStates.T = MagicStateKindConfig{Slots: 1, ProductionRounds: 3}

	tests := []struct {
		name       string
		assembly   LogicalLatticeAssembly
		cfg        SchedulerConfig
		wantSlices int
	}{
		{"mixed", mixedAssembly(), DefaultSchedulerConfig(), 1 + len(mixedAssembly().Instructions)},
		{"magic state wait", LogicalLatticeAssembly{CoreQubits: ids(0, 1), Instructions: ops(
			MagicStateRequest{Target: 0, Kind: MagicStateT},
			MagicStateRequest{Target: 1, Kind: MagicStateT},
		)}, slowT, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// GIVEN the same assembly compiled concurrently by independent schedulers
			const runs = 4
			results := make([]*PatchComputation, runs)
			var wg sync.WaitGroup
			for i := 0; i < runs; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					pc, err := MakePatchComputation(tc.assembly, tc.cfg)
					if err == nil {
						results[i] = pc
					}
				}(i)
			}
			wg.Wait()

			// THEN every run yields an identical timeline
			require.NotNil(t, results[0])
			assert.Equal(t, tc.wantSlices, results[0].NumSlices())
			for i := 1; i < runs; i++ {
				require.NotNil(t, results[i])
				assert.Equal(t, results[0].slices, results[i].slices, "run %d differs", i)
			}
		})
	}
}

func TestScheduler_JointMeasurement_StitchesMatchingWalls(t *testing.T) {
	// GIVEN two qubits measured jointly in Y and Z
	a := LogicalLatticeAssembly{CoreQubits: ids(0, 1), Instructions: ops(
		joint(TargetObservable{ID: 0, Observable: PauliY}, TargetObservable{ID: 1, Observable: PauliZ}),
	)}

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())
	s := pc.Slice(0)

	// THEN one routing region touches q0's rough and smooth walls and q1's rough wall
	routing := routingPatches(s)
	require.Len(t, routing, 1)
	assert.Equal(t, ActivityMeasurement, routing[0].Activity)
	assert.Nil(t, routing[0].ID)
	assert.Len(t, routing[0].Regions(), 4)

	stitched := Boundary{Type: BoundaryConnected, Active: true}
	q0, q1 := patchWithID(t, s, 0), patchWithID(t, s, 1)
	b, _ := q0.Boundary(Cell{Row: 0, Col: 0}, Bottom)
	assert.Equal(t, stitched, b)
	b, _ = q0.Boundary(Cell{Row: 0, Col: 0}, Right)
	assert.Equal(t, stitched, b)
	b, _ = q1.Boundary(Cell{Row: 0, Col: 2}, Bottom)
	assert.Equal(t, stitched, b)
	// q1's smooth wall is only mirrored by the region, not joined
	b, _ = q1.Boundary(Cell{Row: 0, Col: 2}, Left)
	assert.Equal(t, Boundary{Type: BoundarySmooth}, b)

	assertTimelineInvariants(t, pc)
	assert.Empty(t, pc.Slice(1).Patches)
}

func TestScheduler_RoutingInfeasible_TimelineUnchanged(t *testing.T) {
	// GIVEN two far-apart qubits with a reserved column between them
	layout := &gridLayout{
		core:       squares(Cell{Row: 0, Col: 0}, Cell{Row: 0, Col: 6}),
		distillery: []Cell{{Row: 0, Col: 3}, {Row: 1, Col: 3}, {Row: 2, Col: 3}},
		bounds:     Rect{MinRow: 0, MinCol: 0, MaxRow: 2, MaxCol: 6},
	}
	a := LogicalLatticeAssembly{CoreQubits: ids(0, 1), Instructions: ops(
		LogicalPauli{Target: 0, Operator: PauliX},
		joint(TargetObservable{ID: 0, Observable: PauliZ}, TargetObservable{ID: 1, Observable: PauliZ}),
	)}
	s, err := NewScheduler(a, layout, DefaultSchedulerConfig())
	require.NoError(t, err)
	s.Trace = trace.NewScheduleTrace(trace.TraceLevelDecisions)

	// WHEN scheduled
	err = s.Run()

	// THEN the joint measurement fails with its index and nothing of it is committed
	require.ErrorIs(t, err, ErrRoutingInfeasible)
	var ie *InstructionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Index)
	assert.Equal(t, 1, ie.LastSlice)
	assert.Equal(t, 2, s.Computation().NumSlices())
	assert.Empty(t, routingPatches(s.Computation().LastSlice()))
	assert.Empty(t, s.Computation().LastSlice().Operations)

	// AND the failure is sticky and traced
	assert.Same(t, ie, s.Step())
	assert.False(t, s.Done())
	require.Len(t, s.Trace.Failures, 1)
	assert.Equal(t, trace.FailureRecord{Instruction: 1, LastSlice: 1, Reason: ie.Err.Error()}, s.Trace.Failures[0])
}

func TestScheduler_InstructionFailures(t *testing.T) {
	tests := []struct {
		name       string
		assembly   LogicalLatticeAssembly
		cfg        func(*SchedulerConfig)
		wantErr    error
		wantIndex  int
		wantSlices int
	}{
		{
			name: "target already measured",
			assembly: LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(
				SinglePatchMeasurement{Target: 0, Observable: PauliZ},
				LogicalPauli{Target: 0, Operator: PauliX},
			)},
			wantErr:    ErrUnknownTarget,
			wantIndex:  1,
			wantSlices: 2,
		},
		{
			name: "single Y measurement",
			assembly: LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(
				SinglePatchMeasurement{Target: 0, Observable: PauliY},
			)},
			wantErr:    ErrIncompatibleObservable,
			wantSlices: 1,
		},
		{
			name: "kind with no queue slots",
			assembly: LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(
				MagicStateRequest{Target: 0, Kind: MagicStateT},
			)},
			cfg:        func(c *SchedulerConfig) { c.MagicStates.T.Slots = 0 },
			wantErr:    ErrQueueDeadlock,
			wantSlices: 1,
		},
		{
			name: "patience exhausted",
			assembly: LogicalLatticeAssembly{CoreQubits: ids(0, 1), Instructions: ops(
				MagicStateRequest{Target: 0, Kind: MagicStateT},
				MagicStateRequest{Target: 1, Kind: MagicStateT},
			)},
			cfg: func(c *SchedulerConfig) {
				c.MagicStates.T = MagicStateKindConfig{Slots: 1, ProductionRounds: 10}
				c.MaxIdleSlices = 3
			},
			wantErr:    ErrQueueDeadlock,
			wantIndex:  1,
			wantSlices: 2,
		},
		{
			name: "no ancilla location",
			assembly: LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(
				AncillaQubitInitialization{Target: 1},
				AncillaQubitInitialization{Target: 2},
			)},
			cfg:        func(c *SchedulerConfig) { c.Layout.AncillaSlots = 1 },
			wantErr:    ErrRoutingInfeasible,
			wantIndex:  1,
			wantSlices: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSchedulerConfig()
			if tc.cfg != nil {
				tc.cfg(&cfg)
			}
			pc, err := MakePatchComputation(tc.assembly, cfg)
			require.ErrorIs(t, err, tc.wantErr)
			var ie *InstructionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.wantIndex, ie.Index)
			require.NotNil(t, pc)
			assert.Equal(t, tc.wantSlices, pc.NumSlices())
			assert.Equal(t, tc.wantSlices-1, ie.LastSlice)
			assertTimelineInvariants(t, pc)
		})
	}
}

func TestScheduler_MagicStateRequest_ConsumesAndJoins(t *testing.T) {
	// GIVEN one qubit requesting a T state
	a := LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(MagicStateRequest{Target: 0, Kind: MagicStateT})}
	s, err := NewScheduler(a, NewSimpleLayout(1, DefaultSchedulerConfig().Layout), DefaultSchedulerConfig())
	require.NoError(t, err)
	s.Trace = trace.NewScheduleTrace(trace.TraceLevelDecisions)

	// WHEN scheduled
	require.NoError(t, s.Run())
	pc := s.Computation()

	// THEN a prepared state with a fresh id appears on the first queue cell and is measured with the target
	require.Equal(t, 2, pc.NumSlices())
	magic := patchWithID(t, pc.Slice(0), 1)
	assert.Equal(t, PatchPreparedState, magic.Type)
	assert.True(t, magic.Occupies(Cell{Row: 0, Col: 2}))
	assert.Equal(t, ActivityMeasurement, magic.Activity)
	assert.Equal(t, ActivityMeasurement, patchWithID(t, pc.Slice(0), 0).Activity)
	assert.Empty(t, pc.Slice(1).Patches)

	// AND the consumption and its routing are traced
	assert.Equal(t, []trace.ConsumptionRecord{{Instruction: 0, Slice: 0, Kind: "T", PatchID: 1, Target: 0}}, s.Trace.Consumptions)
	require.Len(t, s.Trace.Routings, 1)
	assert.Equal(t, []uint32{0, 1}, s.Trace.Routings[0].Targets)
	assert.Equal(t, 3, s.Trace.Routings[0].RegionSize)
	assert.Empty(t, s.Trace.Waits)
}

func TestScheduler_MagicStateWait_InsertsIdleSlices(t *testing.T) {
	// GIVEN one T slot refilling in 3 rounds and two back-to-back T requests
	cfg := DefaultSchedulerConfig()
	cfg.MagicStates.T = MagicStateKindConfig{Slots: 1, ProductionRounds: 3}
	second := MagicStateRequest{Target: 1, Kind: MagicStateT}
	a := LogicalLatticeAssembly{CoreQubits: ids(0, 1), Instructions: ops(
		MagicStateRequest{Target: 0, Kind: MagicStateT},
		second,
	)}
	s, err := NewScheduler(a, NewSimpleLayout(2, cfg.Layout), cfg)
	require.NoError(t, err)
	s.Trace = trace.NewScheduleTrace(trace.TraceLevelDecisions)

	// WHEN scheduled
	require.NoError(t, s.Run())
	pc := s.Computation()

	// THEN two idle slices precede the second request's effect slice
	require.Equal(t, 5, pc.NumSlices())
	for _, idx := range []int{1, 2} {
		assert.Empty(t, pc.Slice(idx).Operations, "slice %d", idx)
		assert.Equal(t, ActivityNone, patchWithID(t, pc.Slice(idx), 1).Activity, "slice %d", idx)
	}
	assert.Equal(t, ops(second), pc.Slice(3).Operations)
	assert.Equal(t, ActivityMeasurement, patchWithID(t, pc.Slice(3), 1).Activity)
	assert.Equal(t, PatchPreparedState, patchWithID(t, pc.Slice(3), 3).Type)
	assert.Equal(t, -1, pc.Slice(4).PatchByID(1))
	assertTimelineInvariants(t, pc)

	// AND the wait is traced against the effect slice
	assert.Equal(t, []trace.WaitRecord{{Instruction: 1, Kind: "T", IdleSlices: 2}}, s.Trace.Waits)
	require.Len(t, s.Trace.Consumptions, 2)
	assert.Equal(t, 3, s.Trace.Consumptions[1].Slice)
	assert.Equal(t, uint32(3), s.Trace.Consumptions[1].PatchID)
}

func TestScheduler_MagicStateIDs_StartAboveDeclared(t *testing.T) {
	// GIVEN core ids declared out of order
	a := LogicalLatticeAssembly{CoreQubits: ids(5, 2), Instructions: ops(MagicStateRequest{Target: 2, Kind: MagicStateS})}

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())

	// THEN core patches carry their ids in layout order and the magic state takes max+1
	assert.True(t, pc.Slice(0).Patches[0].HasID(5))
	assert.True(t, pc.Slice(0).Patches[1].HasID(2))
	assert.Equal(t, PatchPreparedState, patchWithID(t, pc.Slice(0), 6).Type)
	assert.Equal(t, 0, pc.Slice(1).PatchByID(5))
}

func TestScheduler_MagicStateIDs_TopOfRange_NeverReuseCoreID(t *testing.T) {
	// GIVEN core ids 0 and the largest possible id, which requests a T state
	top := PatchID(math.MaxUint32)
	a := LogicalLatticeAssembly{CoreQubits: ids(0, top), Instructions: ops(MagicStateRequest{Target: top, Kind: MagicStateT})}

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())

	// THEN the magic state gets the first unused id and only it and the target are measured
	s := pc.Slice(0)
	magic := patchWithID(t, s, 1)
	assert.Equal(t, PatchPreparedState, magic.Type)
	assert.Equal(t, ActivityMeasurement, magic.Activity)
	assert.Equal(t, ActivityMeasurement, patchWithID(t, s, top).Activity)
	q0 := patchWithID(t, s, 0)
	assert.Equal(t, PatchQubit, q0.Type)
	assert.Equal(t, ActivityNone, q0.Activity)

	// AND only core qubit 0 survives into the next slice
	next := pc.Slice(1)
	require.Len(t, next.Patches, 1)
	assert.True(t, next.Patches[0].HasID(0))
	assert.Equal(t, PatchQubit, next.Patches[0].Type)
	assertTimelineInvariants(t, pc)
}

func TestScheduler_AncillaInitialization_PlacesQubitPatch(t *testing.T) {
	// GIVEN an ancilla initialized then rotated in the Pauli frame
	a := LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(
		AncillaQubitInitialization{Target: 4, State: AncillaPlus},
		LogicalPauli{Target: 4, Operator: PauliX},
	)}

	// WHEN compiled
	pc := mustCompile(t, a, DefaultSchedulerConfig())

	// THEN the ancilla sits on the first ancilla location from its own slice on
	require.Equal(t, 3, pc.NumSlices())
	anc := patchWithID(t, pc.Slice(0), 4)
	assert.True(t, anc.Occupies(Cell{Row: 2, Col: 0}))
	assert.Equal(t, PatchQubit, anc.Type)
	assert.Equal(t, ActivityUnitary, patchWithID(t, pc.Slice(1), 4).Activity)
	assert.Equal(t, ActivityNone, patchWithID(t, pc.Slice(2), 4).Activity)
}

func TestScheduler_SliceDuration_AppliesToEverySlice(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	cfg.SliceDuration = 3
	pc := mustCompile(t, mixedAssembly(), cfg)
	for i, s := range pc.All() {
		assert.Equal(t, 3, s.Duration, "slice %d", i)
	}
}

func TestScheduler_Distillery_RoutesAroundReservedCells(t *testing.T) {
	// GIVEN a layout with a distillery block and a T request
	cfg := DefaultSchedulerConfig()
	cfg.Layout.Distillery = true
	a := LogicalLatticeAssembly{CoreQubits: ids(0, 1, 2), Instructions: ops(
		MagicStateRequest{Target: 1, Kind: MagicStateT},
		joint(TargetObservable{ID: 0, Observable: PauliX}, TargetObservable{ID: 2, Observable: PauliX}),
	)}
	layout := NewSimpleLayout(3, cfg.Layout)

	// WHEN compiled
	pc := mustCompile(t, a, cfg)

	// THEN no slice ever places a patch on a distillery cell
	reserved := make(map[Cell]bool)
	for _, c := range layout.DistilleryLocations() {
		reserved[c] = true
	}
	for i, s := range pc.All() {
		for c := range s.Occupancy() {
			assert.False(t, reserved[c], "slice %d occupies distillery cell %v", i, c)
		}
	}
}

func TestScheduler_StepAfterDone_NoOp(t *testing.T) {
	a := LogicalLatticeAssembly{CoreQubits: ids(0), Instructions: ops(LogicalPauli{Target: 0, Operator: PauliZ})}
	s, err := NewScheduler(a, NewSimpleLayout(1, SimpleLayoutConfig{}), DefaultSchedulerConfig())
	require.NoError(t, err)
	require.NoError(t, s.Step())
	assert.True(t, s.Done())
	require.NoError(t, s.Step())
	assert.Equal(t, 2, s.Computation().NumSlices())
}

func TestNewScheduler_RejectsBadInput(t *testing.T) {
	oneQubit := LogicalLatticeAssembly{CoreQubits: ids(0)}
	twoQubits := LogicalLatticeAssembly{CoreQubits: ids(0, 1)}
	bounds := Rect{MaxRow: 2, MaxCol: 6}
	tests := []struct {
		name     string
		assembly LogicalLatticeAssembly
		layout   Layout
		cfg      func(*SchedulerConfig)
		wantErr  error
	}{
		{
			name:     "duplicate core ids",
			assembly: LogicalLatticeAssembly{CoreQubits: ids(3, 3)},
			layout:   NewSimpleLayout(2, SimpleLayoutConfig{}),
			wantErr:  ErrInvalidAssembly,
		},
		{
			name:     "core count mismatch",
			assembly: twoQubits,
			layout:   &gridLayout{core: squares(Cell{}), bounds: bounds},
			wantErr:  ErrInvalidLayout,
		},
		{
			name:     "overlapping core patches",
			assembly: twoQubits,
			layout:   &gridLayout{core: squares(Cell{}, Cell{}), bounds: bounds},
			wantErr:  ErrInvalidLayout,
		},
		{
			name:     "core patch on a reserved cell",
			assembly: oneQubit,
			layout:   &gridLayout{core: squares(Cell{}), distillery: []Cell{{}}, bounds: bounds},
			wantErr:  ErrInvalidLayout,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewScheduler(tc.assembly, tc.layout, DefaultSchedulerConfig())
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, s)
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultSchedulerConfig()
		cfg.SliceDuration = 0
		_, err := MakePatchComputation(oneQubit, cfg)
		assert.Error(t, err)
	})
}
