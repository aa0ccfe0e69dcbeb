package lattice

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lattice-surgery/lsqecc/lattice/trace"
)

// Scheduler turns a LogicalLatticeAssembly into a PatchComputation, one
// instruction at a time. Each instruction is staged on copies of the
// timeline tail, the magic state pipeline and the id allocator, and only
// committed when every step of it succeeded.
//
// The final slice of the timeline is the open frame: the next instruction's
// effect is written into it before it is sealed and its successor appended.
// Sealed slices are never touched again.
//
// Thread-safety: NOT thread-safe. Independent Schedulers share no state and
// may run on separate goroutines.
type Scheduler struct {
	assembly    LogicalLatticeAssembly
	layout      Layout
	cfg         SchedulerConfig
	router      Router
	pipeline    MagicStatePipeline
	ids         *idAllocator
	computation *PatchComputation
	reserved    map[Cell]bool // distillery and magic-state queue cells
	next        int           // next instruction index
	failed      *InstructionError

	// Trace collects decision records when its level is "decisions". May be nil.
	Trace *trace.ScheduleTrace
}

// NewScheduler validates the configuration and the assembly, takes ownership
// of layout and builds slice 0 from layout.CorePatches(). Core patch i is
// bound to assembly.CoreQubits[i].
//
// Panics if lattice/routing or lattice/magicstate has not been imported.
func NewScheduler(assembly LogicalLatticeAssembly, layout Layout, cfg SchedulerConfig) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := assembly.Validate(); err != nil {
		return nil, err
	}
	if NewRouterFunc == nil {
		panic("NewScheduler: NewRouterFunc is nil; import lattice/routing")
	}
	if NewMagicStatePipelineFunc == nil {
		panic("NewScheduler: NewMagicStatePipelineFunc is nil; import lattice/magicstate")
	}

	s := &Scheduler{
		assembly: assembly,
		layout:   layout,
		cfg:      cfg,
		router:   NewRouterFunc(),
		pipeline: NewMagicStatePipelineFunc(cfg.MagicStates),
		ids:      newIDAllocator(assembly),
		reserved: make(map[Cell]bool),
	}
	for _, c := range layout.DistilleryLocations() {
		s.reserved[c] = true
	}
	for _, c := range layout.MagicStateQueueLocations() {
		s.reserved[c] = true
	}

	first, err := s.firstSlice()
	if err != nil {
		return nil, err
	}
	s.computation = &PatchComputation{slices: []Slice{first}}
	return s, nil
}

func (s *Scheduler) firstSlice() (Slice, error) {
	core := s.layout.CorePatches()
	if len(core) != len(s.assembly.CoreQubits) {
		return Slice{}, fmt.Errorf("%w: %d core patches for %d core qubits",
			ErrInvalidLayout, len(core), len(s.assembly.CoreQubits))
	}
	first := Slice{Duration: s.cfg.SliceDuration, Patches: make([]Patch, 0, len(core))}
	for i, p := range core {
		q := p.Clone()
		q.ID = idRef(s.assembly.CoreQubits[i])
		for _, r := range q.Regions() {
			if s.reserved[r.Cell] {
				return Slice{}, fmt.Errorf("%w: core patch %d sits on reserved cell %v", ErrInvalidLayout, i, r.Cell)
			}
		}
		first.Patches = append(first.Patches, q)
	}
	if err := first.Validate(); err != nil {
		return Slice{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return first, nil
}

// Computation returns the timeline built so far.
func (s *Scheduler) Computation() *PatchComputation {
	return s.computation
}

// Done reports whether every instruction has been committed.
func (s *Scheduler) Done() bool {
	return s.next >= len(s.assembly.Instructions)
}

// Run schedules every remaining instruction, stopping at the first failure.
func (s *Scheduler) Run() error {
	logrus.Infof("[slice %05d] scheduling %d instructions over %d qubits",
		s.computation.NumSlices()-1, len(s.assembly.Instructions)-s.next, len(s.assembly.CoreQubits))
	for !s.Done() {
		if err := s.Step(); err != nil {
			return err
		}
	}
	logrus.Infof("[slice %05d] scheduling complete", s.computation.NumSlices()-1)
	return nil
}

// Step schedules the next instruction. After a failure the same error is
// returned on every call: an abandoned instruction is never retried.
func (s *Scheduler) Step() error {
	if s.failed != nil {
		return s.failed
	}
	if s.Done() {
		return nil
	}
	idx := s.next
	instr := s.assembly.Instructions[idx]
	logrus.Debugf("[slice %05d] dispatching instruction %d: %v", s.computation.NumSlices()-1, idx, instr)

	st, err := s.stage(idx, instr)
	if err != nil {
		s.failed = &InstructionError{
			Index:     idx,
			LastSlice: s.computation.NumSlices() - 1,
			Op:        instr.String(),
			Err:       err,
		}
		logrus.Warnf("[slice %05d] instruction %d failed: %v", s.failed.LastSlice, idx, err)
		if s.Trace.Enabled() {
			s.Trace.RecordFailure(trace.FailureRecord{
				Instruction: idx,
				LastSlice:   s.failed.LastSlice,
				Reason:      err.Error(),
			})
		}
		return s.failed
	}
	s.commit(idx, st)
	s.next++
	return nil
}

// staged is everything one instruction will commit.
type staged struct {
	frames   []Slice // frames[0] replaces the open tail, the rest are appended
	pipeline MagicStatePipeline
	ids      idAllocator
	idle     int
	routing  *trace.RoutingRecord
	consumed *trace.ConsumptionRecord
	waitKind MagicStateKind
}

// seal closes cur, runs the production clock for its duration and returns
// the slice that follows it.
func (st *staged) seal(cur Slice) Slice {
	st.frames = append(st.frames, cur)
	for r := 0; r < cur.Duration; r++ {
		st.pipeline.AdvanceOneRound()
	}
	return cur.NextSlice()
}

func (s *Scheduler) stage(idx int, instr LogicalLatticeOperation) (*staged, error) {
	st := &staged{pipeline: s.pipeline.Clone(), ids: *s.ids}
	cur := s.computation.LastSlice().Clone()

	var err error
	switch op := instr.(type) {
	case LogicalPauli:
		err = s.applyPauli(&cur, op)
	case SinglePatchMeasurement:
		err = s.applySingleMeasurement(&cur, op)
	case MultiPatchMeasurement:
		st.routing, err = s.applyMultiMeasurement(&cur, op.Targets.Pairs())
	case MagicStateRequest:
		cur, err = s.applyMagicStateRequest(st, cur, op)
	case AncillaQubitInitialization:
		err = s.applyAncillaInitialization(&cur, op)
	default:
		err = fmt.Errorf("%w: unsupported instruction %T", ErrInvalidAssembly, instr)
	}
	if err != nil {
		return nil, err
	}
	if err := cur.Validate(); err != nil {
		return nil, fmt.Errorf("slice %d would be inconsistent: %w", s.computation.NumSlices()-1+st.idle, err)
	}
	cur.Operations = append(cur.Operations, instr)
	next := st.seal(cur)
	st.frames = append(st.frames, next)
	return st, nil
}

func (s *Scheduler) commit(idx int, st *staged) {
	tail := s.computation.NumSlices() - 1
	s.computation.slices[tail] = st.frames[0]
	s.computation.slices = append(s.computation.slices, st.frames[1:]...)
	s.pipeline = st.pipeline
	*s.ids = st.ids

	effect := tail + st.idle
	if st.idle > 0 {
		logrus.Warnf("[slice %05d] inserted %d idle slices waiting for a %v magic state", effect, st.idle, st.waitKind)
	}
	if !s.Trace.Enabled() {
		return
	}
	if st.idle > 0 {
		s.Trace.RecordWait(trace.WaitRecord{Instruction: idx, Kind: st.waitKind.String(), IdleSlices: st.idle})
	}
	if st.routing != nil {
		st.routing.Instruction = idx
		st.routing.Slice = effect
		s.Trace.RecordRouting(*st.routing)
	}
	if st.consumed != nil {
		st.consumed.Instruction = idx
		st.consumed.Slice = effect
		s.Trace.RecordConsumption(*st.consumed)
	}
}
