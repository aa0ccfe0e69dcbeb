package lattice

import (
	"fmt"
	"iter"
)

// PatchComputation is the append-only slice timeline a Scheduler produces.
// Slice 0 is derived from the layout's core patches. Consumers only read it.
//
// While a Scheduler is still running, the last slice is its open frame: the
// next instruction's effect is written into it when that instruction
// commits. Only slices before the last are final until Run returns or the
// Scheduler reports Done.
type PatchComputation struct {
	slices []Slice
}

// NumSlices returns the number of slices in the timeline.
func (pc *PatchComputation) NumSlices() int {
	return len(pc.slices)
}

// Slice returns slice idx. The returned value shares storage with the
// timeline -- callers may read it but MUST NOT modify its patches.
// Panics if idx is out of range.
func (pc *PatchComputation) Slice(idx int) Slice {
	if idx < 0 || idx >= len(pc.slices) {
		panic(fmt.Sprintf("Slice: index %d out of range [0,%d)", idx, len(pc.slices)))
	}
	return pc.slices[idx]
}

// LastSlice returns the final slice of the timeline.
func (pc *PatchComputation) LastSlice() Slice {
	return pc.Slice(len(pc.slices) - 1)
}

// All iterates over the slices in timeline order.
func (pc *PatchComputation) All() iter.Seq2[int, Slice] {
	return func(yield func(int, Slice) bool) {
		for i, s := range pc.slices {
			if !yield(i, s) {
				return
			}
		}
	}
}

// MakePatchComputation compiles an assembly over a SimpleLayout built from
// cfg. AncillaSlots of zero means one ancilla location per core qubit.
//
// On an instruction failure the partial computation is returned together
// with the *InstructionError; it holds every slice committed before the
// failing instruction. Assembly and configuration errors return a nil
// computation.
func MakePatchComputation(assembly LogicalLatticeAssembly, cfg SchedulerConfig) (*PatchComputation, error) {
	s, err := NewScheduler(assembly, DefaultLayout(assembly, cfg), cfg)
	if err != nil {
		return nil, err
	}
	err = s.Run()
	return s.Computation(), err
}

// DefaultLayout sizes a SimpleLayout for assembly.
func DefaultLayout(assembly LogicalLatticeAssembly, cfg SchedulerConfig) *SimpleLayout {
	layoutCfg := cfg.Layout
	if layoutCfg.AncillaSlots == 0 {
		layoutCfg.AncillaSlots = len(assembly.CoreQubits)
	}
	return NewSimpleLayout(len(assembly.CoreQubits), layoutCfg)
}
