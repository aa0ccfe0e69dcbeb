package lattice

import "fmt"

// LogicalLatticeAssembly is the scheduler's sole input: the ordered logical
// qubit ids and the ordered instruction stream over them.
type LogicalLatticeAssembly struct {
	CoreQubits   []PatchID
	Instructions []LogicalLatticeOperation
}

// Validate checks referential integrity: core ids are unique, ancilla ids do
// not collide with anything declared before them, every target was declared
// earlier in program order, and measurements name a real observable.
func (a LogicalLatticeAssembly) Validate() error {
	declared := make(map[PatchID]bool, len(a.CoreQubits))
	for _, id := range a.CoreQubits {
		if declared[id] {
			return fmt.Errorf("%w: duplicate core qubit id %d", ErrInvalidAssembly, id)
		}
		declared[id] = true
	}

	for i, instr := range a.Instructions {
		if instr == nil {
			return fmt.Errorf("%w: instruction %d is nil", ErrInvalidAssembly, i)
		}
		switch op := instr.(type) {
		case AncillaQubitInitialization:
			if declared[op.Target] {
				return fmt.Errorf("%w: instruction %d re-declares id %d", ErrInvalidAssembly, i, op.Target)
			}
			declared[op.Target] = true
			continue
		case MultiPatchMeasurement:
			if op.Targets.Len() == 0 {
				return fmt.Errorf("%w: instruction %d measures no patches", ErrInvalidAssembly, i)
			}
			for _, p := range op.Targets.Pairs() {
				if p.Observable == PauliI {
					return fmt.Errorf("%w: instruction %d measures identity on %d", ErrInvalidAssembly, i, p.ID)
				}
			}
		case SinglePatchMeasurement:
			if op.Observable == PauliI {
				return fmt.Errorf("%w: instruction %d measures identity", ErrInvalidAssembly, i)
			}
		case MagicStateRequest, LogicalPauli:
		default:
			return fmt.Errorf("%w: instruction %d has unsupported type %T", ErrInvalidAssembly, i, instr)
		}
		for _, id := range instr.OperatingPatches() {
			if !declared[id] {
				return fmt.Errorf("%w: instruction %d references undeclared id %d", ErrInvalidAssembly, i, id)
			}
		}
	}
	return nil
}

// declaredIDs returns every id the assembly mentions.
func (a LogicalLatticeAssembly) declaredIDs() map[PatchID]bool {
	seen := make(map[PatchID]bool, len(a.CoreQubits))
	for _, id := range a.CoreQubits {
		seen[id] = true
	}
	for _, instr := range a.Instructions {
		for _, id := range instr.OperatingPatches() {
			seen[id] = true
		}
	}
	return seen
}
