package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAssembly is a structural input defect, rejected before any slice is emitted.
	ErrInvalidAssembly = errors.New("invalid assembly")
	// ErrInvalidLayout means the layout's initial patches violate slice invariants.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrUnknownTarget means an instruction references a patch absent from the current slice.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrIncompatibleObservable means the patch exposes no boundary for the requested observable.
	ErrIncompatibleObservable = errors.New("incompatible observable")
	// ErrRoutingInfeasible means no collision-free connected region exists for a joint measurement.
	ErrRoutingInfeasible = errors.New("routing infeasible")
	// ErrQueueDeadlock means the magic-state patience budget ran out.
	ErrQueueDeadlock = errors.New("magic state queue deadlock")
	// ErrMagicStateUnavailable is returned by MagicStatePipeline.Consume when Peek is false.
	ErrMagicStateUnavailable = errors.New("no magic state available")
)

// InstructionError reports a failed instruction. The timeline is left as it
// was after slice LastSlice; nothing from the failed instruction is committed.
type InstructionError struct {
	Index     int    // offending instruction index
	LastSlice int    // index of the last slice in the timeline when scheduling stopped
	Op        string // the instruction, rendered
	Err       error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d (%s), last slice %d: %v", e.Index, e.Op, e.LastSlice, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}
