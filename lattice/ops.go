package lattice

import "fmt"

// PauliOperator is a single-qubit Pauli observable.
type PauliOperator int

const (
	PauliI PauliOperator = iota
	PauliX
	PauliY
	PauliZ
)

func (p PauliOperator) String() string {
	switch p {
	case PauliI:
		return "I"
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	}
	return fmt.Sprintf("PauliOperator(%d)", int(p))
}

// ParsePauliOperator accepts "I", "X", "Y" or "Z".
func ParsePauliOperator(s string) (PauliOperator, error) {
	switch s {
	case "I":
		return PauliI, nil
	case "X":
		return PauliX, nil
	case "Y":
		return PauliY, nil
	case "Z":
		return PauliZ, nil
	}
	return PauliI, fmt.Errorf("unknown Pauli operator %q", s)
}

// MagicStateKind is the kind of pre-distilled resource state.
type MagicStateKind int

const (
	MagicStateS MagicStateKind = iota
	MagicStateT
)

// MagicStateKinds lists every kind in a fixed order.
var MagicStateKinds = [2]MagicStateKind{MagicStateS, MagicStateT}

func (k MagicStateKind) String() string {
	switch k {
	case MagicStateS:
		return "S"
	case MagicStateT:
		return "T"
	}
	return fmt.Sprintf("MagicStateKind(%d)", int(k))
}

// ParseMagicStateKind accepts "S" or "T".
func ParseMagicStateKind(s string) (MagicStateKind, error) {
	switch s {
	case "S":
		return MagicStateS, nil
	case "T":
		return MagicStateT, nil
	}
	return MagicStateS, fmt.Errorf("unknown magic state kind %q", s)
}

// AncillaState is the state an ancilla patch is initialized in.
type AncillaState int

const (
	AncillaZero AncillaState = iota
	AncillaPlus
)

func (a AncillaState) String() string {
	if a == AncillaPlus {
		return "Plus"
	}
	return "Zero"
}

// LogicalLatticeOperation is the closed set of instructions the scheduler
// accepts: SinglePatchMeasurement, MultiPatchMeasurement, MagicStateRequest,
// LogicalPauli and AncillaQubitInitialization.
type LogicalLatticeOperation interface {
	// OperatingPatches lists the patch ids the operation touches, in target order.
	OperatingPatches() []PatchID
	fmt.Stringer
	isOperation()
}

// SinglePatchMeasurement destructively measures one patch.
// Negate records the classical readout correction for downstream consumers.
type SinglePatchMeasurement struct {
	Target     PatchID
	Observable PauliOperator
	Negate     bool
}

// MultiPatchMeasurement measures a Pauli product across several patches
// through a routed ancilla region.
type MultiPatchMeasurement struct {
	Targets TargetObservables
	Negate  bool
}

// MagicStateRequest consumes one magic state of Kind against Target.
type MagicStateRequest struct {
	Target PatchID
	Kind   MagicStateKind
}

// LogicalPauli is a Pauli frame update on Target.
type LogicalPauli struct {
	Target   PatchID
	Operator PauliOperator
}

// AncillaQubitInitialization materializes a new qubit patch with id Target
// at a free ancilla location of the layout.
type AncillaQubitInitialization struct {
	Target PatchID
	State  AncillaState
}

func (SinglePatchMeasurement) isOperation()     {}
func (MultiPatchMeasurement) isOperation()      {}
func (MagicStateRequest) isOperation()          {}
func (LogicalPauli) isOperation()               {}
func (AncillaQubitInitialization) isOperation() {}

func (o SinglePatchMeasurement) OperatingPatches() []PatchID     { return []PatchID{o.Target} }
func (o MultiPatchMeasurement) OperatingPatches() []PatchID      { return o.Targets.Keys() }
func (o MagicStateRequest) OperatingPatches() []PatchID          { return []PatchID{o.Target} }
func (o LogicalPauli) OperatingPatches() []PatchID               { return []PatchID{o.Target} }
func (o AncillaQubitInitialization) OperatingPatches() []PatchID { return []PatchID{o.Target} }

func (o SinglePatchMeasurement) String() string {
	return fmt.Sprintf("SinglePatchMeasurement(%d, %v, negate=%t)", o.Target, o.Observable, o.Negate)
}

func (o MultiPatchMeasurement) String() string {
	return fmt.Sprintf("MultiPatchMeasurement(%v, negate=%t)", o.Targets, o.Negate)
}

func (o MagicStateRequest) String() string {
	return fmt.Sprintf("MagicStateRequest(%d, %v)", o.Target, o.Kind)
}

func (o LogicalPauli) String() string {
	return fmt.Sprintf("LogicalPauli(%d, %v)", o.Target, o.Operator)
}

func (o AncillaQubitInitialization) String() string {
	return fmt.Sprintf("AncillaQubitInitialization(%d, %v)", o.Target, o.State)
}
