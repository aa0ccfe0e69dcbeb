// Package trace provides decision-trace recording for scheduler analysis.
// This package has no dependencies on lattice/; it stores pure data types.
package trace

// RoutingRecord captures one routed ancilla region.
type RoutingRecord struct {
	Instruction int      // instruction index
	Slice       int      // slice the region was materialized in
	Targets     []uint32 // patch ids, measurement order
	Observables []string // observable per target
	RegionSize  int      // number of routing cells
}

// WaitRecord captures idle slices inserted while waiting for a magic state.
type WaitRecord struct {
	Instruction int
	Kind        string
	IdleSlices  int
}

// ConsumptionRecord captures one consumed magic state.
type ConsumptionRecord struct {
	Instruction int
	Slice       int
	Kind        string
	PatchID     uint32 // id allocated to the magic-state patch
	Target      uint32
}

// FailureRecord captures an instruction that could not be scheduled.
type FailureRecord struct {
	Instruction int
	LastSlice   int
	Reason      string
}
