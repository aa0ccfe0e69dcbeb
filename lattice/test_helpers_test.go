package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridLayout is a Layout with explicit geometry, for occupancy patterns
// SimpleLayout cannot produce.
type gridLayout struct {
	core       []Patch
	queue      []Cell
	distillery []Cell
	ancilla    []Cell
	bounds     Rect
}

func (l *gridLayout) CorePatches() []Patch             { return l.core }
func (l *gridLayout) MagicStateQueueLocations() []Cell { return l.queue }
func (l *gridLayout) DistilleryLocations() []Cell      { return l.distillery }
func (l *gridLayout) AncillaLocations() []Cell         { return l.ancilla }
func (l *gridLayout) Bounds() Rect                     { return l.bounds }

func squares(cells ...Cell) []Patch {
	out := make([]Patch, 0, len(cells))
	for _, c := range cells {
		out = append(out, SquarePatch(c, PatchQubit))
	}
	return out
}

func ids(v ...PatchID) []PatchID { return v }

func ops(v ...LogicalLatticeOperation) []LogicalLatticeOperation { return v }

func joint(pairs ...TargetObservable) MultiPatchMeasurement {
	return MultiPatchMeasurement{Targets: NewTargetObservables(pairs...)}
}

// mustCompile compiles with the default configuration and fails the test on error.
func mustCompile(t *testing.T, a LogicalLatticeAssembly, cfg SchedulerConfig) *PatchComputation {
	t.Helper()
	pc, err := MakePatchComputation(a, cfg)
	require.NoError(t, err)
	require.NotNil(t, pc)
	return pc
}

// assertTimelineInvariants checks every slice for overlap, connectivity and
// boundary symmetry.
func assertTimelineInvariants(t *testing.T, pc *PatchComputation) {
	t.Helper()
	for i, s := range pc.All() {
		assert.NoError(t, s.Validate(), "slice %d", i)
	}
}

// patchWithID returns the patch carrying id in s.
func patchWithID(t *testing.T, s Slice, id PatchID) Patch {
	t.Helper()
	idx := s.PatchByID(id)
	require.GreaterOrEqual(t, idx, 0, "patch %d not in slice", id)
	return s.Patches[idx]
}

func routingPatches(s Slice) []Patch {
	var out []Patch
	for _, p := range s.Patches {
		if p.Type == PatchRouting {
			out = append(out, p)
		}
	}
	return out
}
