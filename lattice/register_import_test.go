package lattice_test

// Blank imports trigger the init() of lattice/routing and lattice/magicstate,
// which register NewRouterFunc and NewMagicStatePipelineFunc. This allows
// package lattice's internal test files to build a Scheduler without
// importing the implementations directly (which would create an import cycle).
import (
	_ "github.com/lattice-surgery/lsqecc/lattice/magicstate"
	_ "github.com/lattice-surgery/lsqecc/lattice/routing"
)
