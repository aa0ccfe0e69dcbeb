// register.go wires the lattice/magicstate constructor into the lattice
// package's registration variable (NewMagicStatePipelineFunc). Importing
// lattice/magicstate is enough to make NewScheduler usable.
package magicstate

import "github.com/lattice-surgery/lsqecc/lattice"

func init() {
	lattice.NewMagicStatePipelineFunc = func(cfg lattice.MagicStateConfig) lattice.MagicStatePipeline {
		return NewPipeline(cfg)
	}
}
