package lattice

// MagicStatePipeline tracks distillation throughput and queue occupancy.
// All operations are synchronous and deterministic.
type MagicStatePipeline interface {
	// Peek reports whether a state of kind k is ready to consume.
	Peek(k MagicStateKind) bool
	// Consume takes one ready state of kind k and restarts production for its
	// slot. Returns ErrMagicStateUnavailable when Peek(k) is false.
	Consume(k MagicStateKind) error
	// AdvanceOneRound moves every producing slot one round closer to ready.
	AdvanceOneRound()
	// Capacity is the number of queue slots of kind k. Zero means kind k can
	// never become available.
	Capacity(k MagicStateKind) int
	// Ready is the number of states of kind k ready now.
	Ready(k MagicStateKind) int
	// Clone returns an independent copy, used to stage an instruction
	// without committing it.
	Clone() MagicStatePipeline
}

// NewMagicStatePipelineFunc constructs the default pipeline. Set by
// lattice/magicstate's init().
var NewMagicStatePipelineFunc func(cfg MagicStateConfig) MagicStatePipeline
