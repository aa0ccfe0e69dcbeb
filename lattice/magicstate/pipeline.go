// Package magicstate provides the default MagicStatePipeline.
// The interface is defined in lattice/ (parent package).
//
// Each kind owns a SlotQueue. A consumed slot refills after the kind's
// configured number of production rounds; the scheduler advances the clock
// by each sealed slice's duration.
package magicstate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lattice-surgery/lsqecc/lattice"
)

// Pipeline is a per-kind collection of slot queues.
type Pipeline struct {
	queues map[lattice.MagicStateKind]*SlotQueue
	round  int64
}

// NewPipeline creates a pipeline with every slot ready.
func NewPipeline(cfg lattice.MagicStateConfig) *Pipeline {
	p := &Pipeline{queues: make(map[lattice.MagicStateKind]*SlotQueue, len(lattice.MagicStateKinds))}
	for _, k := range lattice.MagicStateKinds {
		kc := cfg.ForKind(k)
		p.queues[k] = NewSlotQueue(kc.Slots, kc.ProductionRounds)
	}
	return p
}

func (p *Pipeline) queue(k lattice.MagicStateKind) *SlotQueue {
	q, ok := p.queues[k]
	if !ok {
		panic(fmt.Sprintf("magicstate: unknown kind %v", k))
	}
	return q
}

func (p *Pipeline) Peek(k lattice.MagicStateKind) bool {
	return p.queue(k).Ready() > 0
}

func (p *Pipeline) Consume(k lattice.MagicStateKind) error {
	q := p.queue(k)
	if !q.Take() {
		return fmt.Errorf("%w: %v queue %v", lattice.ErrMagicStateUnavailable, k, q)
	}
	logrus.Debugf("[round %07d] consumed %v state, queue now %v", p.round, k, q)
	return nil
}

func (p *Pipeline) AdvanceOneRound() {
	p.round++
	for _, k := range lattice.MagicStateKinds {
		p.queues[k].Tick()
	}
}

func (p *Pipeline) Capacity(k lattice.MagicStateKind) int {
	return p.queue(k).Len()
}

func (p *Pipeline) Ready(k lattice.MagicStateKind) int {
	return p.queue(k).Ready()
}

func (p *Pipeline) Clone() lattice.MagicStatePipeline {
	out := &Pipeline{queues: make(map[lattice.MagicStateKind]*SlotQueue, len(p.queues)), round: p.round}
	for k, q := range p.queues {
		out.queues[k] = q.Clone()
	}
	return out
}
