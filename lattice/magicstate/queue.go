// Implements the slot queue that holds magic states for one kind.
// Slots start full and refill a fixed number of rounds after being consumed.

package magicstate

import (
	"fmt"
	"strings"
)

// slot is one queue position. remaining == 0 means a state is ready.
type slot struct {
	remaining int
}

// SlotQueue represents the fixed set of queue slots serving one magic-state
// kind. Consumption always takes the lowest-index ready slot.
type SlotQueue struct {
	slots            []slot
	productionRounds int
}

// NewSlotQueue creates a queue of n ready slots that each take
// productionRounds rounds to refill.
func NewSlotQueue(n, productionRounds int) *SlotQueue {
	if n < 0 || productionRounds < 0 {
		panic(fmt.Sprintf("NewSlotQueue: invalid size %d or production rounds %d", n, productionRounds))
	}
	return &SlotQueue{slots: make([]slot, n), productionRounds: productionRounds}
}

func (q *SlotQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, s := range q.slots {
		if s.remaining == 0 {
			sb.WriteString("ready")
		} else {
			fmt.Fprintf(&sb, "%d", s.remaining)
		}
		if i < len(q.slots)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of slots.
func (q *SlotQueue) Len() int {
	return len(q.slots)
}

// Ready returns the number of slots holding a state.
func (q *SlotQueue) Ready() int {
	n := 0
	for _, s := range q.slots {
		if s.remaining == 0 {
			n++
		}
	}
	return n
}

// Take empties the lowest-index ready slot and restarts its production.
// Returns false when no slot is ready.
func (q *SlotQueue) Take() bool {
	for i := range q.slots {
		if q.slots[i].remaining == 0 {
			q.slots[i].remaining = q.productionRounds
			return true
		}
	}
	return false
}

// Tick moves every producing slot one round closer to ready.
func (q *SlotQueue) Tick() {
	for i := range q.slots {
		if q.slots[i].remaining > 0 {
			q.slots[i].remaining--
		}
	}
}

// Clone returns an independent copy of the queue.
func (q *SlotQueue) Clone() *SlotQueue {
	out := &SlotQueue{slots: make([]slot, len(q.slots)), productionRounds: q.productionRounds}
	copy(out.slots, q.slots)
	return out
}
