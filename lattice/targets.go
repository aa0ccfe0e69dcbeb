package lattice

import (
	"strconv"
	"strings"
)

// TargetObservable pairs a patch with the observable measured on it.
type TargetObservable struct {
	ID         PatchID
	Observable PauliOperator
}

// TargetObservables is an insertion-ordered map from patch id to observable.
// Iteration order is the order ids were first set, never numeric order.
// The zero value is an empty map ready for use.
type TargetObservables struct {
	order []PatchID
	ops   map[PatchID]PauliOperator
}

// NewTargetObservables builds the map from pairs in order. A repeated id
// keeps its first position and takes the last observable.
func NewTargetObservables(pairs ...TargetObservable) TargetObservables {
	var t TargetObservables
	for _, p := range pairs {
		t.Set(p.ID, p.Observable)
	}
	return t
}

// Set assigns op to id, appending id to the order if it is new.
func (t *TargetObservables) Set(id PatchID, op PauliOperator) {
	if t.ops == nil {
		t.ops = make(map[PatchID]PauliOperator)
	}
	if _, ok := t.ops[id]; !ok {
		t.order = append(t.order, id)
	}
	t.ops[id] = op
}

// Get returns the observable for id.
func (t TargetObservables) Get(id PatchID) (PauliOperator, bool) {
	op, ok := t.ops[id]
	return op, ok
}

// Len returns the number of targets.
func (t TargetObservables) Len() int {
	return len(t.order)
}

// Keys returns the ids in insertion order. The result is a fresh slice.
func (t TargetObservables) Keys() []PatchID {
	out := make([]PatchID, len(t.order))
	copy(out, t.order)
	return out
}

// Pairs returns the (id, observable) pairs in insertion order.
func (t TargetObservables) Pairs() []TargetObservable {
	out := make([]TargetObservable, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, TargetObservable{ID: id, Observable: t.ops[id]})
	}
	return out
}

func (t TargetObservables) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, p := range t.Pairs() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strconv.FormatUint(uint64(p.ID), 10))
		sb.WriteString(":")
		sb.WriteString(p.Observable.String())
	}
	sb.WriteString("}")
	return sb.String()
}
