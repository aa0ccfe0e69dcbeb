package lattice

// Layout is the static geometry the scheduler is built over. The scheduler
// takes sole ownership of the Layout passed to it.
type Layout interface {
	// CorePatches returns one Qubit patch per core qubit, in core-qubit
	// order, non-overlapping, with inactive Rough/Smooth boundaries.
	CorePatches() []Patch
	// MagicStateQueueLocations are the cells where finished magic states
	// become consumable.
	MagicStateQueueLocations() []Cell
	// DistilleryLocations are permanently reserved for magic state
	// production. The router never uses them.
	DistilleryLocations() []Cell
	// AncillaLocations are the cells where ancilla qubits are materialized.
	AncillaLocations() []Cell
	// Bounds is the finite area the router may search.
	Bounds() Rect
}

// SimpleLayoutConfig tunes SimpleLayout.
type SimpleLayoutConfig struct {
	MagicStateQueueSlots int  `yaml:"magic_state_queue_slots" validate:"gte=0"`
	AncillaSlots         int  `yaml:"ancilla_slots" validate:"gte=0"`
	Distillery           bool `yaml:"distillery"`
}

// distilleryRows and distilleryCols are the footprint reserved for one
// right-facing distillery block.
const (
	distilleryRows = 3
	distilleryCols = 5
)

// SimpleLayout places qubits in a single row, two columns apart, so the
// column between neighbours is free routing space:
//
//	row 0: Q . Q . Q . M . M . [distillery]
//	row 1: routing
//	row 2: A . A . A      (ancilla locations)
//
// The magic-state queue (M) continues the qubit row after the last qubit.
type SimpleLayout struct {
	numQubits int
	cfg       SimpleLayoutConfig
}

// NewSimpleLayout creates a layout for numQubits core qubits.
func NewSimpleLayout(numQubits int, cfg SimpleLayoutConfig) *SimpleLayout {
	return &SimpleLayout{numQubits: numQubits, cfg: cfg}
}

func (l *SimpleLayout) CorePatches() []Patch {
	core := make([]Patch, 0, l.numQubits)
	for i := 0; i < l.numQubits; i++ {
		core = append(core, SquarePatch(Cell{Row: 0, Col: int32(2 * i)}, PatchQubit))
	}
	return core
}

func (l *SimpleLayout) MagicStateQueueLocations() []Cell {
	queue := make([]Cell, 0, l.cfg.MagicStateQueueSlots)
	for j := 0; j < l.cfg.MagicStateQueueSlots; j++ {
		queue = append(queue, Cell{Row: 0, Col: l.queueStart() + int32(2*j)})
	}
	return queue
}

func (l *SimpleLayout) DistilleryLocations() []Cell {
	if !l.cfg.Distillery {
		return nil
	}
	start := l.distilleryStart()
	cells := make([]Cell, 0, distilleryRows*distilleryCols)
	for r := int32(0); r < distilleryRows; r++ {
		for c := int32(0); c < distilleryCols; c++ {
			cells = append(cells, Cell{Row: r, Col: start + c})
		}
	}
	return cells
}

func (l *SimpleLayout) AncillaLocations() []Cell {
	cells := make([]Cell, 0, l.cfg.AncillaSlots)
	for j := 0; j < l.cfg.AncillaSlots; j++ {
		cells = append(cells, Cell{Row: 2, Col: int32(2 * j)})
	}
	return cells
}

func (l *SimpleLayout) Bounds() Rect {
	maxCol := l.queueStart() + int32(2*max(l.cfg.MagicStateQueueSlots-1, 0))
	if l.cfg.Distillery {
		maxCol = l.distilleryStart() + distilleryCols - 1
	}
	maxCol = max(maxCol, int32(2*max(l.cfg.AncillaSlots-1, 0)))
	return Rect{MinRow: 0, MinCol: 0, MaxRow: 2, MaxCol: maxCol}
}

func (l *SimpleLayout) queueStart() int32 {
	return int32(2 * l.numQubits)
}

func (l *SimpleLayout) distilleryStart() int32 {
	return l.queueStart() + int32(2*l.cfg.MagicStateQueueSlots)
}
