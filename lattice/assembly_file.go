package lattice

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AssemblyFile is the YAML form of a LogicalLatticeAssembly:
//
//	core_qubits: [0, 1, 2]
//	instructions:
//	  - {op: pauli, target: 0, operator: X}
//	  - {op: measure, target: 1, observable: Z, negate: true}
//	  - {op: joint, targets: {0: X, 2: Z}}
//	  - {op: magic, target: 2, kind: T}
//	  - {op: ancilla, target: 7, state: plus}
//
// The order of the joint targets mapping is kept as written.
type AssemblyFile struct {
	CoreQubits   []uint32          `yaml:"core_qubits" validate:"unique"`
	Instructions []InstructionFile `yaml:"instructions" validate:"dive"`
}

// InstructionFile is one instruction of an AssemblyFile. Which fields are
// read depends on Op.
type InstructionFile struct {
	Op         string    `yaml:"op" validate:"required,oneof=pauli measure joint magic ancilla"`
	Target     *uint32   `yaml:"target,omitempty"`
	Operator   string    `yaml:"operator,omitempty" validate:"omitempty,oneof=I X Y Z"`
	Observable string    `yaml:"observable,omitempty" validate:"omitempty,oneof=X Y Z"`
	Targets    yaml.Node `yaml:"targets,omitempty" validate:"-"`
	Negate     bool      `yaml:"negate,omitempty"`
	Kind       string    `yaml:"kind,omitempty" validate:"omitempty,oneof=S T"`
	State      string    `yaml:"state,omitempty" validate:"omitempty,oneof=zero plus"`
}

// LoadAssembly reads and converts a YAML assembly file.
func LoadAssembly(path string) (LogicalLatticeAssembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LogicalLatticeAssembly{}, fmt.Errorf("reading assembly: %w", err)
	}
	return DecodeAssembly(bytes.NewReader(data))
}

// DecodeAssembly parses one YAML assembly document. Unknown fields are
// rejected. The result is checked with LogicalLatticeAssembly.Validate.
func DecodeAssembly(r io.Reader) (LogicalLatticeAssembly, error) {
	var file AssemblyFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return LogicalLatticeAssembly{}, fmt.Errorf("%w: parsing assembly: %v", ErrInvalidAssembly, err)
	}
	return file.Assembly()
}

// Assembly converts the file form into a validated LogicalLatticeAssembly.
func (f AssemblyFile) Assembly() (LogicalLatticeAssembly, error) {
	if err := configValidate.Struct(f); err != nil {
		return LogicalLatticeAssembly{}, fmt.Errorf("%w: %v", ErrInvalidAssembly, err)
	}
	a := LogicalLatticeAssembly{
		CoreQubits:   make([]PatchID, 0, len(f.CoreQubits)),
		Instructions: make([]LogicalLatticeOperation, 0, len(f.Instructions)),
	}
	for _, id := range f.CoreQubits {
		a.CoreQubits = append(a.CoreQubits, PatchID(id))
	}
	for i, in := range f.Instructions {
		op, err := in.operation()
		if err != nil {
			return LogicalLatticeAssembly{}, fmt.Errorf("%w: instruction %d: %v", ErrInvalidAssembly, i, err)
		}
		a.Instructions = append(a.Instructions, op)
	}
	if err := a.Validate(); err != nil {
		return LogicalLatticeAssembly{}, err
	}
	return a, nil
}

func (in InstructionFile) target() (PatchID, error) {
	if in.Target == nil {
		return 0, fmt.Errorf("%s needs a target", in.Op)
	}
	return PatchID(*in.Target), nil
}

func (in InstructionFile) operation() (LogicalLatticeOperation, error) {
	if in.Op == "joint" {
		targets, err := decodeTargets(&in.Targets)
		if err != nil {
			return nil, err
		}
		return MultiPatchMeasurement{Targets: targets, Negate: in.Negate}, nil
	}

	target, err := in.target()
	if err != nil {
		return nil, err
	}
	switch in.Op {
	case "pauli":
		op, err := ParsePauliOperator(in.Operator)
		if err != nil {
			return nil, err
		}
		return LogicalPauli{Target: target, Operator: op}, nil
	case "measure":
		obs, err := ParsePauliOperator(in.Observable)
		if err != nil {
			return nil, err
		}
		return SinglePatchMeasurement{Target: target, Observable: obs, Negate: in.Negate}, nil
	case "magic":
		kind, err := ParseMagicStateKind(in.Kind)
		if err != nil {
			return nil, err
		}
		return MagicStateRequest{Target: target, Kind: kind}, nil
	case "ancilla":
		state := AncillaZero
		if in.State == "plus" {
			state = AncillaPlus
		}
		return AncillaQubitInitialization{Target: target, State: state}, nil
	}
	return nil, fmt.Errorf("unknown op %q", in.Op)
}

// decodeTargets reads a YAML mapping of id to observable, keeping document order.
func decodeTargets(n *yaml.Node) (TargetObservables, error) {
	var t TargetObservables
	if n.Kind != yaml.MappingNode {
		return t, fmt.Errorf("joint targets must be a mapping of id to observable")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		id, err := strconv.ParseUint(key.Value, 10, 32)
		if err != nil {
			return t, fmt.Errorf("joint target %q is not a patch id", key.Value)
		}
		if _, dup := t.Get(PatchID(id)); dup {
			return t, fmt.Errorf("joint target %d listed twice", id)
		}
		obs, err := ParsePauliOperator(val.Value)
		if err != nil {
			return t, err
		}
		t.Set(PatchID(id), obs)
	}
	return t, nil
}
