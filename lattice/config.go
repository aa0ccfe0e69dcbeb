package lattice

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// configValidate checks struct tags on configuration bundles.
var configValidate = validator.New()

// MagicStateKindConfig sets the queue size and refill time of one magic-state kind.
type MagicStateKindConfig struct {
	Slots            int `yaml:"slots" validate:"gte=0"`
	ProductionRounds int `yaml:"production_rounds" validate:"gte=0"`
}

// MagicStateConfig configures the magic state pipeline per kind.
type MagicStateConfig struct {
	S MagicStateKindConfig `yaml:"s"`
	T MagicStateKindConfig `yaml:"t"`
}

// ForKind returns the configuration of one kind.
func (c MagicStateConfig) ForKind(k MagicStateKind) MagicStateKindConfig {
	if k == MagicStateT {
		return c.T
	}
	return c.S
}

// SchedulerConfig holds scheduler configuration, loadable from a YAML file.
type SchedulerConfig struct {
	SliceDuration int                `yaml:"slice_duration" validate:"gte=1"`
	MaxIdleSlices int                `yaml:"max_idle_slices" validate:"gte=0"`
	MagicStates   MagicStateConfig   `yaml:"magic_states"`
	Layout        SimpleLayoutConfig `yaml:"layout"`
}

// DefaultSchedulerConfig returns the configuration used when none is given.
// Ancilla slots default to zero here; callers building a SimpleLayout for an
// assembly usually size them to the number of core qubits.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		SliceDuration: 1,
		MaxIdleSlices: 16,
		MagicStates: MagicStateConfig{
			S: MagicStateKindConfig{Slots: 2, ProductionRounds: 1},
			T: MagicStateKindConfig{Slots: 2, ProductionRounds: 5},
		},
		Layout: SimpleLayoutConfig{MagicStateQueueSlots: 2},
	}
}

// Validate checks parameter ranges.
func (c SchedulerConfig) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	return nil
}

// LoadSchedulerConfig reads a YAML scheduler configuration. Fields absent from
// the file keep their DefaultSchedulerConfig values; unknown fields are errors.
func LoadSchedulerConfig(path string) (SchedulerConfig, error) {
	cfg := DefaultSchedulerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scheduler config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing scheduler config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
