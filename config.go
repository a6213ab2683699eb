package tactile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the context thresholds and scheduling options.
type Config struct {
	// NewTouchFrames is the window, in frames since press, during which a
	// hitting touch may open a Touching session.
	NewTouchFrames int `yaml:"newTouchFrames"`
	// ReleasedFrames is how many frames a touch may go without samples
	// before it counts as expired.
	ReleasedFrames int `yaml:"releasedFrames"`
	// MinForce is the force a sample must exceed to press.
	MinForce float64 `yaml:"minForce"`
	// ReleaseForceRatio scales MinForce into the release threshold.
	ReleaseForceRatio float64 `yaml:"releaseForceRatio"`

	// Mode selects hierarchical or flat node scheduling.
	Mode ExecutionMode `yaml:"mode"`
	// Parallel fans hit testing and node updates out to worker goroutines.
	Parallel bool `yaml:"parallel"`
	// Workers bounds the fan-out. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// PointerAlwaysPresent synthesizes the pointer touch even while no
	// button is held.
	PointerAlwaysPresent bool `yaml:"pointerAlwaysPresent"`
	// PointerTouchID is the ID of the synthesized pointer touch.
	PointerTouchID int `yaml:"pointerTouchID"`

	// Debug enables per-frame stage timings and tree sanity warnings.
	Debug bool `yaml:"debug"`
}

var defaultConfig = DefaultConfig()

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		NewTouchFrames:    3,
		ReleasedFrames:    2,
		MinForce:          0.1,
		ReleaseForceRatio: 0.5,
		Mode:              ModeHierarchical,
		PointerTouchID:    -1,
	}
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the thresholds for values the tick cannot work with.
func (c Config) Validate() error {
	switch {
	case c.NewTouchFrames < 1:
		return fmt.Errorf("%w: newTouchFrames must be at least 1, got %d", ErrInvalidConfig, c.NewTouchFrames)
	case c.ReleasedFrames < 0:
		return fmt.Errorf("%w: releasedFrames must not be negative, got %d", ErrInvalidConfig, c.ReleasedFrames)
	case c.MinForce < 0 || c.MinForce > 1:
		return fmt.Errorf("%w: minForce must be in [0, 1], got %v", ErrInvalidConfig, c.MinForce)
	case c.ReleaseForceRatio < 0 || c.ReleaseForceRatio > 1:
		return fmt.Errorf("%w: releaseForceRatio must be in [0, 1], got %v", ErrInvalidConfig, c.ReleaseForceRatio)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// ParseConfig decodes YAML over the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// UnmarshalYAML decodes "hierarchical" or "flat".
func (m *ExecutionMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "hierarchical", "":
		*m = ModeHierarchical
	case "flat":
		*m = ModeFlat
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
	return nil
}

// MarshalYAML encodes the mode by name.
func (m ExecutionMode) MarshalYAML() (any, error) {
	return m.String(), nil
}
