// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Movement   MovementConfig   `yaml:"movement"`
	Rotation   RotationConfig   `yaml:"rotation"`
	Colony     ColonyConfig     `yaml:"colony"`
	Organelles OrganelleConfig  `yaml:"organelles"`
	Compounds  CompoundConfig   `yaml:"compounds"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Membranes  []MembraneConfig `yaml:"membranes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions (the horizontal plane).
type WorldConfig struct {
	Width float64 `yaml:"width"` // extent along X, world units
	Depth float64 `yaml:"depth"` // extent along Z, world units
}

// PhysicsConfig holds parameters for the reference physics world.
type PhysicsConfig struct {
	DT            float64 `yaml:"dt"`             // seconds per tick
	LinearDamping float64 `yaml:"linear_damping"` // velocity retained per tick
	TurnRate      float64 `yaml:"turn_rate"`      // base slerp rate toward target orientation
	MaxSpeed      float64 `yaml:"max_speed"`      // hard velocity cap
}

// MovementConfig holds locomotion force parameters.
type MovementConfig struct {
	BaseForce            float64 `yaml:"base_force"`             // thrust floor for any body
	ForcePerHex          float64 `yaml:"force_per_hex"`          // thrust gained per hex of body size
	RigidityForceDivisor float64 `yaml:"rigidity_force_divisor"` // base force divisor slope per rigidity unit
	ProkaryoteFactor     float64 `yaml:"prokaryote_factor"`      // base force multiplier for minimal body plans
	BaseCost             float64 `yaml:"base_cost"`              // ATP per hex per second at full throttle
	RigidityMobility     float64 `yaml:"rigidity_mobility"`      // membrane mobility lost per rigidity unit
	SlimeImpedance       float64 `yaml:"slime_impedance"`        // force divisor while slowed by slime
	EngulfMultiplier     float64 `yaml:"engulf_multiplier"`      // force multiplier in engulf mode
}

// RotationConfig holds orientation targeting parameters.
// Rotation speed caps are "lower = faster"; the physics world owns the semantics.
type RotationConfig struct {
	BaseSpeed       float64 `yaml:"base_speed"`        // default per-cell rotation speed cap
	SpeedPerHex     float64 `yaml:"speed_per_hex"`     // cap increase (slowdown) per hex of body size
	MinSpeed        float64 `yaml:"min_speed"`         // fastest allowed cap
	ColonyPerMember float64 `yaml:"colony_per_member"` // cap increase per colony member
}

// ColonyConfig holds multi-body aggregation parameters.
type ColonyConfig struct {
	ForceMultiplier float64 `yaml:"force_multiplier"` // per-member force scaling
	Correction      float64 `yaml:"correction"`       // diminishing-returns share subtracted at the limit
}

// OrganelleConfig holds thrust organelle parameters.
type OrganelleConfig struct {
	FlagellumForce          float64 `yaml:"flagellum_force"`           // thrust per unit strength at full alignment
	FlagellumCost           float64 `yaml:"flagellum_cost"`            // ATP per second per unit strength
	ProkaryoteFlagellumDrop float64 `yaml:"prokaryote_flagellum_drop"` // output multiplier on minimal body plans
	JetImpulse              float64 `yaml:"jet_impulse"`               // impulse queued per unit of mucilage
	JetMucilagePerSecond    float64 `yaml:"jet_mucilage_per_second"`   // mucilage drained per jet per second
}

// CompoundConfig holds compound storage parameters.
type CompoundConfig struct {
	Capacity        float64 `yaml:"capacity"`         // per-compound storage cap
	InitialATP      float64 `yaml:"initial_atp"`      // starting ATP per body
	InitialMucilage float64 `yaml:"initial_mucilage"` // starting mucilage per body
	ATPPerSecond    float64 `yaml:"atp_per_second"`   // passive regeneration rate
}

// MembraneConfig defines one membrane type.
type MembraneConfig struct {
	Name           string  `yaml:"name"`
	MovementFactor float64 `yaml:"movement_factor"` // mobility multiplier applied after force accumulation
	Baseline       float64 `yaml:"baseline"`        // base force multiplier
}

// PopulationConfig holds spawn parameters for the demo loop.
type PopulationConfig struct {
	Initial      int     `yaml:"initial"`
	ColonyChance float64 `yaml:"colony_chance"` // chance a spawn becomes a colony leader
	MaxColony    int     `yaml:"max_colony"`    // members per spawned colony, leader included
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks in the rolling perf window
}

// DerivedConfig holds values computed from the raw config.
type DerivedConfig struct {
	DT32          float32
	WorldW32      float32
	WorldD32      float32
	MembraneIndex map[string]uint8 // name -> index for membrane lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldD32 = float32(c.World.Depth)

	// Synthesize a single default membrane if none specified
	if len(c.Membranes) == 0 {
		c.Membranes = []MembraneConfig{
			{Name: "single", MovementFactor: 1.0, Baseline: 1.0},
		}
	}

	c.Derived.MembraneIndex = make(map[string]uint8, len(c.Membranes))
	for i, m := range c.Membranes {
		c.Derived.MembraneIndex[m.Name] = uint8(i)
	}
}

// MembraneAt returns the membrane type at the given index.
// Out-of-range indices fall back to the first membrane.
func (c *Config) MembraneAt(i uint8) *MembraneConfig {
	if int(i) >= len(c.Membranes) {
		return &c.Membranes[0]
	}
	return &c.Membranes[i]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
