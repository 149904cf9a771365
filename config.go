package ember

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FloatStep is one scalar keyframe in a config value list.
type FloatStep struct {
	Value float64 `json:"value" yaml:"value"`
	Time  float64 `json:"time" yaml:"time"`
}

// FloatValues is the serialized form of a scalar keyframe list.
type FloatValues struct {
	List      []FloatStep `json:"list" yaml:"list"`
	IsStepped bool        `json:"isStepped,omitempty" yaml:"isStepped,omitempty"`
	Ease      EaseConfig  `json:"ease,omitempty" yaml:"ease,omitempty"`
}

// PropertyList compiles the config into an evaluator. Keyframe times must
// strictly increase.
func (v FloatValues) PropertyList() (*PropertyList[float64], error) {
	if len(v.List) == 0 {
		return nil, fmt.Errorf("ember: value list is empty")
	}
	easeFn, err := v.Ease.Func()
	if err != nil {
		return nil, err
	}
	var first, tail *PropertyNode[float64]
	for i, step := range v.List {
		if tail != nil && step.Time <= tail.Time {
			return nil, fmt.Errorf("ember: value list times must strictly increase (index %d)", i)
		}
		node := &PropertyNode[float64]{Value: step.Value, Time: step.Time}
		if first == nil {
			node.IsStepped = v.IsStepped
			node.Ease = easeFn
			first = node
		} else {
			tail.Next = node
		}
		tail = node
	}
	return NewFloatList(first), nil
}

// ColorStep is one color keyframe in a config value list. Value is a hex
// color string such as "#ff8800".
type ColorStep struct {
	Value string  `json:"value" yaml:"value"`
	Time  float64 `json:"time" yaml:"time"`
}

// ColorValues is the serialized form of a color keyframe list.
type ColorValues struct {
	List      []ColorStep `json:"list" yaml:"list"`
	IsStepped bool        `json:"isStepped,omitempty" yaml:"isStepped,omitempty"`
	Ease      EaseConfig  `json:"ease,omitempty" yaml:"ease,omitempty"`
}

// PropertyList compiles the config into an evaluator, parsing each hex
// color. Keyframe times must strictly increase.
func (v ColorValues) PropertyList() (*PropertyList[Color], error) {
	if len(v.List) == 0 {
		return nil, fmt.Errorf("ember: color list is empty")
	}
	easeFn, err := v.Ease.Func()
	if err != nil {
		return nil, err
	}
	var first, tail *PropertyNode[Color]
	for i, step := range v.List {
		if tail != nil && step.Time <= tail.Time {
			return nil, fmt.Errorf("ember: color list times must strictly increase (index %d)", i)
		}
		c, err := HexColor(step.Value)
		if err != nil {
			return nil, err
		}
		node := &PropertyNode[Color]{Value: c, Time: step.Time}
		if first == nil {
			node.IsStepped = v.IsStepped
			node.Ease = easeFn
			first = node
		} else {
			tail.Next = node
		}
		tail = node
	}
	return NewColorList(first), nil
}

// BehaviorEntry is one ordered {type, config} pair from an emitter config.
// The config block is kept in its raw codec form and decoded by the
// behavior's factory, so one factory serves JSON and YAML alike.
type BehaviorEntry struct {
	Type   string
	decode func(v any) error
}

// UnmarshalJSON captures the raw config block for deferred decoding.
func (b *BehaviorEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   string          `json:"type"`
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Type = raw.Type
	if len(raw.Config) > 0 {
		cfg := raw.Config
		b.decode = func(v any) error { return json.Unmarshal(cfg, v) }
	} else {
		b.decode = nil
	}
	return nil
}

// UnmarshalYAML captures the raw config node for deferred decoding.
func (b *BehaviorEntry) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Type   string    `yaml:"type"`
		Config yaml.Node `yaml:"config"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	b.Type = raw.Type
	if raw.Config.Kind != 0 {
		cfg := raw.Config
		b.decode = func(v any) error { return cfg.Decode(v) }
	} else {
		b.decode = nil
	}
	return nil
}

// EmitterConfig describes a complete emitter: spawn scheduling, particle
// lifetime, and the ordered behavior list. It is the unmarshal target for
// LoadConfig and LoadConfigYAML, and can equally be built in code.
type EmitterConfig struct {
	// Lifetime is the range particle lifetimes are drawn from, in seconds.
	Lifetime Range `json:"lifetime" yaml:"lifetime"`
	// Ease, when set, reshapes every particle's agePercent over its life.
	Ease EaseConfig `json:"ease,omitempty" yaml:"ease,omitempty"`
	// Frequency is the delay between spawn waves, in seconds per wave.
	// Non-positive values are coerced to 1.
	Frequency float64 `json:"frequency" yaml:"frequency"`
	// SpawnChance is the probability in [0, 1] that an individual particle
	// of a wave actually spawns. Nil means 1.
	SpawnChance *float64 `json:"spawnChance,omitempty" yaml:"spawnChance,omitempty"`
	// ParticlesPerWave is the number of particles per spawn opportunity.
	// Values below 1 are coerced to 1.
	ParticlesPerWave int `json:"particlesPerWave,omitempty" yaml:"particlesPerWave,omitempty"`
	// EmitterLifetime limits how long the emitter spawns, in seconds.
	// -1 (or 0) means unlimited.
	EmitterLifetime float64 `json:"emitterLifetime,omitempty" yaml:"emitterLifetime,omitempty"`
	// MaxParticles caps the concurrently active population. Values below 1
	// are coerced to 1000.
	MaxParticles int `json:"maxParticles,omitempty" yaml:"maxParticles,omitempty"`
	// AddAtBack attaches new particles at the back of the container's draw
	// order instead of the front.
	AddAtBack bool `json:"addAtBack,omitempty" yaml:"addAtBack,omitempty"`
	// Pos is the emitter's local spawn offset from the owner position.
	Pos Point `json:"pos" yaml:"pos"`
	// Emit controls whether the emitter starts emitting. Nil means true.
	Emit *bool `json:"emit,omitempty" yaml:"emit,omitempty"`
	// AutoUpdate marks the emitter to be driven by a shared Clock.
	AutoUpdate bool `json:"autoUpdate,omitempty" yaml:"autoUpdate,omitempty"`
	// Behaviors is the ordered behavior list.
	Behaviors []BehaviorEntry `json:"behaviors" yaml:"behaviors"`

	// ExtraBehaviors are pre-built behavior instances appended after the
	// registry-built ones. Not serialized; used when assembling emitters in
	// code.
	ExtraBehaviors []Behavior `json:"-" yaml:"-"`
	// Registry resolves behavior type names. Nil uses the shared built-in
	// registry.
	Registry *Registry `json:"-" yaml:"-"`
	// Textures resolves texture names referenced by behavior configs.
	Textures TextureSource `json:"-" yaml:"-"`
}

// LoadConfig parses a JSON emitter config.
func LoadConfig(data []byte) (EmitterConfig, error) {
	var cfg EmitterConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return EmitterConfig{}, fmt.Errorf("ember: failed to parse emitter config: %w", err)
	}
	return cfg, nil
}

// LoadConfigYAML parses a YAML emitter config.
func LoadConfigYAML(data []byte) (EmitterConfig, error) {
	var cfg EmitterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EmitterConfig{}, fmt.Errorf("ember: failed to parse emitter config: %w", err)
	}
	return cfg, nil
}
