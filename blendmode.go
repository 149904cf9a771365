package ember

// BlendModeBehavior sets the compositing mode of every spawned particle.
type BlendModeBehavior struct {
	mode BlendMode
}

// NewBlendModeBehavior creates a blend mode behavior.
func NewBlendModeBehavior(mode BlendMode) *BlendModeBehavior {
	return &BlendModeBehavior{mode: mode}
}

func (b *BlendModeBehavior) Order() int { return OrderNormal }

func (b *BlendModeBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.Blend = b.mode
	}
}

func newBlendModeFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		BlendMode string `json:"blendMode" yaml:"blendMode"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	mode, err := ParseBlendMode(cfg.BlendMode)
	if err != nil {
		return nil, err
	}
	return NewBlendModeBehavior(mode), nil
}
