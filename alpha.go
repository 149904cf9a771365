package ember

// AlphaBehavior animates particle opacity over lifetime from a keyframe
// list.
type AlphaBehavior struct {
	list *PropertyList[float64]
}

// NewAlphaBehavior creates an alpha behavior driven by the given list.
func NewAlphaBehavior(list *PropertyList[float64]) *AlphaBehavior {
	return &AlphaBehavior{list: list}
}

func (b *AlphaBehavior) Order() int { return OrderNormal }

func (b *AlphaBehavior) InitParticles(first *Particle) {
	start := b.list.Interpolate(0)
	for p := first; p != nil; p = p.next {
		p.Alpha = start
	}
}

func (b *AlphaBehavior) UpdateParticle(p *Particle, dt float64) bool {
	p.Alpha = b.list.Interpolate(p.agePercent)
	return false
}

func newAlphaFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Alpha FloatValues `json:"alpha" yaml:"alpha"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	list, err := cfg.Alpha.PropertyList()
	if err != nil {
		return nil, err
	}
	return NewAlphaBehavior(list), nil
}

// AlphaStaticBehavior assigns each particle a fixed opacity at spawn, drawn
// uniformly from a range.
type AlphaStaticBehavior struct {
	alpha Range
}

// NewAlphaStaticBehavior creates a static alpha behavior.
func NewAlphaStaticBehavior(alpha Range) *AlphaStaticBehavior {
	return &AlphaStaticBehavior{alpha: alpha}
}

func (b *AlphaStaticBehavior) Order() int { return OrderNormal }

func (b *AlphaStaticBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.Alpha = b.alpha.Random()
	}
}

func newAlphaStaticFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Alpha Range `json:"alpha" yaml:"alpha"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewAlphaStaticBehavior(cfg.Alpha), nil
}
