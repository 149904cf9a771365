package ember

import "math/rand/v2"

// ScaleBehavior animates uniform particle scale over lifetime from a
// keyframe list, optionally multiplied by a per-particle random factor.
type ScaleBehavior struct {
	list    *PropertyList[float64]
	minMult float64
}

// NewScaleBehavior creates a scale behavior. minMult, in (0, 1], is the
// lower bound of the per-particle random multiplier; 1 (or 0) disables the
// randomization.
func NewScaleBehavior(list *PropertyList[float64], minMult float64) *ScaleBehavior {
	if minMult <= 0 || minMult > 1 {
		minMult = 1
	}
	return &ScaleBehavior{list: list, minMult: minMult}
}

func (b *ScaleBehavior) Order() int { return OrderNormal }

func (b *ScaleBehavior) InitParticles(first *Particle) {
	start := b.list.Interpolate(0)
	for p := first; p != nil; p = p.next {
		p.scaleMult = 1.0
		if b.minMult < 1 {
			p.scaleMult = b.minMult + rand.Float64()*(1-b.minMult)
		}
		s := start * p.scaleMult
		p.ScaleX = s
		p.ScaleY = s
	}
}

func (b *ScaleBehavior) UpdateParticle(p *Particle, dt float64) bool {
	s := b.list.Interpolate(p.agePercent) * p.scaleMult
	p.ScaleX = s
	p.ScaleY = s
	return false
}

func newScaleFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Scale   FloatValues `json:"scale" yaml:"scale"`
		MinMult float64     `json:"minMult" yaml:"minMult"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	list, err := cfg.Scale.PropertyList()
	if err != nil {
		return nil, err
	}
	return NewScaleBehavior(list, cfg.MinMult), nil
}

// ScaleStaticBehavior assigns each particle a fixed uniform scale at spawn,
// drawn uniformly from a range.
type ScaleStaticBehavior struct {
	scale Range
}

// NewScaleStaticBehavior creates a static scale behavior.
func NewScaleStaticBehavior(scale Range) *ScaleStaticBehavior {
	return &ScaleStaticBehavior{scale: scale}
}

func (b *ScaleStaticBehavior) Order() int { return OrderNormal }

func (b *ScaleStaticBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		s := b.scale.Random()
		p.ScaleX = s
		p.ScaleY = s
	}
}

func newScaleStaticFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Min float64 `json:"min" yaml:"min"`
		Max float64 `json:"max" yaml:"max"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewScaleStaticBehavior(Range{Min: cfg.Min, Max: cfg.Max}), nil
}
