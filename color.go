package ember

// ColorBehavior animates the particle tint over lifetime from a color
// keyframe list. Channels are interpolated independently.
type ColorBehavior struct {
	list *PropertyList[Color]
}

// NewColorBehavior creates a color behavior driven by the given list.
func NewColorBehavior(list *PropertyList[Color]) *ColorBehavior {
	return &ColorBehavior{list: list}
}

func (b *ColorBehavior) Order() int { return OrderNormal }

func (b *ColorBehavior) InitParticles(first *Particle) {
	start := b.list.Interpolate(0)
	for p := first; p != nil; p = p.next {
		p.Tint = start
	}
}

func (b *ColorBehavior) UpdateParticle(p *Particle, dt float64) bool {
	p.Tint = b.list.Interpolate(p.agePercent)
	return false
}

func newColorFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Color ColorValues `json:"color" yaml:"color"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	list, err := cfg.Color.PropertyList()
	if err != nil {
		return nil, err
	}
	return NewColorBehavior(list), nil
}

// ColorStaticBehavior tints every particle with one fixed color at spawn.
type ColorStaticBehavior struct {
	color Color
}

// NewColorStaticBehavior creates a static color behavior.
func NewColorStaticBehavior(c Color) *ColorStaticBehavior {
	return &ColorStaticBehavior{color: c}
}

func (b *ColorStaticBehavior) Order() int { return OrderNormal }

func (b *ColorStaticBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.Tint = b.color
	}
}

func newColorStaticFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Color string `json:"color" yaml:"color"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	c, err := HexColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	return NewColorStaticBehavior(c), nil
}
