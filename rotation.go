package ember

import "math"

// degToRad converts degrees (the unit used in configs and the public
// Rotate API) to radians (the unit particles and sprites carry).
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RotationBehavior spins particles: a random starting angle added at spawn,
// then a random angular speed with optional angular acceleration applied
// each tick. All config values are in degrees; particle rotation is radians.
type RotationBehavior struct {
	start Range // radians
	speed Range // radians/second
	accel float64
}

// NewRotationBehavior creates a rotation behavior. Arguments are in radians;
// the config factory converts from degrees.
func NewRotationBehavior(start, speed Range, accel float64) *RotationBehavior {
	return &RotationBehavior{start: start, speed: speed, accel: accel}
}

func (b *RotationBehavior) Order() int { return OrderNormal }

func (b *RotationBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		// Added, not assigned, so spawn shapes that orient particles
		// outward still contribute.
		p.Rotation += b.start.Random()
		p.rotSpeed = b.speed.Random()
	}
}

func (b *RotationBehavior) UpdateParticle(p *Particle, dt float64) bool {
	if b.accel != 0 {
		old := p.rotSpeed
		p.rotSpeed += b.accel * dt
		p.Rotation += (old + p.rotSpeed) / 2 * dt
	} else {
		p.Rotation += p.rotSpeed * dt
	}
	return false
}

func newRotationFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		MinStart float64 `json:"minStart" yaml:"minStart"`
		MaxStart float64 `json:"maxStart" yaml:"maxStart"`
		MinSpeed float64 `json:"minSpeed" yaml:"minSpeed"`
		MaxSpeed float64 `json:"maxSpeed" yaml:"maxSpeed"`
		Accel    float64 `json:"accel" yaml:"accel"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewRotationBehavior(
		Range{Min: degToRad(cfg.MinStart), Max: degToRad(cfg.MaxStart)},
		Range{Min: degToRad(cfg.MinSpeed), Max: degToRad(cfg.MaxSpeed)},
		degToRad(cfg.Accel),
	), nil
}

// RotationStaticBehavior adds a fixed random angle to each particle at
// spawn, with no spin.
type RotationStaticBehavior struct {
	rotation Range // radians
}

// NewRotationStaticBehavior creates a static rotation behavior. The range is
// in radians; the config factory converts from degrees.
func NewRotationStaticBehavior(rotation Range) *RotationStaticBehavior {
	return &RotationStaticBehavior{rotation: rotation}
}

func (b *RotationStaticBehavior) Order() int { return OrderNormal }

func (b *RotationStaticBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.Rotation += b.rotation.Random()
	}
}

func newRotationStaticFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Min float64 `json:"min" yaml:"min"`
		Max float64 `json:"max" yaml:"max"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewRotationStaticBehavior(Range{Min: degToRad(cfg.Min), Max: degToRad(cfg.Max)}), nil
}

// NoRotationBehavior pins particle rotation to zero after all spawn-time
// orientation (emitter rotation, spawn shapes) has been applied, so sprites
// always render upright.
type NoRotationBehavior struct{}

// NewNoRotationBehavior creates a no-rotation behavior.
func NewNoRotationBehavior() NoRotationBehavior {
	return NoRotationBehavior{}
}

func (NoRotationBehavior) Order() int { return OrderLate }

func (NoRotationBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.Rotation = 0
	}
}

func newNoRotationFactory(ctx BehaviorContext) (Behavior, error) {
	return NewNoRotationBehavior(), nil
}
