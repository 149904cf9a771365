package ember

import (
	"math"
	"math/rand/v2"
)

// SpeedBehavior moves particles along their current facing at a speed
// animated over lifetime by a keyframe list, optionally scaled by a
// per-particle random multiplier. Because the direction is read from the
// particle's rotation each tick, spinning particles curve.
type SpeedBehavior struct {
	list    *PropertyList[float64]
	minMult float64
}

// NewSpeedBehavior creates a speed behavior. minMult, in (0, 1], is the
// lower bound of the per-particle random multiplier; 1 (or 0) disables the
// randomization.
func NewSpeedBehavior(list *PropertyList[float64], minMult float64) *SpeedBehavior {
	if minMult <= 0 || minMult > 1 {
		minMult = 1
	}
	return &SpeedBehavior{list: list, minMult: minMult}
}

func (b *SpeedBehavior) Order() int { return OrderLate }

func (b *SpeedBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.speedMult = 1.0
		if b.minMult < 1 {
			p.speedMult = b.minMult + rand.Float64()*(1-b.minMult)
		}
	}
}

func (b *SpeedBehavior) UpdateParticle(p *Particle, dt float64) bool {
	speed := b.list.Interpolate(p.agePercent) * p.speedMult
	p.X += math.Cos(p.Rotation) * speed * dt
	p.Y += math.Sin(p.Rotation) * speed * dt
	return false
}

func newSpeedFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Speed   FloatValues `json:"speed" yaml:"speed"`
		MinMult float64     `json:"minMult" yaml:"minMult"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	list, err := cfg.Speed.PropertyList()
	if err != nil {
		return nil, err
	}
	return NewSpeedBehavior(list, cfg.MinMult), nil
}

// SpeedStaticBehavior moves particles along their current facing at a fixed
// speed drawn once per particle at spawn.
type SpeedStaticBehavior struct {
	speed Range
}

// NewSpeedStaticBehavior creates a static speed behavior.
func NewSpeedStaticBehavior(speed Range) *SpeedStaticBehavior {
	return &SpeedStaticBehavior{speed: speed}
}

func (b *SpeedStaticBehavior) Order() int { return OrderLate }

func (b *SpeedStaticBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.speed = b.speed.Random()
	}
}

func (b *SpeedStaticBehavior) UpdateParticle(p *Particle, dt float64) bool {
	p.X += math.Cos(p.Rotation) * p.speed * dt
	p.Y += math.Sin(p.Rotation) * p.speed * dt
	return false
}

func newSpeedStaticFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Min float64 `json:"min" yaml:"min"`
		Max float64 `json:"max" yaml:"max"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewSpeedStaticBehavior(Range{Min: cfg.Min, Max: cfg.Max}), nil
}

// AccelerationBehavior launches particles along their spawn facing and then
// integrates a constant acceleration (gravity, wind). Velocity is averaged
// across the tick so position is exact for constant acceleration.
type AccelerationBehavior struct {
	accel      Point
	startSpeed Range
	rotate     bool
	maxSpeed   float64
}

// NewAccelerationBehavior creates an acceleration behavior. rotate turns the
// particle to face its velocity; maxSpeed <= 0 means unclamped.
func NewAccelerationBehavior(accel Point, startSpeed Range, rotate bool, maxSpeed float64) *AccelerationBehavior {
	return &AccelerationBehavior{accel: accel, startSpeed: startSpeed, rotate: rotate, maxSpeed: maxSpeed}
}

func (b *AccelerationBehavior) Order() int { return OrderLate }

func (b *AccelerationBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		speed := b.startSpeed.Random()
		p.velX = math.Cos(p.Rotation) * speed
		p.velY = math.Sin(p.Rotation) * speed
	}
}

func (b *AccelerationBehavior) UpdateParticle(p *Particle, dt float64) bool {
	oldVX := p.velX
	oldVY := p.velY
	p.velX += b.accel.X * dt
	p.velY += b.accel.Y * dt
	if b.maxSpeed > 0 {
		if mag := math.Hypot(p.velX, p.velY); mag > b.maxSpeed {
			scale := b.maxSpeed / mag
			p.velX *= scale
			p.velY *= scale
		}
	}
	p.X += (oldVX + p.velX) / 2 * dt
	p.Y += (oldVY + p.velY) / 2 * dt
	if b.rotate {
		p.Rotation = math.Atan2(p.velY, p.velX)
	}
	return false
}

func newAccelerationFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Accel    Point   `json:"accel" yaml:"accel"`
		MinStart float64 `json:"minStart" yaml:"minStart"`
		MaxStart float64 `json:"maxStart" yaml:"maxStart"`
		Rotate   bool    `json:"rotate" yaml:"rotate"`
		MaxSpeed float64 `json:"maxSpeed" yaml:"maxSpeed"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewAccelerationBehavior(cfg.Accel, Range{Min: cfg.MinStart, Max: cfg.MaxStart}, cfg.Rotate, cfg.MaxSpeed), nil
}
