package ember

import "math"

// BurstSpawnBehavior arranges each wave in a fan: particle i faces
// start + spacing*i and is placed distance pixels along that angle. With
// spacing chosen so the wave covers a full circle, a whole wave forms an
// even radial burst.
type BurstSpawnBehavior struct {
	spacing  float64 // radians between adjacent particles
	start    float64 // radians, angle of the first particle
	distance float64 // pixels from the spawn anchor
}

// NewBurstSpawnBehavior creates a burst spawn behavior. Angles are in
// radians; the config factory converts from degrees.
func NewBurstSpawnBehavior(spacing, start, distance float64) *BurstSpawnBehavior {
	return &BurstSpawnBehavior{spacing: spacing, start: start, distance: distance}
}

func (b *BurstSpawnBehavior) Order() int { return OrderSpawn }

func (b *BurstSpawnBehavior) InitParticles(first *Particle) {
	i := 0
	for p := first; p != nil; p = p.next {
		angle := b.start + b.spacing*float64(i)
		p.Rotation = angle
		if b.distance != 0 {
			p.X = math.Cos(angle) * b.distance
			p.Y = math.Sin(angle) * b.distance
		}
		i++
	}
}

func newBurstFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Spacing  float64 `json:"spacing" yaml:"spacing"`
		Start    float64 `json:"start" yaml:"start"`
		Distance float64 `json:"distance" yaml:"distance"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewBurstSpawnBehavior(degToRad(cfg.Spacing), degToRad(cfg.Start), cfg.Distance), nil
}
