package ember

import "github.com/hajimehoshi/ebiten/v2"

// Particle is the mutable per-instance state driven by an emitter's behavior
// pipeline. It embeds the renderable Sprite, so behaviors write visual
// properties (position, rotation, scale, alpha, tint, image, blend) directly.
//
// A particle is owned by exactly one emitter and is a member of exactly one
// of the emitter's two lists at any time: the doubly-linked active list
// (ordered by spawn time) or the singly-linked free pool. The links are
// intrusive so that recycling a particle out of the middle of the active
// list is O(1) and a freshly spawned wave can be walked as the tail segment
// of the active list.
type Particle struct {
	Sprite

	emitter *Emitter

	// age is the time in seconds this particle has been alive. It starts at
	// the backdated sub-tick spawn offset, not necessarily zero.
	age     float64
	maxLife float64
	// agePercent is age/maxLife passed through the emitter's ease, in [0, 1].
	// Behaviors read this as the lerp value for their property lists.
	agePercent  float64
	oneOverLife float64

	next, prev *Particle

	// Behavior scratch state. Each field group is privately owned by one
	// behavior family; nothing else reads or writes it. Flat fields instead
	// of a map keep the particle struct allocation-free and cache friendly.
	velX, velY float64 // moveSpeedStatic, moveAcceleration
	speedMult  float64 // moveSpeed, movePath random multiplier
	speed      float64 // moveSpeedStatic fixed magnitude
	scaleMult  float64 // scale random multiplier
	rotSpeed   float64 // rotation, radians/second

	animFrames   []*ebiten.Image // animatedSingle, animatedRandom
	animElapsed  float64
	animRate     float64
	animLoop     bool
	animDuration float64

	pathInitX, pathInitY float64 // movePath spawn transform
	pathSin, pathCos     float64
	pathMovement         float64
}

// newParticle creates a detached particle owned by e with sane sprite
// defaults.
func newParticle(e *Emitter) *Particle {
	p := &Particle{emitter: e}
	p.resetVisuals()
	return p
}

// Age returns the particle's current age in seconds.
func (p *Particle) Age() float64 { return p.age }

// MaxLife returns the particle's total lifetime in seconds.
func (p *Particle) MaxLife() float64 { return p.maxLife }

// AgePercent returns the particle's eased normalized age in [0, 1].
func (p *Particle) AgePercent() float64 { return p.agePercent }

// Next returns the next particle in the list this particle belongs to.
// During behavior init this walks the remainder of the spawned wave.
func (p *Particle) Next() *Particle { return p.next }

// init prepares a particle drawn from the pool (or freshly allocated) for a
// new life: zero age, identity transform, fully visible. Texture and blend
// are left for the texture/blendMode behaviors to assign.
func (p *Particle) init(lifetime float64) {
	p.age = 0
	p.agePercent = 0
	p.maxLife = lifetime
	p.oneOverLife = 1 / lifetime
	p.resetVisuals()
}

func (p *Particle) resetVisuals() {
	p.X = 0
	p.Y = 0
	p.Rotation = 0
	p.ScaleX = 1
	p.ScaleY = 1
	p.AnchorX = 0.5
	p.AnchorY = 0.5
	p.Alpha = 1
	p.Tint = ColorWhite
	p.Visible = true
}
