package ember

import (
	"fmt"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Animation is a compiled flipbook: an expanded frame list and a playback
// rate. A Framerate below zero stretches the animation over each particle's
// lifetime instead of playing at a fixed rate.
type Animation struct {
	Frames    []*ebiten.Image
	Framerate float64
	Loop      bool
}

// AnimationConfig is the serialized form of an Animation. Each entry names a
// texture and how many consecutive frames it occupies (count 0 means 1).
type AnimationConfig struct {
	Framerate float64 `json:"framerate" yaml:"framerate"`
	Loop      bool    `json:"loop" yaml:"loop"`
	Textures  []struct {
		Texture string `json:"texture" yaml:"texture"`
		Count   int    `json:"count" yaml:"count"`
	} `json:"textures" yaml:"textures"`
}

func (c AnimationConfig) compile(ctx BehaviorContext) (Animation, error) {
	if len(c.Textures) == 0 {
		return Animation{}, fmt.Errorf("ember: animation has no textures")
	}
	anim := Animation{Framerate: c.Framerate, Loop: c.Loop}
	for _, t := range c.Textures {
		img := ctx.Texture(t.Texture)
		count := t.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			anim.Frames = append(anim.Frames, img)
		}
	}
	return anim, nil
}

// initAnim stores playback state on the particle and shows the first frame.
func initAnim(p *Particle, anim Animation) {
	p.animFrames = anim.Frames
	p.animLoop = anim.Loop
	p.animElapsed = 0
	if anim.Framerate < 0 {
		// Spread the animation across this particle's lifetime.
		p.animRate = float64(len(anim.Frames)) * p.oneOverLife
	} else {
		p.animRate = anim.Framerate
	}
	p.animDuration = float64(len(anim.Frames)) / p.animRate
	p.Image = anim.Frames[0]
}

// stepAnim advances playback and assigns the current frame.
func stepAnim(p *Particle, dt float64) {
	p.animElapsed += dt
	if p.animLoop {
		for p.animElapsed >= p.animDuration {
			p.animElapsed -= p.animDuration
		}
	}
	frame := int(p.animElapsed * p.animRate)
	if frame >= len(p.animFrames) {
		frame = len(p.animFrames) - 1
	}
	p.Image = p.animFrames[frame]
}

// AnimatedSingleBehavior plays one flipbook animation on every particle.
type AnimatedSingleBehavior struct {
	anim Animation
}

// NewAnimatedSingleBehavior creates a single-animation behavior.
func NewAnimatedSingleBehavior(anim Animation) *AnimatedSingleBehavior {
	return &AnimatedSingleBehavior{anim: anim}
}

func (b *AnimatedSingleBehavior) Order() int { return OrderNormal }

func (b *AnimatedSingleBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		initAnim(p, b.anim)
	}
}

func (b *AnimatedSingleBehavior) UpdateParticle(p *Particle, dt float64) bool {
	stepAnim(p, dt)
	return false
}

func newAnimatedSingleFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Anim AnimationConfig `json:"anim" yaml:"anim"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	anim, err := cfg.Anim.compile(ctx)
	if err != nil {
		return nil, err
	}
	return NewAnimatedSingleBehavior(anim), nil
}

// AnimatedRandomBehavior picks one of several flipbook animations per
// particle at spawn.
type AnimatedRandomBehavior struct {
	anims []Animation
}

// NewAnimatedRandomBehavior creates a random-animation behavior.
func NewAnimatedRandomBehavior(anims []Animation) *AnimatedRandomBehavior {
	return &AnimatedRandomBehavior{anims: anims}
}

func (b *AnimatedRandomBehavior) Order() int { return OrderNormal }

func (b *AnimatedRandomBehavior) InitParticles(first *Particle) {
	if len(b.anims) == 0 {
		return
	}
	for p := first; p != nil; p = p.next {
		initAnim(p, b.anims[rand.IntN(len(b.anims))])
	}
}

func (b *AnimatedRandomBehavior) UpdateParticle(p *Particle, dt float64) bool {
	stepAnim(p, dt)
	return false
}

func newAnimatedRandomFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Anims []AnimationConfig `json:"anims" yaml:"anims"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Anims) == 0 {
		return nil, fmt.Errorf("ember: animatedRandom has no animations")
	}
	anims := make([]Animation, len(cfg.Anims))
	for i, ac := range cfg.Anims {
		anim, err := ac.compile(ctx)
		if err != nil {
			return nil, err
		}
		anims[i] = anim
	}
	return NewAnimatedRandomBehavior(anims), nil
}
