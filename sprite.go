package ember

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is the renderable state of a single particle: a textured quad with
// position, rotation, scale, anchor, opacity, tint, and blend mode. Particle
// embeds Sprite directly, so behaviors mutate these fields in place.
type Sprite struct {
	// X, Y position the sprite's anchor point, in the layer's coordinate space.
	X, Y float64
	// Rotation is in radians, clockwise.
	Rotation       float64
	ScaleX, ScaleY float64
	// AnchorX, AnchorY locate the transform origin within the image,
	// normalized to [0, 1]. Defaults to the center (0.5, 0.5).
	AnchorX, AnchorY float64
	// Alpha is the sprite's opacity in [0, 1].
	Alpha float64
	// Tint multiplies the image's color channels.
	Tint Color
	// Image is the texture to draw. Nil sprites are skipped at draw time,
	// which keeps headless simulation (and tests) free of GPU resources.
	Image   *ebiten.Image
	Blend   BlendMode
	Visible bool

	layer *Layer
}

// Layer returns the layer this sprite is attached to, or nil.
func (s *Sprite) Layer() *Layer {
	return s.layer
}

// Destroy detaches the sprite from its layer and releases its image reference.
// The ebiten.Image itself is not deallocated; textures are shared.
func (s *Sprite) Destroy() {
	if s.layer != nil {
		s.layer.removeSprite(s)
	}
	s.Image = nil
}

// Container is the attachment point the emitter needs from a rendering
// surface: add a particle at the front or back of the draw order, and remove
// it again. Layer is the built-in implementation; any scene graph can satisfy
// this to host ember particles.
type Container interface {
	// AddParticle appends the particle at the front of the draw order.
	AddParticle(p *Particle)
	// AddParticleAt inserts the particle at the given draw-order index.
	// Index 0 is the back.
	AddParticleAt(p *Particle, index int)
	// RemoveParticle detaches the particle. Removing a particle that is not
	// attached is a no-op.
	RemoveParticle(p *Particle)
}

// Layer is a flat draw list of particles backed by ebiten. It implements
// Container for emitters and renders its children in order with Draw.
type Layer struct {
	children []*Particle
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	return &Layer{}
}

// AddParticle appends p to the front of the draw order.
// Panics if p is nil. If p is already attached to a layer, it is removed
// from that layer first.
func (l *Layer) AddParticle(p *Particle) {
	if p == nil {
		panic("ember: cannot add nil particle")
	}
	if p.Sprite.layer != nil {
		p.Sprite.layer.removeSprite(&p.Sprite)
	}
	p.Sprite.layer = l
	l.children = append(l.children, p)
}

// AddParticleAt inserts p at the given draw-order index (0 = back).
// Panics if p is nil or the index is out of range.
func (l *Layer) AddParticleAt(p *Particle, index int) {
	if p == nil {
		panic("ember: cannot add nil particle")
	}
	if index < 0 || index > len(l.children) {
		panic("ember: particle index out of range")
	}
	if p.Sprite.layer != nil {
		p.Sprite.layer.removeSprite(&p.Sprite)
	}
	p.Sprite.layer = l
	l.children = append(l.children, nil)
	copy(l.children[index+1:], l.children[index:])
	l.children[index] = p
}

// RemoveParticle detaches p from this layer. No-op if p is attached elsewhere
// or not attached at all.
func (l *Layer) RemoveParticle(p *Particle) {
	if p == nil || p.Sprite.layer != l {
		return
	}
	l.removeSprite(&p.Sprite)
}

// NumParticles returns the number of attached particles.
func (l *Layer) NumParticles() int {
	return len(l.children)
}

// removeSprite removes the particle owning s from the child list.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (l *Layer) removeSprite(s *Sprite) {
	for i, c := range l.children {
		if &c.Sprite == s {
			copy(l.children[i:], l.children[i+1:])
			l.children[len(l.children)-1] = nil
			l.children = l.children[:len(l.children)-1]
			s.layer = nil
			return
		}
	}
}

// Draw renders all attached particles to target, back to front. Particles
// with no image, zero alpha, or Visible false are skipped.
func (l *Layer) Draw(target *ebiten.Image) {
	var op ebiten.DrawImageOptions
	for _, p := range l.children {
		s := &p.Sprite
		if s.Image == nil || !s.Visible || s.Alpha <= 0 {
			continue
		}
		bounds := s.Image.Bounds()
		op.GeoM.Reset()
		op.GeoM.Translate(-s.AnchorX*float64(bounds.Dx()), -s.AnchorY*float64(bounds.Dy()))
		op.GeoM.Scale(s.ScaleX, s.ScaleY)
		op.GeoM.Rotate(s.Rotation)
		op.GeoM.Translate(s.X, s.Y)
		op.ColorScale.Reset()
		op.ColorScale.Scale(float32(s.Tint.R), float32(s.Tint.G), float32(s.Tint.B), 1)
		op.ColorScale.ScaleAlpha(float32(s.Alpha))
		op.Blend = s.Blend.EbitenBlend()
		target.DrawImage(s.Image, &op)
	}
}
