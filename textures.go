package ember

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSingleBehavior assigns one texture to every spawned particle.
type TextureSingleBehavior struct {
	image *ebiten.Image
}

// NewTextureSingleBehavior creates a single-texture behavior.
func NewTextureSingleBehavior(img *ebiten.Image) *TextureSingleBehavior {
	return &TextureSingleBehavior{image: img}
}

func (b *TextureSingleBehavior) Order() int { return OrderNormal }

func (b *TextureSingleBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.Image = b.image
	}
}

func newTextureSingleFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Texture string `json:"texture" yaml:"texture"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return NewTextureSingleBehavior(ctx.Texture(cfg.Texture)), nil
}

// TextureRandomBehavior assigns each spawned particle a texture picked
// uniformly from a set.
type TextureRandomBehavior struct {
	images []*ebiten.Image
}

// NewTextureRandomBehavior creates a random-texture behavior.
func NewTextureRandomBehavior(images []*ebiten.Image) *TextureRandomBehavior {
	return &TextureRandomBehavior{images: images}
}

func (b *TextureRandomBehavior) Order() int { return OrderNormal }

func (b *TextureRandomBehavior) InitParticles(first *Particle) {
	if len(b.images) == 0 {
		return
	}
	for p := first; p != nil; p = p.next {
		p.Image = b.images[rand.IntN(len(b.images))]
	}
}

func newTextureRandomFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Textures []string `json:"textures" yaml:"textures"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	images := make([]*ebiten.Image, len(cfg.Textures))
	for i, name := range cfg.Textures {
		images[i] = ctx.Texture(name)
	}
	return NewTextureRandomBehavior(images), nil
}

// TextureOrderedBehavior cycles through a texture list across spawned
// particles, so consecutive particles show consecutive frames.
type TextureOrderedBehavior struct {
	images []*ebiten.Image
	index  int
}

// NewTextureOrderedBehavior creates an ordered-texture behavior.
func NewTextureOrderedBehavior(images []*ebiten.Image) *TextureOrderedBehavior {
	return &TextureOrderedBehavior{images: images}
}

func (b *TextureOrderedBehavior) Order() int { return OrderNormal }

func (b *TextureOrderedBehavior) InitParticles(first *Particle) {
	if len(b.images) == 0 {
		return
	}
	for p := first; p != nil; p = p.next {
		p.Image = b.images[b.index]
		b.index++
		if b.index >= len(b.images) {
			b.index = 0
		}
	}
}

func newTextureOrderedFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Textures []string `json:"textures" yaml:"textures"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	images := make([]*ebiten.Image, len(cfg.Textures))
	for i, name := range cfg.Textures {
		images[i] = ctx.Texture(name)
	}
	return NewTextureOrderedBehavior(images), nil
}
