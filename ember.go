package ember

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGB tint with components in [0, 1]. Particle opacity is
// tracked separately as Sprite.Alpha, so there is no alpha channel here.
type Color struct {
	R, G, B float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1}

// HexColor parses a "#rrggbb" or "rrggbb" string into a Color.
func HexColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		// Shorthand "abc" expands to "aabbcc".
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("ember: invalid hex color %q", s)
	}
	var rgb [3]float64
	for i := 0; i < 3; i++ {
		var v int
		for _, c := range s[i*2 : i*2+2] {
			v <<= 4
			switch {
			case c >= '0' && c <= '9':
				v |= int(c - '0')
			case c >= 'a' && c <= 'f':
				v |= int(c-'a') + 10
			case c >= 'A' && c <= 'F':
				v |= int(c-'A') + 10
			default:
				return Color{}, fmt.Errorf("ember: invalid hex color %q", s)
			}
		}
		rgb[i] = float64(v) / 255
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Point is a 2D position or offset.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Range is a general-purpose min/max range. A zero-width range always yields
// Min.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Random returns a uniformly distributed value in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// BlendMode selects a compositing operation for particle rendering.
// Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// ParseBlendMode maps a config string to a BlendMode. Unknown names return
// BlendNormal and an error so callers can log and degrade.
func ParseBlendMode(name string) (BlendMode, error) {
	switch name {
	case "", "normal":
		return BlendNormal, nil
	case "add", "additive", "lighter":
		return BlendAdd, nil
	case "multiply":
		return BlendMultiply, nil
	case "screen":
		return BlendScreen, nil
	default:
		return BlendNormal, fmt.Errorf("ember: unknown blend mode %q", name)
	}
}

// TextureSource resolves a texture name from a config file to an image.
// A nil image is a valid result; particles without an image simulate normally
// but are skipped at draw time.
type TextureSource func(name string) *ebiten.Image

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerpColor interpolates each channel independently.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}
