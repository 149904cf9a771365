package ember

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

// SpawnShape generates spawn positions. GetRandomPosition mutates the
// particle's local position (and, for orienting shapes, its rotation) in
// place and must leave all other particle state untouched. Positions are
// local: the emitter's own rotation and anchor offset are applied afterwards
// by the spawn position step.
type SpawnShape interface {
	GetRandomPosition(p *Particle)
}

// ShapeSpawnBehavior places each spawned particle with a SpawnShape.
type ShapeSpawnBehavior struct {
	shape SpawnShape
}

// NewShapeSpawnBehavior creates a spawn behavior for the given shape.
func NewShapeSpawnBehavior(shape SpawnShape) *ShapeSpawnBehavior {
	return &ShapeSpawnBehavior{shape: shape}
}

func (b *ShapeSpawnBehavior) Order() int { return OrderSpawn }

func (b *ShapeSpawnBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		b.shape.GetRandomPosition(p)
	}
}

// shapeData defers decoding of a shape's data block, mirroring
// BehaviorEntry's handling of behavior config blocks.
type shapeData struct {
	decode func(v any) error
}

func (d *shapeData) UnmarshalJSON(data []byte) error {
	raw := append([]byte(nil), data...)
	d.decode = func(v any) error { return json.Unmarshal(raw, v) }
	return nil
}

func (d *shapeData) UnmarshalYAML(node *yaml.Node) error {
	n := *node
	d.decode = func(v any) error { return n.Decode(v) }
	return nil
}

func newSpawnShapeFactory(r *Registry) BehaviorFactory {
	return func(ctx BehaviorContext) (Behavior, error) {
		var cfg struct {
			Type string    `json:"type" yaml:"type"`
			Data shapeData `json:"data" yaml:"data"`
		}
		if err := ctx.Decode(&cfg); err != nil {
			return nil, err
		}
		shape := r.buildShape(cfg.Type, BehaviorContext{decode: cfg.Data.decode, textures: ctx.textures})
		return NewShapeSpawnBehavior(shape), nil
	}
}

// PointShape spawns every particle at the emitter anchor. It is the default
// when no spawn shape behavior is configured.
type PointShape struct{}

func (PointShape) GetRandomPosition(p *Particle) {}

// TorusShape spawns particles on a ring or disc around a center point.
// Radius is uniformly distributed between InnerRadius and Radius (equal
// values degenerate to the circle perimeter), the angle is uniform in
// [0, 2π). With AffectRotation, the angle is added to the particle's
// rotation so particles face outward.
type TorusShape struct {
	X, Y           float64
	Radius         float64
	InnerRadius    float64
	AffectRotation bool
}

func (s TorusShape) GetRandomPosition(p *Particle) {
	r := s.Radius
	if s.InnerRadius != s.Radius {
		r = s.InnerRadius + rand.Float64()*(s.Radius-s.InnerRadius)
	}
	angle := rand.Float64() * 2 * math.Pi
	p.X = r * math.Cos(angle)
	p.Y = r * math.Sin(angle)
	if s.AffectRotation {
		p.Rotation += angle
	}
	p.X += s.X
	p.Y += s.Y
}

func newTorusShapeFactory(ctx BehaviorContext) (SpawnShape, error) {
	var cfg struct {
		X              float64 `json:"x" yaml:"x"`
		Y              float64 `json:"y" yaml:"y"`
		Radius         float64 `json:"radius" yaml:"radius"`
		InnerRadius    float64 `json:"innerRadius" yaml:"innerRadius"`
		AffectRotation bool    `json:"affectRotation" yaml:"affectRotation"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.InnerRadius > cfg.Radius {
		return nil, fmt.Errorf("ember: torus innerRadius %v exceeds radius %v", cfg.InnerRadius, cfg.Radius)
	}
	return TorusShape{
		X:              cfg.X,
		Y:              cfg.Y,
		Radius:         cfg.Radius,
		InnerRadius:    cfg.InnerRadius,
		AffectRotation: cfg.AffectRotation,
	}, nil
}

// RectShape spawns particles uniformly inside an axis-aligned rectangle
// whose origin is X, Y.
type RectShape struct {
	X, Y, W, H float64
}

func (s RectShape) GetRandomPosition(p *Particle) {
	p.X = s.X + rand.Float64()*s.W
	p.Y = s.Y + rand.Float64()*s.H
}

func newRectShapeFactory(ctx BehaviorContext) (SpawnShape, error) {
	var cfg struct {
		X float64 `json:"x" yaml:"x"`
		Y float64 `json:"y" yaml:"y"`
		W float64 `json:"w" yaml:"w"`
		H float64 `json:"h" yaml:"h"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	return RectShape{X: cfg.X, Y: cfg.Y, W: cfg.W, H: cfg.H}, nil
}

// PolygonalChain spawns particles uniformly along the perimeter of one or
// more open polylines. Segment lengths and a running total are precomputed
// so each draw is a single uniform distance pick plus a table scan.
type PolygonalChain struct {
	segments []chainSegment
	totals   []float64 // running total of segment lengths
	total    float64
}

type chainSegment struct {
	x, y   float64
	dx, dy float64
	length float64
}

// NewPolygonalChain builds a chain shape from one or more polylines. Each
// polyline needs at least two points; zero-length segments are dropped.
func NewPolygonalChain(chains [][]Point) (*PolygonalChain, error) {
	c := &PolygonalChain{}
	for _, chain := range chains {
		for i := 1; i < len(chain); i++ {
			a, b := chain[i-1], chain[i]
			length := math.Hypot(b.X-a.X, b.Y-a.Y)
			if length == 0 {
				continue
			}
			c.segments = append(c.segments, chainSegment{
				x: a.X, y: a.Y,
				dx: b.X - a.X, dy: b.Y - a.Y,
				length: length,
			})
			c.total += length
			c.totals = append(c.totals, c.total)
		}
	}
	if len(c.segments) == 0 {
		return nil, fmt.Errorf("ember: polygonal chain has no usable segments")
	}
	return c, nil
}

func (c *PolygonalChain) GetRandomPosition(p *Particle) {
	// Single segment: no table scan needed.
	if len(c.segments) == 1 {
		seg := c.segments[0]
		t := rand.Float64()
		p.X = seg.x + seg.dx*t
		p.Y = seg.y + seg.dy*t
		return
	}
	d := rand.Float64() * c.total
	i := 0
	for i < len(c.totals)-1 && d > c.totals[i] {
		i++
	}
	seg := c.segments[i]
	start := 0.0
	if i > 0 {
		start = c.totals[i-1]
	}
	t := (d - start) / seg.length
	p.X = seg.x + seg.dx*t
	p.Y = seg.y + seg.dy*t
}

func newPolygonalChainFactory(ctx BehaviorContext) (SpawnShape, error) {
	// Data is either a single polyline or a list of polylines.
	var multi [][]Point
	if err := ctx.Decode(&multi); err != nil || len(multi) == 0 {
		var single []Point
		if err := ctx.Decode(&single); err != nil {
			return nil, err
		}
		multi = [][]Point{single}
	}
	return NewPolygonalChain(multi)
}
