package ember

import (
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Execution order bands for behaviors. Lower runs first. The emitter's
// synthetic position step sorts between OrderSpawn and OrderNormal, so
// Spawn-band behaviors see particles before the emitter's own position and
// rotation are applied, and Late-band behaviors may rely on the final spawn
// position and rotation.
const (
	OrderSpawn         = 0
	orderSpawnPosition = 1 // reserved for the emitter's synthetic position step
	OrderNormal        = 2
	OrderLate          = 5
)

// Behavior is one unit of particle simulation: a configuration object that
// initializes every particle of a freshly spawned wave. A behavior instance
// holds no per-particle state; per-particle working data lives in scratch
// fields on Particle.
//
// InitParticles receives the head of the wave and must walk the whole chain
// via Particle.Next.
type Behavior interface {
	Order() int
	InitParticles(first *Particle)
}

// Updater is the optional per-tick capability of a behavior. Returning true
// recycles the particle immediately and short-circuits the remaining
// behaviors for it this tick.
type Updater interface {
	UpdateParticle(p *Particle, dt float64) bool
}

// Recycler is the optional teardown capability of a behavior, fired when a
// particle returns to the pool. natural is true for lifetime expiry or an
// update-signaled kill, false for bulk teardown (Cleanup/Destroy).
type Recycler interface {
	RecycleParticle(p *Particle, natural bool)
}

// BehaviorContext is handed to behavior factories during emitter
// configuration. Decode unmarshals the entry's raw config into a typed
// struct, independent of whether the emitter config came from JSON or YAML.
type BehaviorContext struct {
	decode   func(v any) error
	textures TextureSource
}

// Decode unmarshals the behavior entry's config block into v. With no
// config block present, v is left at its zero value.
func (c BehaviorContext) Decode(v any) error {
	if c.decode == nil {
		return nil
	}
	return c.decode(v)
}

// Texture resolves a texture name through the emitter's texture source.
// Returns nil (and logs) when the name cannot be resolved; a nil-image
// particle still simulates, it is just skipped at draw time.
func (c BehaviorContext) Texture(name string) *ebiten.Image {
	if c.textures == nil {
		return nil
	}
	img := c.textures(name)
	if img == nil {
		log.Printf("ember: texture %q not found", name)
	}
	return img
}

// BehaviorFactory builds a behavior from a config entry.
type BehaviorFactory func(ctx BehaviorContext) (Behavior, error)

// SpawnShapeFactory builds a spawn shape from a shape entry's config.
type SpawnShapeFactory func(ctx BehaviorContext) (SpawnShape, error)

// Registry maps behavior type names (and spawn shape names) to factories.
// NewRegistry returns one pre-populated with the built-in set; custom types
// can be registered at any time before an emitter is initialized with the
// registry. Emitters that are not given a registry use a shared built-in
// one.
type Registry struct {
	behaviors map[string]BehaviorFactory
	shapes    map[string]SpawnShapeFactory
}

// NewRegistry creates a registry containing every built-in behavior and
// spawn shape type.
func NewRegistry() *Registry {
	r := &Registry{
		behaviors: make(map[string]BehaviorFactory),
		shapes:    make(map[string]SpawnShapeFactory),
	}
	registerBuiltins(r)
	return r
}

// Register adds (or replaces) a behavior factory under the given type name.
func (r *Registry) Register(name string, f BehaviorFactory) {
	r.behaviors[name] = f
}

// RegisterShape adds (or replaces) a spawn shape factory under the given
// shape name.
func (r *Registry) RegisterShape(name string, f SpawnShapeFactory) {
	r.shapes[name] = f
}

// defaultRegistry is the shared built-in registry used by emitters that were
// not configured with an explicit one. Built lazily; ember is
// single-threaded by contract, so no sync.
var sharedRegistry *Registry

func defaultRegistry() *Registry {
	if sharedRegistry == nil {
		sharedRegistry = NewRegistry()
	}
	return sharedRegistry
}

// build instantiates behaviors for the given config entries, in order.
// Unknown types and factory errors are logged and skipped; the pipeline
// continues with the remaining behaviors.
func (r *Registry) build(entries []BehaviorEntry, textures TextureSource) []Behavior {
	behaviors := make([]Behavior, 0, len(entries))
	for _, entry := range entries {
		factory, ok := r.behaviors[entry.Type]
		if !ok {
			log.Printf("ember: unknown behavior type %q, skipping", entry.Type)
			continue
		}
		b, err := factory(BehaviorContext{decode: entry.decode, textures: textures})
		if err != nil {
			log.Printf("ember: behavior %q config invalid, skipping: %v", entry.Type, err)
			continue
		}
		behaviors = append(behaviors, b)
	}
	return behaviors
}

// buildShape resolves a spawn shape entry. Unknown shape names fall back to
// the point shape (spawn at the emitter anchor) with a logged warning.
func (r *Registry) buildShape(name string, ctx BehaviorContext) SpawnShape {
	if name == "" || name == "point" {
		return PointShape{}
	}
	factory, ok := r.shapes[name]
	if !ok {
		log.Printf("ember: unknown spawn shape %q, using point", name)
		return PointShape{}
	}
	shape, err := factory(ctx)
	if err != nil {
		log.Printf("ember: spawn shape %q config invalid, using point: %v", name, err)
		return PointShape{}
	}
	return shape
}

// sortPipeline orders behaviors for execution. The sort is stable so
// behaviors of equal order keep their configured sequence, matching the
// order-of-appearance contract for init, update, and recycle passes.
func sortPipeline(behaviors []Behavior) {
	sort.SliceStable(behaviors, func(i, j int) bool {
		return behaviors[i].Order() < behaviors[j].Order()
	})
}

func registerBuiltins(r *Registry) {
	r.Register("alpha", newAlphaFactory)
	r.Register("alphaStatic", newAlphaStaticFactory)
	r.Register("color", newColorFactory)
	r.Register("colorStatic", newColorStaticFactory)
	r.Register("scale", newScaleFactory)
	r.Register("scaleStatic", newScaleStaticFactory)
	r.Register("rotation", newRotationFactory)
	r.Register("rotationStatic", newRotationStaticFactory)
	r.Register("noRotation", newNoRotationFactory)
	r.Register("moveSpeed", newSpeedFactory)
	r.Register("moveSpeedStatic", newSpeedStaticFactory)
	r.Register("moveAcceleration", newAccelerationFactory)
	r.Register("movePath", newPathFactory)
	r.Register("spawnShape", newSpawnShapeFactory(r))
	r.Register("spawnBurst", newBurstFactory)
	r.Register("textureSingle", newTextureSingleFactory)
	r.Register("textureRandom", newTextureRandomFactory)
	r.Register("textureOrdered", newTextureOrderedFactory)
	r.Register("animatedSingle", newAnimatedSingleFactory)
	r.Register("animatedRandom", newAnimatedRandomFactory)
	r.Register("blendMode", newBlendModeFactory)

	r.RegisterShape("torus", newTorusShapeFactory)
	r.RegisterShape("rect", newRectShapeFactory)
	r.RegisterShape("polygonalChain", newPolygonalChainFactory)
}
