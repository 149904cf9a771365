package ember

import (
	"log"
	"math"
	"math/rand/v2"
)

// spawnPositionMarker is the synthetic pipeline step at which the emitter
// applies its own rotation and spawn anchor to a freshly spawned wave and
// backdates particle ages for the sub-tick spawn offset. It sorts
// immediately after Spawn-band behaviors.
type spawnPositionMarker struct{}

func (spawnPositionMarker) Order() int              { return orderSpawnPosition }
func (spawnPositionMarker) InitParticles(*Particle) {}

var positionStep Behavior = spawnPositionMarker{}

// Emitter owns and drives a population of particles: a free pool, the active
// list, spawn scheduling, and the sorted behavior pipeline. An emitter is
// single-threaded and frame-driven; call Update once per frame, or register
// it with a Clock and enable auto-update.
type Emitter struct {
	initBehaviors    []Behavior
	updateBehaviors  []Updater
	recycleBehaviors []Recycler

	lifetime         Range
	customEase       EaseFunc
	frequency        float64
	spawnChance      float64
	particlesPerWave int
	maxParticles     int
	// emitterLifetime is the configured emission duration; -1 is unlimited.
	// emitterLife counts down the remaining duration while emitting.
	emitterLifetime float64
	emitterLife     float64

	// Active particles form a doubly-linked list ordered by spawn time;
	// freed particles form a singly-linked pool through next.
	activeFirst, activeLast *Particle
	pool                    *Particle
	particleCount           int

	emit           bool
	spawnTimer     float64
	ownerPos       Point
	spawnPos       Point
	prevEmitterPos Point
	prevPosIsValid bool
	posChanged     bool

	parent      Container
	addAtBack   bool
	rotationDeg float64

	autoUpdate bool
	clock      *Clock

	completeCallback    func()
	destroyWhenComplete bool
	destroyed           bool
}

// NewEmitter creates an emitter attached to parent and configures it from
// cfg. Panics if parent is nil.
func NewEmitter(parent Container, cfg EmitterConfig) *Emitter {
	if parent == nil {
		panic("ember: emitter needs a container")
	}
	e := &Emitter{parent: parent}
	e.Init(cfg)
	return e
}

// Init (re)configures the emitter. Any currently active particles are
// recycled first. Config problems degrade rather than fail: unknown
// behavior types are logged and skipped, and malformed numbers are coerced
// to safe values. Panics if the emitter has been destroyed.
func (e *Emitter) Init(cfg EmitterConfig) {
	if e.destroyed {
		panic("ember: Init on destroyed emitter")
	}
	e.Cleanup()

	e.lifetime = cfg.Lifetime
	if e.lifetime.Min <= 0 {
		log.Printf("ember: config lifetime min %v invalid, using 1", e.lifetime.Min)
		e.lifetime.Min = 1
	}
	if e.lifetime.Max < e.lifetime.Min {
		log.Printf("ember: config lifetime max %v below min, using min", e.lifetime.Max)
		e.lifetime.Max = e.lifetime.Min
	}

	easeFn, err := cfg.Ease.Func()
	if err != nil {
		log.Printf("ember: config ease invalid, ignoring: %v", err)
		easeFn = nil
	}
	e.customEase = easeFn

	e.SetFrequency(cfg.Frequency)

	e.spawnChance = 1
	if cfg.SpawnChance != nil {
		e.spawnChance = math.Min(math.Max(*cfg.SpawnChance, 0), 1)
	}

	e.particlesPerWave = cfg.ParticlesPerWave
	if e.particlesPerWave < 1 {
		e.particlesPerWave = 1
	}

	e.maxParticles = cfg.MaxParticles
	if e.maxParticles < 1 {
		e.maxParticles = 1000
	}

	e.emitterLifetime = cfg.EmitterLifetime
	if e.emitterLifetime <= 0 {
		e.emitterLifetime = -1
	}

	e.addAtBack = cfg.AddAtBack
	e.spawnPos = cfg.Pos
	e.ownerPos = Point{}
	e.rotationDeg = 0
	e.spawnTimer = 0
	e.posChanged = true
	e.prevPosIsValid = false
	e.autoUpdate = cfg.AutoUpdate

	reg := cfg.Registry
	if reg == nil {
		reg = defaultRegistry()
	}
	behaviors := reg.build(cfg.Behaviors, cfg.Textures)
	behaviors = append(behaviors, cfg.ExtraBehaviors...)
	behaviors = append(behaviors, positionStep)
	sortPipeline(behaviors)

	e.initBehaviors = behaviors
	e.updateBehaviors = e.updateBehaviors[:0]
	e.recycleBehaviors = e.recycleBehaviors[:0]
	for _, b := range behaviors {
		if u, ok := b.(Updater); ok {
			e.updateBehaviors = append(e.updateBehaviors, u)
		}
		if r, ok := b.(Recycler); ok {
			e.recycleBehaviors = append(e.recycleBehaviors, r)
		}
	}

	e.SetEmit(cfg.Emit == nil || *cfg.Emit)
}

// Update advances the simulation by dt seconds: ages and updates active
// particles, recycles expired ones, then runs the spawn loop. Newly spawned
// particles are caught up to the correct sub-frame state before Update
// returns. A destroyed emitter ignores Update entirely.
func (e *Emitter) Update(dt float64) {
	if e.destroyed {
		return
	}

	// Snapshot next before touching the particle; update or recycle may
	// unlink it.
	for p := e.activeFirst; p != nil; {
		next := p.next
		p.age += dt
		if p.age > p.maxLife || p.age < 0 {
			e.recycle(p, false)
		} else {
			lerp := p.age * p.oneOverLife
			if e.customEase != nil {
				lerp = e.customEase(lerp)
			}
			p.agePercent = lerp
			for _, b := range e.updateBehaviors {
				if b.UpdateParticle(p, dt) {
					e.recycle(p, false)
					break
				}
			}
		}
		p = next
	}

	curX := e.ownerPos.X + e.spawnPos.X
	curY := e.ownerPos.Y + e.spawnPos.Y

	if e.emit && dt > 0 {
		e.spawnTimer -= dt
		for e.spawnTimer <= 0 {
			if e.emitterLifetime > 0 {
				e.emitterLife -= e.frequency
				if e.emitterLife <= 0 {
					e.spawnTimer = 0
					e.emitterLife = 0
					e.emit = false
					break
				}
			}
			if e.particleCount >= e.maxParticles {
				// At capacity: defer this spawn opportunity but keep the
				// schedule so spawning catches up once room frees.
				e.spawnTimer += e.frequency
				continue
			}
			var emitX, emitY float64
			if e.prevPosIsValid && e.posChanged {
				// Spread the wave along the anchor's motion this tick.
				f := 1 + e.spawnTimer/dt
				emitX = (curX-e.prevEmitterPos.X)*f + e.prevEmitterPos.X
				emitY = (curY-e.prevEmitterPos.Y)*f + e.prevEmitterPos.Y
			} else {
				emitX = curX
				emitY = curY
			}
			e.spawnWave(emitX, emitY, -e.spawnTimer)
			e.spawnTimer += e.frequency
		}
	}

	if e.posChanged {
		e.prevEmitterPos = Point{X: curX, Y: curY}
		e.prevPosIsValid = true
		e.posChanged = false
	}

	if !e.emit && e.activeFirst == nil {
		if e.completeCallback != nil {
			cb := e.completeCallback
			e.completeCallback = nil
			cb()
		}
		if e.destroyWhenComplete {
			e.Destroy()
		}
	}
}

// spawnWave creates up to one wave of particles at the given anchor.
// backdate is the time already elapsed since the wave's nominal spawn
// instant; ages start there and the wave is advanced by it.
func (e *Emitter) spawnWave(emitX, emitY, backdate float64) {
	count := e.particlesPerWave
	if room := e.maxParticles - e.particleCount; count > room {
		count = room
	}
	var waveFirst *Particle
	for i := 0; i < count; i++ {
		if e.spawnChance < 1 && rand.Float64() >= e.spawnChance {
			continue
		}
		lifetime := e.lifetime.Random()
		if backdate >= lifetime {
			// Would already be dead by the end of this tick.
			continue
		}
		p := e.pool
		if p != nil {
			e.pool = p.next
			p.init(lifetime)
		} else {
			p = newParticle(e)
			p.init(lifetime)
		}
		if e.addAtBack {
			e.parent.AddParticleAt(p, 0)
		} else {
			e.parent.AddParticle(p)
		}
		// Append at the tail of the active list: the wave stays the tail
		// segment, so behaviors walk exactly the new particles via next.
		p.next = nil
		p.prev = e.activeLast
		if e.activeLast != nil {
			e.activeLast.next = p
		} else {
			e.activeFirst = p
		}
		e.activeLast = p
		if waveFirst == nil {
			waveFirst = p
		}
		e.particleCount++
	}
	if waveFirst == nil {
		return
	}

	for _, b := range e.initBehaviors {
		if b == positionStep {
			rot := degToRad(e.rotationDeg)
			sin, cos := math.Sincos(rot)
			for p := waveFirst; p != nil; p = p.next {
				if rot != 0 {
					x, y := p.X, p.Y
					p.X = x*cos - y*sin
					p.Y = x*sin + y*cos
					p.Rotation += rot
				}
				p.X += emitX
				p.Y += emitY
				p.age = backdate
				lerp := p.age * p.oneOverLife
				if e.customEase != nil {
					lerp = e.customEase(lerp)
				}
				p.agePercent = lerp
			}
		} else {
			b.InitParticles(waveFirst)
		}
	}

	if backdate > 0 {
		for p := waveFirst; p != nil; {
			next := p.next
			for _, b := range e.updateBehaviors {
				if b.UpdateParticle(p, backdate) {
					e.recycle(p, false)
					break
				}
			}
			p = next
		}
	}
}

// EmitNow spawns a single wave at the current spawn anchor immediately,
// bypassing the frequency schedule and the emit flag. Capacity, spawn
// chance, and wave size still apply.
func (e *Emitter) EmitNow() {
	if e.destroyed {
		return
	}
	e.spawnWave(e.ownerPos.X+e.spawnPos.X, e.ownerPos.Y+e.spawnPos.Y, 0)
}

// recycle runs teardown hooks, unlinks the particle from the active list,
// pushes it onto the free pool, and detaches it from the container.
func (e *Emitter) recycle(p *Particle, fromCleanup bool) {
	for _, b := range e.recycleBehaviors {
		b.RecycleParticle(p, !fromCleanup)
	}
	if p.prev != nil {
		p.prev.next = p.next
	} else {
		e.activeFirst = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	} else {
		e.activeLast = p.prev
	}
	p.prev = nil
	p.next = e.pool
	e.pool = p
	if e.parent != nil {
		e.parent.RemoveParticle(p)
	}
	e.particleCount--
}

// PlayOnce starts emission and invokes callback once when the emitter has
// stopped and the last particle has expired. Most useful on emitters with a
// finite emitterLifetime.
func (e *Emitter) PlayOnce(callback func()) {
	e.completeCallback = callback
	e.SetEmit(true)
}

// PlayOnceAndDestroy is PlayOnce followed by automatic Destroy on
// completion.
func (e *Emitter) PlayOnceAndDestroy(callback func()) {
	e.destroyWhenComplete = true
	e.PlayOnce(callback)
}

// Cleanup immediately recycles every active particle without waiting for
// lifetimes to expire. The pool is retained; emission state is untouched.
func (e *Emitter) Cleanup() {
	for p := e.activeFirst; p != nil; {
		next := p.next
		e.recycle(p, true)
		p = next
	}
}

// Destroy hard-stops the emitter: recycles all active particles, releases
// the pool, detaches from its clock and container, and clears the behavior
// pipeline. A destroyed emitter ignores Update and EmitNow; Init panics.
func (e *Emitter) Destroy() {
	if e.destroyed {
		return
	}
	if e.clock != nil {
		e.clock.Remove(e)
	}
	e.Cleanup()
	for p := e.pool; p != nil; {
		next := p.next
		p.next = nil
		p.prev = nil
		p.emitter = nil
		p.Sprite.Destroy()
		p = next
	}
	e.pool = nil
	e.initBehaviors = nil
	e.updateBehaviors = nil
	e.recycleBehaviors = nil
	e.parent = nil
	e.completeCallback = nil
	e.destroyed = true
}

// Rotate sets the emitter's rotation in degrees, applied to every
// subsequently spawned wave.
func (e *Emitter) Rotate(degrees float64) {
	if e.rotationDeg == degrees {
		return
	}
	e.rotationDeg = degrees
	e.posChanged = true
}

// UpdateSpawnPos sets the local spawn offset from the owner position.
func (e *Emitter) UpdateSpawnPos(x, y float64) {
	e.spawnPos = Point{X: x, Y: y}
	e.posChanged = true
}

// UpdateOwnerPos sets the world position of whatever owns this emitter,
// typically once per frame while following a moving object. Spawn anchors
// for waves emitted mid-tick are interpolated along the owner's motion.
func (e *Emitter) UpdateOwnerPos(x, y float64) {
	e.ownerPos = Point{X: x, Y: y}
	e.posChanged = true
}

// ResetPositionTracking forgets the previous spawn anchor so newly spawned
// particles do not interpolate from a stale position, e.g. after
// teleporting the owner.
func (e *Emitter) ResetPositionTracking() {
	e.prevPosIsValid = false
}

// Frequency returns the delay between spawn waves in seconds.
func (e *Emitter) Frequency() float64 { return e.frequency }

// SetFrequency sets the delay between spawn waves. Non-positive values are
// coerced to 1 to keep the spawn loop finite.
func (e *Emitter) SetFrequency(f float64) {
	if f > 0 {
		e.frequency = f
	} else {
		e.frequency = 1
	}
}

// Emit reports whether the emitter is accepting new spawns.
func (e *Emitter) Emit() bool { return e.emit }

// SetEmit starts or stops spawning. Stopping lets existing particles live
// out their lifetimes; starting resets the remaining emission duration for
// finite-lifetime emitters.
func (e *Emitter) SetEmit(v bool) {
	e.emit = v
	e.emitterLife = e.emitterLifetime
}

// AutoUpdate reports whether a Clock drives this emitter.
func (e *Emitter) AutoUpdate() bool { return e.autoUpdate }

// SetAutoUpdate marks the emitter to be driven (or skipped) by its Clock.
func (e *Emitter) SetAutoUpdate(v bool) { e.autoUpdate = v }

// Parent returns the container particles are attached to.
func (e *Emitter) Parent() Container { return e.parent }

// SetParent moves the emitter, and every currently active particle, to a
// new container. Panics if parent is nil or the emitter is destroyed.
func (e *Emitter) SetParent(parent Container) {
	if parent == nil {
		panic("ember: emitter needs a container")
	}
	if e.destroyed {
		panic("ember: SetParent on destroyed emitter")
	}
	for p := e.activeFirst; p != nil; p = p.next {
		e.parent.RemoveParticle(p)
		if e.addAtBack {
			parent.AddParticleAt(p, 0)
		} else {
			parent.AddParticle(p)
		}
	}
	e.parent = parent
}

// ParticleCount returns the number of currently active particles.
func (e *Emitter) ParticleCount() int { return e.particleCount }

// Destroyed reports whether Destroy has run: the container reference and
// behavior pipeline are cleared and the emitter is inert.
func (e *Emitter) Destroyed() bool { return e.destroyed }

// pooledCount walks the free pool. For tests and diagnostics.
func (e *Emitter) pooledCount() int {
	n := 0
	for p := e.pool; p != nil; p = p.next {
		n++
	}
	return n
}
