package ember

import (
	"math"
	"testing"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func burstConfig() EmitterConfig {
	// Manual-trigger baseline: no scheduled spawning, long lifetimes.
	return EmitterConfig{
		Lifetime:  Range{Min: 10, Max: 10},
		Frequency: 0.1,
		Emit:      boolPtr(false),
	}
}

func TestNewEmitterNilParentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil container")
		}
	}()
	NewEmitter(nil, burstConfig())
}

func TestEmitNowSpawnsWave(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.ParticlesPerWave = 3
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	if got := e.ParticleCount(); got != 3 {
		t.Errorf("ParticleCount() = %v, want 3", got)
	}
	if got := layer.NumParticles(); got != 3 {
		t.Errorf("NumParticles() = %v, want 3", got)
	}

	e.EmitNow()
	if got := e.ParticleCount(); got != 6 {
		t.Errorf("ParticleCount() after second wave = %v, want 6", got)
	}
}

func TestEmitNowRespectsCapacity(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.ParticlesPerWave = 3
	cfg.MaxParticles = 5
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	e.EmitNow()
	if got := e.ParticleCount(); got != 5 {
		t.Errorf("ParticleCount() = %v, want 5", got)
	}
}

func TestSpawnCountOverTime(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:         Range{Min: 10, Max: 10},
		Frequency:        0.1,
		ParticlesPerWave: 3,
		MaxParticles:     30,
	}
	e := NewEmitter(layer, cfg)

	for i := 0; i < 10; i++ {
		e.Update(0.1)
	}
	if got := e.ParticleCount(); got != 30 {
		t.Errorf("ParticleCount() after 1s at 0.1s frequency = %v, want 30", got)
	}
	if got := layer.NumParticles(); got != 30 {
		t.Errorf("NumParticles() = %v, want 30", got)
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:         Range{Min: 0.3, Max: 0.3},
		Frequency:        0.05,
		ParticlesPerWave: 4,
		MaxParticles:     7,
	}
	e := NewEmitter(layer, cfg)

	for i := 0; i < 50; i++ {
		e.Update(0.05)
		if got := e.ParticleCount(); got > 7 {
			t.Fatalf("ParticleCount() = %v at tick %d, want <= 7", got, i)
		}
		if got := layer.NumParticles(); got != e.ParticleCount() {
			t.Fatalf("NumParticles() = %v at tick %d, want %v", got, i, e.ParticleCount())
		}
	}
}

func TestPoolConservation(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:         Range{Min: 0.2, Max: 0.2},
		Frequency:        0.05,
		ParticlesPerWave: 2,
		MaxParticles:     50,
	}
	e := NewEmitter(layer, cfg)

	// Once the population reaches steady state, expiring particles are
	// reused instead of allocated: active + pooled stops growing.
	allocated := 0
	for i := 0; i < 40; i++ {
		e.Update(0.05)
		sum := e.ParticleCount() + e.pooledCount()
		if sum < allocated {
			t.Fatalf("active+pooled = %v at tick %d, shrank from %v", sum, i, allocated)
		}
		allocated = sum
	}

	e.SetEmit(false)
	for i := 0; i < 10; i++ {
		e.Update(0.05)
	}
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() after drain = %v, want 0", got)
	}
	if got := e.pooledCount(); got != allocated {
		t.Errorf("pooledCount() after drain = %v, want %v", got, allocated)
	}

	e.EmitNow()
	if sum := e.ParticleCount() + e.pooledCount(); sum != allocated {
		t.Errorf("active+pooled after reuse = %v, want %v", sum, allocated)
	}
}

func TestParticleExpiresAfterLifetime(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.Lifetime = Range{Min: 1, Max: 1}
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	e.Update(0.999)
	if got := e.ParticleCount(); got != 1 {
		t.Fatalf("ParticleCount() at age 0.999 = %v, want 1", got)
	}
	e.Update(0.002)
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() at age 1.001 = %v, want 0", got)
	}
	if got := layer.NumParticles(); got != 0 {
		t.Errorf("NumParticles() = %v, want 0", got)
	}
	if got := e.pooledCount(); got != 1 {
		t.Errorf("pooledCount() = %v, want 1", got)
	}
}

func TestFiniteEmitterLifetime(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:        Range{Min: 10, Max: 10},
		Frequency:       0.1,
		EmitterLifetime: 0.5,
	}
	e := NewEmitter(layer, cfg)

	e.Update(0.3)
	e.Update(0.3)
	if e.Emit() {
		t.Error("Emit() = true after emitter lifetime elapsed, want false")
	}
	if got := e.ParticleCount(); got != 4 {
		t.Errorf("ParticleCount() = %v, want 4", got)
	}

	// Restarting emission resets the remaining duration.
	e.SetEmit(true)
	e.Update(0.3)
	if got := e.ParticleCount(); got <= 4 {
		t.Errorf("ParticleCount() after restart = %v, want > 4", got)
	}
}

func TestSpawnCatchUp(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:       Range{Min: 1, Max: 1},
		Frequency:      1,
		MaxParticles:   1,
		ExtraBehaviors: []Behavior{NewSpeedStaticBehavior(Range{Min: 100, Max: 100})},
	}
	e := NewEmitter(layer, cfg)

	// The wave is nominally due at t=0; updating by 0.5 must leave the
	// particle in the state it would have after living that half second.
	e.Update(0.5)
	p := e.activeFirst
	if p == nil {
		t.Fatal("no particle spawned")
	}
	if math.Abs(p.X-50) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("particle at (%v, %v), want (50, 0)", p.X, p.Y)
	}
	if math.Abs(p.Age()-0.5) > 1e-9 {
		t.Errorf("Age() = %v, want 0.5", p.Age())
	}
}

func TestBackdatedSpawnSkippedWhenAlreadyExpired(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:  Range{Min: 0.2, Max: 0.2},
		Frequency: 10,
	}
	e := NewEmitter(layer, cfg)

	// The first wave is due at t=0 but would be 0.5s old by the end of
	// this tick, past its 0.2s lifetime. It must not appear at all.
	e.Update(0.5)
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() = %v, want 0", got)
	}
}

func TestSpawnPositionInterpolation(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:  Range{Min: 10, Max: 10},
		Frequency: 0.025,
	}
	e := NewEmitter(layer, cfg)

	e.UpdateOwnerPos(0, 0)
	e.Update(0.05)
	e.UpdateOwnerPos(10, 0)
	e.Update(0.05)

	// Waves due mid-tick spawn along the owner's motion: one halfway at
	// x=5, one at the final position x=10.
	var at5, at10 int
	for p := e.activeFirst; p != nil; p = p.Next() {
		switch {
		case math.Abs(p.X-5) < 1e-9:
			at5++
		case math.Abs(p.X-10) < 1e-9:
			at10++
		case math.Abs(p.X) > 1e-9:
			t.Errorf("particle at unexpected x = %v", p.X)
		}
	}
	if at5 != 1 {
		t.Errorf("particles at x=5: %v, want 1", at5)
	}
	if at10 != 1 {
		t.Errorf("particles at x=10: %v, want 1", at10)
	}
}

func TestResetPositionTracking(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:  Range{Min: 10, Max: 10},
		Frequency: 0.05,
	}
	e := NewEmitter(layer, cfg)

	e.UpdateOwnerPos(0, 0)
	e.Update(0.05)
	before := e.ParticleCount()

	// Teleport: without tracking reset, new spawns would smear between the
	// old and new positions.
	e.UpdateOwnerPos(1000, 0)
	e.ResetPositionTracking()
	e.Update(0.05)
	for i, p := 0, e.activeFirst; p != nil; i, p = i+1, p.Next() {
		if i < before {
			continue
		}
		if math.Abs(p.X-1000) > 1e-9 {
			t.Errorf("post-teleport particle at x = %v, want 1000", p.X)
		}
	}
}

func TestEmitterRotationAppliedToSpawns(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.ExtraBehaviors = []Behavior{
		NewShapeSpawnBehavior(RectShape{X: 3, Y: 0, W: 0, H: 0}),
	}
	e := NewEmitter(layer, cfg)
	e.Rotate(90)

	e.EmitNow()
	p := e.activeFirst
	if p == nil {
		t.Fatal("no particle spawned")
	}
	// The shape's local (3, 0) rotates onto the y axis.
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-3) > 1e-9 {
		t.Errorf("particle at (%v, %v), want (0, 3)", p.X, p.Y)
	}
	if math.Abs(p.Rotation-math.Pi/2) > 1e-9 {
		t.Errorf("Rotation = %v, want %v", p.Rotation, math.Pi/2)
	}
}

func TestSpawnChance(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.ParticlesPerWave = 10
	cfg.SpawnChance = floatPtr(0)
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() with zero spawn chance = %v, want 0", got)
	}

	cfg.SpawnChance = floatPtr(1)
	e.Init(cfg)
	e.EmitNow()
	if got := e.ParticleCount(); got != 10 {
		t.Errorf("ParticleCount() with full spawn chance = %v, want 10", got)
	}
}

func TestCustomEaseReshapesAgePercent(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.Lifetime = Range{Min: 1, Max: 1}
	cfg.Ease = EaseConfig{Name: "inQuad"}
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	e.Update(0.5)
	p := e.activeFirst
	if p == nil {
		t.Fatal("no particle spawned")
	}
	if math.Abs(p.AgePercent()-0.25) > 1e-6 {
		t.Errorf("AgePercent() = %v, want 0.25", p.AgePercent())
	}
}

func TestAddAtBack(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.AddAtBack = true
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	e.EmitNow()
	if layer.children[0] != e.activeLast {
		t.Error("newest particle not at draw index 0")
	}
	if layer.children[1] != e.activeFirst {
		t.Error("oldest particle not at draw index 1")
	}
}

func TestCleanup(t *testing.T) {
	layer := NewLayer()
	cfg := burstConfig()
	cfg.ParticlesPerWave = 5
	e := NewEmitter(layer, cfg)

	e.EmitNow()
	e.Cleanup()
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() = %v, want 0", got)
	}
	if got := layer.NumParticles(); got != 0 {
		t.Errorf("NumParticles() = %v, want 0", got)
	}
	if got := e.pooledCount(); got != 5 {
		t.Errorf("pooledCount() = %v, want 5", got)
	}
}

func TestPlayOnce(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:        Range{Min: 0.1, Max: 0.1},
		Frequency:       0.1,
		EmitterLifetime: 0.2,
		Emit:            boolPtr(false),
	}
	e := NewEmitter(layer, cfg)

	fired := 0
	e.PlayOnce(func() { fired++ })
	for i := 0; i < 20; i++ {
		e.Update(0.1)
	}
	if fired != 1 {
		t.Errorf("completion callback fired %v times, want 1", fired)
	}
	if e.Destroyed() {
		t.Error("Destroyed() = true, want false")
	}
}

func TestPlayOnceAndDestroy(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:        Range{Min: 0.1, Max: 0.1},
		Frequency:       0.1,
		EmitterLifetime: 0.2,
		Emit:            boolPtr(false),
	}
	e := NewEmitter(layer, cfg)

	fired := false
	e.PlayOnceAndDestroy(func() { fired = true })
	for i := 0; i < 20 && !e.Destroyed(); i++ {
		e.Update(0.1)
	}
	if !fired {
		t.Error("completion callback never fired")
	}
	if !e.Destroyed() {
		t.Error("Destroyed() = false, want true")
	}
	if got := layer.NumParticles(); got != 0 {
		t.Errorf("NumParticles() = %v, want 0", got)
	}
}

func TestDestroyedEmitterIsInert(t *testing.T) {
	layer := NewLayer()
	e := NewEmitter(layer, burstConfig())
	e.EmitNow()
	e.Destroy()

	if !e.Destroyed() {
		t.Fatal("Destroyed() = false, want true")
	}
	if got := layer.NumParticles(); got != 0 {
		t.Errorf("NumParticles() = %v, want 0", got)
	}
	if got := e.pooledCount(); got != 0 {
		t.Errorf("pooledCount() = %v, want 0", got)
	}

	// Update and EmitNow are no-ops; a second Destroy is harmless.
	e.Update(0.1)
	e.EmitNow()
	e.Destroy()
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() = %v, want 0", got)
	}
}

func TestInitOnDestroyedEmitterPanics(t *testing.T) {
	layer := NewLayer()
	e := NewEmitter(layer, burstConfig())
	e.Destroy()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for Init on destroyed emitter")
		}
	}()
	e.Init(burstConfig())
}

func TestSetParentMovesActiveParticles(t *testing.T) {
	l1 := NewLayer()
	l2 := NewLayer()
	cfg := burstConfig()
	cfg.ParticlesPerWave = 3
	e := NewEmitter(l1, cfg)

	e.EmitNow()
	e.SetParent(l2)
	if got := l1.NumParticles(); got != 0 {
		t.Errorf("old layer NumParticles() = %v, want 0", got)
	}
	if got := l2.NumParticles(); got != 3 {
		t.Errorf("new layer NumParticles() = %v, want 3", got)
	}

	e.EmitNow()
	if got := l2.NumParticles(); got != 6 {
		t.Errorf("new layer NumParticles() after spawn = %v, want 6", got)
	}
}

func TestConfigCoercions(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:         Range{Min: 0, Max: -2},
		Frequency:        -5,
		ParticlesPerWave: 0,
		MaxParticles:     0,
		EmitterLifetime:  0,
	}
	e := NewEmitter(layer, cfg)

	if got := e.Frequency(); got != 1 {
		t.Errorf("Frequency() = %v, want 1", got)
	}
	if e.lifetime.Min != 1 || e.lifetime.Max != 1 {
		t.Errorf("lifetime = %+v, want {1 1}", e.lifetime)
	}
	if e.particlesPerWave != 1 {
		t.Errorf("particlesPerWave = %v, want 1", e.particlesPerWave)
	}
	if e.maxParticles != 1000 {
		t.Errorf("maxParticles = %v, want 1000", e.maxParticles)
	}
	if e.emitterLifetime != -1 {
		t.Errorf("emitterLifetime = %v, want -1", e.emitterLifetime)
	}
	if !e.Emit() {
		t.Error("Emit() = false, want true by default")
	}
}

func TestUnknownBehaviorSkipped(t *testing.T) {
	data := []byte(`{
		"lifetime": {"min": 10, "max": 10},
		"frequency": 0.1,
		"emit": false,
		"behaviors": [
			{"type": "noSuchBehavior"},
			{"type": "alphaStatic", "config": {"alpha": {"min": 0.5, "max": 0.5}}}
		]
	}`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	e := NewEmitter(NewLayer(), cfg)

	e.EmitNow()
	p := e.activeFirst
	if p == nil {
		t.Fatal("no particle spawned")
	}
	if p.Alpha != 0.5 {
		t.Errorf("Alpha = %v, want 0.5 (known behavior after the skipped one)", p.Alpha)
	}
}

// orderRecorder logs its order band when the init pass reaches it.
type orderRecorder struct {
	order int
	log   *[]int
}

func (b orderRecorder) Order() int              { return b.order }
func (b orderRecorder) InitParticles(*Particle) { *b.log = append(*b.log, b.order) }

func TestPipelineInitOrder(t *testing.T) {
	var log []int
	cfg := burstConfig()
	cfg.ExtraBehaviors = []Behavior{
		orderRecorder{order: OrderLate, log: &log},
		orderRecorder{order: OrderSpawn, log: &log},
		orderRecorder{order: OrderNormal, log: &log},
	}
	e := NewEmitter(NewLayer(), cfg)

	e.EmitNow()
	want := []int{OrderSpawn, OrderNormal, OrderLate}
	if len(log) != len(want) {
		t.Fatalf("init order = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("init order = %v, want %v", log, want)
		}
	}
}

// hookBehavior counts pipeline callbacks and can kill particles from the
// update pass.
type hookBehavior struct {
	order    int
	killAge  float64
	inits    int
	updates  int
	recycles int
	naturals int
}

func (b *hookBehavior) Order() int { return b.order }

func (b *hookBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.Next() {
		b.inits++
	}
}

func (b *hookBehavior) UpdateParticle(p *Particle, dt float64) bool {
	b.updates++
	return b.killAge > 0 && p.Age() >= b.killAge
}

func (b *hookBehavior) RecycleParticle(p *Particle, natural bool) {
	b.recycles++
	if natural {
		b.naturals++
	}
}

func TestRecycleHookNaturalExpiry(t *testing.T) {
	hook := &hookBehavior{order: OrderNormal}
	cfg := burstConfig()
	cfg.Lifetime = Range{Min: 0.1, Max: 0.1}
	cfg.ExtraBehaviors = []Behavior{hook}
	e := NewEmitter(NewLayer(), cfg)

	e.EmitNow()
	e.Update(0.2)
	if hook.inits != 1 {
		t.Errorf("inits = %v, want 1", hook.inits)
	}
	if hook.recycles != 1 {
		t.Errorf("recycles = %v, want 1", hook.recycles)
	}
	if hook.naturals != 1 {
		t.Errorf("naturals = %v, want 1", hook.naturals)
	}
}

func TestRecycleHookCleanup(t *testing.T) {
	hook := &hookBehavior{order: OrderNormal}
	cfg := burstConfig()
	cfg.ExtraBehaviors = []Behavior{hook}
	e := NewEmitter(NewLayer(), cfg)

	e.EmitNow()
	e.Cleanup()
	if hook.recycles != 1 {
		t.Errorf("recycles = %v, want 1", hook.recycles)
	}
	if hook.naturals != 0 {
		t.Errorf("naturals = %v, want 0 for Cleanup", hook.naturals)
	}
}

func TestUpdateKillShortCircuitsPipeline(t *testing.T) {
	killer := &hookBehavior{order: OrderNormal, killAge: 0.1}
	late := &hookBehavior{order: OrderLate}
	cfg := burstConfig()
	cfg.ExtraBehaviors = []Behavior{killer, late}
	e := NewEmitter(NewLayer(), cfg)

	e.EmitNow()
	e.Update(0.05)
	if late.updates != 1 {
		t.Fatalf("late updates = %v, want 1", late.updates)
	}
	e.Update(0.1)
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() = %v, want 0 after update kill", got)
	}
	if late.updates != 1 {
		t.Errorf("late updates = %v, want 1 (skipped after the kill)", late.updates)
	}
	if killer.naturals != 1 {
		t.Errorf("killer naturals = %v, want 1", killer.naturals)
	}
}

func TestUpdateIgnoresZeroAndNegativeDt(t *testing.T) {
	layer := NewLayer()
	cfg := EmitterConfig{
		Lifetime:  Range{Min: 10, Max: 10},
		Frequency: 0.1,
	}
	e := NewEmitter(layer, cfg)

	e.Update(0)
	if got := e.ParticleCount(); got != 0 {
		t.Errorf("ParticleCount() after zero dt = %v, want 0", got)
	}
}
