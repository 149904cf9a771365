// Package ecs provides ECS adapters for ember particle emitters.
//
// [EmitterComponent] attaches an [ember.Emitter] to a [Donburi] entity, and
// [UpdateEmitters] is the system that drives every attached emitter each
// frame. When an emitter destroys itself (PlayOnceAndDestroy), its entity is
// removed from the world and an [EmitterDoneEvent] is published to
// [EmitterDoneEventType].
//
// Usage:
//
//	entity := ecs.NewEmitterEntity(world, emitter)
//	// each frame:
//	ecs.UpdateEmitters(world, dt)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
