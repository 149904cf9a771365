package ecs

import (
	"github.com/phanxgames/ember"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EmitterData is the component payload: one emitter per entity.
type EmitterData struct {
	Emitter *ember.Emitter
}

// EmitterComponent is the Donburi component type holding an emitter.
var EmitterComponent = donburi.NewComponentType[EmitterData]()

// EmitterDoneEvent is published when an emitter entity is removed from the
// world because its emitter was destroyed.
type EmitterDoneEvent struct {
	Entity donburi.Entity
}

// EmitterDoneEventType is the Donburi event type for emitter completion.
// Subscribe to this in your ECS systems to react to finished effects.
var EmitterDoneEventType = events.NewEventType[EmitterDoneEvent]()

// NewEmitterEntity creates an entity carrying the emitter. The emitter is
// driven by UpdateEmitters; its own auto-update flag is ignored here.
func NewEmitterEntity(world donburi.World, e *ember.Emitter) donburi.Entity {
	entity := world.Create(EmitterComponent)
	entry := world.Entry(entity)
	EmitterComponent.SetValue(entry, EmitterData{Emitter: e})
	return entity
}

// UpdateEmitters advances every emitter entity by dt seconds. Entities whose
// emitter has been destroyed are removed and announced via
// EmitterDoneEventType; call events.ProcessAllEvents (or ProcessEvents on
// the type) afterwards to deliver them.
func UpdateEmitters(world donburi.World, dt float64) {
	var done []donburi.Entity
	EmitterComponent.Each(world, func(entry *donburi.Entry) {
		data := EmitterComponent.GetValue(entry)
		if data.Emitter == nil || data.Emitter.Destroyed() {
			done = append(done, entry.Entity())
			return
		}
		data.Emitter.Update(dt)
		if data.Emitter.Destroyed() {
			done = append(done, entry.Entity())
		}
	})
	for _, entity := range done {
		EmitterDoneEventType.Publish(world, EmitterDoneEvent{Entity: entity})
		world.Remove(entity)
	}
}
