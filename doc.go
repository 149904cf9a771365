// Package ember is a keyframe-driven particle effect engine for [Ebitengine].
//
// Ember simulates large populations of short-lived sprite particles on the
// CPU. Each emitter owns a pooled set of particles and drives them through a
// composable pipeline of behaviors: movement, rotation, color, alpha, scale,
// texture animation, spawn shapes, and blend modes. Property curves are
// described as keyframe lists with optional easing, so effects can be
// authored as data (JSON or YAML) and tuned without recompiling.
//
// # Quick start
//
// Create a [Layer], build an emitter from a config, and advance it each
// frame:
//
//	layer := ember.NewLayer()
//	cfg, err := ember.LoadConfig(jsonData)
//	if err != nil {
//		log.Fatal(err)
//	}
//	emitter := ember.NewEmitter(layer, cfg)
//
//	// in your game's Update:
//	emitter.Update(1.0 / float64(ebiten.TPS()))
//
//	// in your game's Draw:
//	layer.Draw(screen)
//
// Emitters can also be assembled entirely in code by constructing behaviors
// directly; see [NewEmitter] and the behavior constructors such as
// [NewAlphaBehavior] and [NewSpeedBehavior].
//
// # Behaviors
//
// A behavior is one unit of particle simulation. Behaviors declare an
// execution order ([OrderSpawn], [OrderNormal], [OrderLate]) and run against
// every particle of a spawned wave and, optionally, against every active
// particle each tick. Custom behavior types are added through a [Registry].
//
// # Driving emitters
//
// Emitters are single-threaded and frame-driven: call [Emitter.Update] once
// per frame, or register emitters with a shared [Clock] and enable
// auto-update. ECS integration for [Donburi] lives in the ember/ecs
// sub-module.
//
// Easing uses [gween]'s easing functions, adapted to a normalized
// one-argument form via [TweenEase].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package ember
