// Package ecs connects morphic hands to a [Donburi] world.
//
// [NewDonburiSink] publishes every interaction event a hand emits for a node
// with a non-zero EntityID as a typed Donburi event. Systems subscribe to
// [InteractionEventType] and drain it with ProcessEvents. [Bind] creates the
// entity for a node and stores the node on it so systems can reach back into
// the scene.
//
// Usage:
//
//	world.SetEventSink(ecs.NewDonburiSink(ecsWorld))
//	ecs.Bind(ecsWorld, button)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
