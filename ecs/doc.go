// Package ecs provides ECS adapters for tactile's interaction notifications.
//
// The primary adapter is [NewDonburiStore], which bridges tactile node events
// (touch begin/end, hit begin/end, deletion, fades) into a [Donburi] world as
// typed events. Subscribe to [InteractionEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	ctx.SetEntityStore(store)
//
// Events raised during a tick are published once the tick finishes, in the
// order they fired.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
