// Package ecs provides ECS adapters for tabletop's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges tabletop
// interaction events (press, drag, selection, spawn) into a [Donburi] world
// as typed events. Subscribe to [InteractionEventType] in your ECS systems to
// receive them, or query [Piece] components for the mirrored state.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	table.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
