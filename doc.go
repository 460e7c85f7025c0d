/*
Package ecs provides an Entity-Component-System runtime core for games and
simulations.

It is a data-oriented container: components are stored in dense,
type-segregated pools; entities are lightweight identities that carry a
component mask plus intrusive parent/child relationships; systems run in
priority order over the entities a reactive tuple cache keeps materialized
for them.

Core Concepts:

  - Entity: an identity with a component mask and a place in a hierarchy.
  - Component: a value of a registered type, owned by at most one entity.
  - ComponentRef: a counted, relocation-safe reference to a component slot.
  - TupleCache: a materialized view of entities carrying a fixed set of
    component types, kept in sync as components attach and detach.
  - System: a priority-ordered behavior with init/update/destroy hooks.

Basic Usage:

	reg := ecs.NewRegistry()
	positionID := ecs.RegisterComponentType[Position](reg, "Position")
	velocityID := ecs.RegisterComponentType[Velocity](reg, "Velocity")
	reg.Init()

	e := reg.Entities.CreateEntity()
	e.SetEnabled(true)
	reg.Entities.ForceActivate(e.ID())

	pos := ecs.CreateComponent[Position](reg)
	pos.Value().X, pos.Value().Y = 1, 2
	e.AddComponent(pos.ComponentRef)

	tuples := reg.RegisterTuple(positionID, velocityID)
	for _, tup := range tuples.View() {
		_ = tup
	}

	reg.Systems.AddSystem(&MovementSystem{})
	reg.Tick()

ecs is meant to be embedded by an application that owns its own render,
input, and audio loop; this package never touches any of those.
*/
package ecs
