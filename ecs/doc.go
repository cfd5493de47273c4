// Package ecs is a small entity/component store built around three
// mechanisms: component hooks, a deferred command queue and required
// components.
//
// # Hooks
//
// Every component identity may carry one ComponentHooks pair. OnAdd fires
// when a component is newly added to an entity (replacing the value of a
// component already present fires nothing); OnRemove fires before the
// component data is dropped, so the hook can still read it. A second
// SetHooks on the same identity fails with ErrHooksBusy.
//
// Hooks receive a *DeferredWorld. They may read components and queue
// commands but never change an entity's component set directly.
//
// # Deferred commands
//
// Commands queued through World.Commands or DeferredWorld.Commands are
// applied in order by World.Flush. Commands queued by the hooks of a
// command are applied right after that command, ahead of anything queued
// before them, so a later command never has its effect undone by an
// earlier command's follow-up. Immediate mutations (Spawn, Insert, Remove,
// Despawn) apply their change, fire hooks, and then flush.
//
// # Required components
//
// World.Require(a, b) makes every insert of a also insert a zero-valued b
// when the entity lacks it. All data of one insert (explicit values and the
// required closure) is stored before any OnAdd hook fires. Hooks then fire
// for explicit components first, ordered so that a component fires before
// the explicit components it requires, followed by required components in
// closure order.
//
// Example:
//
//	w := ecs.NewWorld()
//	pos := ecs.Register[Position](w)
//	vel := ecs.Register[Velocity](w)
//	_ = w.Require(vel, pos)
//	e, _ := w.Spawn(Velocity{X: 1})
//	_ = ecs.Contains[Position](w, e) // true
package ecs
