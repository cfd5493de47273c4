package ecs

import (
	"fmt"
	"reflect"
)

// HookContext identifies the entity and component a hook fires for.
type HookContext struct {
	Entity    Entity
	Component ComponentID
}

// HookFunc reacts to a component being added to or removed from an entity.
// Hooks must not mutate the world structurally; they read through the
// DeferredWorld and schedule changes on its Commands.
type HookFunc func(w *DeferredWorld, ctx HookContext)

// ComponentHooks is the single hook pair a component identity may carry.
type ComponentHooks struct {
	OnAdd    HookFunc
	OnRemove HookFunc
}

func (h ComponentHooks) empty() bool {
	return h.OnAdd == nil && h.OnRemove == nil
}

// DeferredWorld is the view of a World handed to hooks: component reads
// and the deferred command queue, nothing that changes entity layout.
type DeferredWorld struct {
	w *World
}

// Commands returns the world's deferred command queue.
func (d *DeferredWorld) Commands() *Commands { return d.w.queue }

// Components returns the identity registry.
func (d *DeferredWorld) Components() *Components { return d.w.components }

// Resources returns the world-scoped resource store.
func (d *DeferredWorld) Resources() *Resources { return d.w.resources }

// Has reports whether e currently carries component id.
func (d *DeferredWorld) Has(e Entity, id ComponentID) bool { return d.w.Has(e, id) }

func (d *DeferredWorld) component(e Entity, id ComponentID) (any, bool) {
	return d.w.component(e, id)
}

func (d *DeferredWorld) lookup(t reflect.Type) (ComponentID, bool) {
	return d.w.components.lookupType(t)
}

// SetHooks installs the hook pair for id. A component carries at most one
// pair; if one is already installed the call fails with ErrHooksBusy and
// the existing pair is left untouched.
func (w *World) SetHooks(id ComponentID, hooks ComponentHooks) error {
	info, ok := w.components.Info(id)
	if !ok {
		return fmt.Errorf("component %d: %w", id, ErrUnknownComponent)
	}
	if !info.hooks.empty() {
		return fmt.Errorf("component %s: %w", info.Name(), ErrHooksBusy)
	}
	info.hooks = hooks
	return nil
}

// HooksBusy reports whether id already has a hook pair installed.
func (w *World) HooksBusy(id ComponentID) bool {
	info, ok := w.components.Info(id)
	return ok && !info.hooks.empty()
}
