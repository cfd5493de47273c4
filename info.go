package superstate

import (
	"slices"

	"github.com/comalice/superstate/ecs"
)

// Info is the per-entity bookkeeping record for category S. It is required
// by S, so attaching any state of S creates it.
//
// The record is never deleted automatically, even when the entity has no
// state of S left. It is safe to remove it once the entity no longer carries
// S; do so if the entity will not accept states of S again.
type Info[S any] struct {
	// registered is the declared state set, filled on the first state attach.
	registered []ecs.ComponentID
	// active holds the states currently on the entity. It holds more than one
	// id only between a multi-state attach and the next flush.
	active []ecs.ComponentID
}

// States returns the registered state ids, or nil before the first attach.
func (i *Info[S]) States() []ecs.ComponentID {
	return slices.Clone(i.registered)
}

// Active returns the ids of the states currently tracked on the entity.
func (i *Info[S]) Active() []ecs.ComponentID {
	return slices.Clone(i.active)
}

// Current returns the single active state. It reports false when no state
// is active or while several attaches are still being settled.
func (i *Info[S]) Current() (ecs.ComponentID, bool) {
	if len(i.active) != 1 {
		return 0, false
	}
	return i.active[0], true
}

func (i *Info[S]) track(id ecs.ComponentID) {
	if !slices.Contains(i.active, id) {
		i.active = append(i.active, id)
	}
}

// removeByID drops id from the active set. Order is not preserved.
func (i *Info[S]) removeByID(id ecs.ComponentID) {
	idx := slices.Index(i.active, id)
	if idx < 0 {
		return
	}
	last := len(i.active) - 1
	i.active[idx] = i.active[last]
	i.active = i.active[:last]
}
