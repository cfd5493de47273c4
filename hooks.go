package superstate

import (
	"fmt"
	"slices"

	"github.com/comalice/superstate/ecs"
)

// hookSet builds the four hooks for one category. The closures capture the
// category id and the declared state set.
type hookSet[S any] struct {
	category ecs.ComponentID
	states   []ecs.ComponentID
}

func (h hookSet[S]) info(w *ecs.DeferredWorld, ctx ecs.HookContext) *Info[S] {
	info, ok := ecs.Get[Info[S]](w, ctx.Entity)
	if !ok {
		panic(fmt.Errorf("%w: %s on %v (category %s): %w", ErrMissingInfo,
			w.Components().Name(ctx.Component), ctx.Entity, w.Components().Name(h.category), ecs.ErrInvariant))
	}
	return info
}

// stateHooks keeps at most one state of the category on the entity. When
// several states are attached at once only the last one attached remains.
func (h hookSet[S]) stateHooks() ecs.ComponentHooks {
	return ecs.ComponentHooks{
		OnAdd:    h.onAddState,
		OnRemove: h.onRemoveState,
	}
}

// categoryHooks ties the category marker to the presence of a state.
func (h hookSet[S]) categoryHooks() ecs.ComponentHooks {
	return ecs.ComponentHooks{
		OnAdd:    h.onAddCategory,
		OnRemove: h.onRemoveCategory,
	}
}

func (h hookSet[S]) onAddState(w *ecs.DeferredWorld, ctx ecs.HookContext) {
	info := h.info(w, ctx)
	if len(info.registered) == 0 {
		info.registered = slices.Clone(h.states)
	}
	info.track(ctx.Component)

	cmd := w.Commands().Entity(ctx.Entity)
	for _, id := range info.active {
		if id != ctx.Component {
			cmd.Remove(id)
		}
	}
}

func (h hookSet[S]) onRemoveState(w *ecs.DeferredWorld, ctx ecs.HookContext) {
	info := h.info(w, ctx)
	info.removeByID(ctx.Component)
	if len(info.active) == 0 {
		w.Commands().Entity(ctx.Entity).Remove(h.category)
	}
}

// onAddCategory undoes a category attached without any state.
func (h hookSet[S]) onAddCategory(w *ecs.DeferredWorld, ctx ecs.HookContext) {
	info := h.info(w, ctx)
	if len(info.active) == 0 {
		w.Commands().Entity(ctx.Entity).Remove(h.category)
	}
}

// onRemoveCategory removes every registered state, active or not.
func (h hookSet[S]) onRemoveCategory(w *ecs.DeferredWorld, ctx ecs.HookContext) {
	info := h.info(w, ctx)
	w.Commands().Entity(ctx.Entity).Remove(h.states...)
	info.active = info.active[:0]
}
