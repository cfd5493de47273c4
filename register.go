package superstate

import (
	"fmt"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// Plugin returns an app plugin that calls RegisterHooks for category S and
// the given states.
//
// If several states of S are attached to an entity in one batch, only the
// last one attached remains.
func Plugin[S any](states ...ecs.ComponentType) app.Plugin {
	return func(a *app.App) error {
		return a.Do(func(w *ecs.World) error {
			return RegisterHooks[S](w, states...)
		})
	}
}

// RegisterHooks installs the superstate hooks on w for category S and the
// given state components. Use it when working with an ecs.World directly.
//
// It registers S, Info[S] and every state, installs the state hooks on each
// state and the category hooks on S, then declares that every state
// requires S and S requires Info[S]. Duplicate states are ignored.
//
// Validation errors (ErrNoStates, ErrCategoryIsState, a zero state type)
// are returned before anything is registered. Every component carries at
// most one hook pair. If any of them is taken the call returns a
// *HookBusyError and installs no hooks, requirements or registry entry,
// though S, Info[S] and the states stay registered as components.
//
// If several states of S are attached to an entity in one batch, only the
// last one attached remains.
func RegisterHooks[S any](w *ecs.World, states ...ecs.ComponentType) error {
	categoryType := ecs.TypeOf[S]()
	if len(states) == 0 {
		return fmt.Errorf("register %s: %w", categoryType.Name(), ErrNoStates)
	}

	infoType := ecs.TypeOf[Info[S]]().Transient()
	for _, st := range states {
		switch st.Type() {
		case nil:
			return fmt.Errorf("register %s: state: %w", categoryType.Name(), ecs.ErrUnknownComponent)
		case categoryType.Type(), infoType.Type():
			return fmt.Errorf("register %s: %w", categoryType.Name(), ErrCategoryIsState)
		}
	}

	category := w.RegisterComponent(categoryType)
	info := w.RegisterComponent(infoType)

	ids := make([]ecs.ComponentID, 0, len(states))
	names := make([]string, 0, len(states))
	seen := make(map[ecs.ComponentID]bool, len(states))
	for _, st := range states {
		id := w.RegisterComponent(st)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		names = append(names, st.Name())
	}

	for _, id := range append(ids, category) {
		if w.HooksBusy(id) {
			return &HookBusyError{ID: id, Name: w.Components().Name(id)}
		}
	}

	hooks := hookSet[S]{category: category, states: ids}
	for _, id := range ids {
		if err := w.SetHooks(id, hooks.stateHooks()); err != nil {
			return &HookBusyError{ID: id, Name: w.Components().Name(id)}
		}
	}
	if err := w.SetHooks(category, hooks.categoryHooks()); err != nil {
		return &HookBusyError{ID: category, Name: categoryType.Name()}
	}

	for _, id := range ids {
		if err := w.Require(id, category); err != nil {
			return fmt.Errorf("register %s: %w", categoryType.Name(), err)
		}
	}
	if err := w.Require(category, info); err != nil {
		return fmt.Errorf("register %s: %w", categoryType.Name(), err)
	}

	registryOf(w).add(Category{
		ID:         category,
		Name:       categoryType.Name(),
		States:     ids,
		StateNames: names,
	})
	return nil
}
