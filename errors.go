package superstate

import (
	"errors"
	"fmt"

	"github.com/comalice/superstate/ecs"
)

var (
	// ErrNoStates is returned when a category is registered without states.
	ErrNoStates = errors.New("superstate: category has no states")
	// ErrCategoryIsState is returned when a category lists itself as a state.
	ErrCategoryIsState = errors.New("superstate: category cannot be one of its own states")
	// ErrMissingInfo is the panic value (wrapped) raised by a hook that finds
	// no Info record on its entity. The panic also wraps ecs.ErrInvariant, so
	// app ticks let it through.
	ErrMissingInfo = errors.New("superstate: entity has no Info record")
)

// HookBusyError reports that a state or category component already carries
// a hook pair, so the superstate hooks could not be installed on it. This
// happens when the same component is used by another extension that relies
// on hooks. A component can only have one hook pair.
type HookBusyError struct {
	ID   ecs.ComponentID
	Name string
}

func (e *HookBusyError) Error() string {
	return fmt.Sprintf("superstate: hook on component %s (%d) is busy", e.Name, e.ID)
}

// Unwrap lets errors.Is match ecs.ErrHooksBusy.
func (e *HookBusyError) Unwrap() error {
	return ecs.ErrHooksBusy
}
