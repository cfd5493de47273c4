package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// WorldAdapter provides a common interface over a bare world and a
// tick-driven app. This allows running the same test suite on both.
type WorldAdapter interface {
	Start(ctx context.Context) error
	Stop() error
	Spawn() (ecs.Entity, error)
	Insert(e ecs.Entity, values ...any) error
	Remove(e ecs.Entity, types ...ecs.ComponentType) error
	Has(e ecs.Entity, ct ecs.ComponentType) bool
	WaitForStability(timeout time.Duration) error
}

// ImmediateAdapter applies every change to the world directly.
type ImmediateAdapter struct {
	w *ecs.World
}

// NewImmediateAdapter wraps w.
func NewImmediateAdapter(w *ecs.World) *ImmediateAdapter {
	return &ImmediateAdapter{w: w}
}

func (a *ImmediateAdapter) Start(ctx context.Context) error { return nil }

func (a *ImmediateAdapter) Stop() error { return nil }

func (a *ImmediateAdapter) Spawn() (ecs.Entity, error) {
	return a.w.SpawnEmpty(), nil
}

func (a *ImmediateAdapter) Insert(e ecs.Entity, values ...any) error {
	return a.w.Insert(e, values...)
}

func (a *ImmediateAdapter) Remove(e ecs.Entity, types ...ecs.ComponentType) error {
	return a.w.Remove(e, resolve(a.w, types)...)
}

func (a *ImmediateAdapter) Has(e ecs.Entity, ct ecs.ComponentType) bool {
	return has(a.w, e, ct)
}

func (a *ImmediateAdapter) WaitForStability(timeout time.Duration) error {
	// Changes are applied and flushed immediately.
	return nil
}

// TickBasedAdapter queues changes on an app and lets its tick loop apply them.
type TickBasedAdapter struct {
	app *app.App
}

// NewTickBasedAdapter wraps a.
func NewTickBasedAdapter(a *app.App) *TickBasedAdapter {
	return &TickBasedAdapter{app: a}
}

func (a *TickBasedAdapter) Start(ctx context.Context) error {
	return a.app.Start(ctx)
}

func (a *TickBasedAdapter) Stop() error {
	a.app.Stop()
	return nil
}

func (a *TickBasedAdapter) Spawn() (ecs.Entity, error) {
	var e ecs.Entity
	err := a.app.Do(func(w *ecs.World) error {
		e = w.SpawnEmpty()
		return nil
	})
	return e, err
}

func (a *TickBasedAdapter) Insert(e ecs.Entity, values ...any) error {
	return a.app.Enqueue(func(c *ecs.Commands) {
		c.Entity(e).Insert(values...)
	})
}

func (a *TickBasedAdapter) Remove(e ecs.Entity, types ...ecs.ComponentType) error {
	return a.app.Enqueue(func(c *ecs.Commands) {
		c.Entity(e).RemoveTypes(types...)
	})
}

func (a *TickBasedAdapter) Has(e ecs.Entity, ct ecs.ComponentType) bool {
	var ok bool
	_ = a.app.Do(func(w *ecs.World) error {
		ok = has(w, e, ct)
		return nil
	})
	return ok
}

// WaitForStability waits until a full tick has run after the call.
func (a *TickBasedAdapter) WaitForStability(timeout time.Duration) error {
	target := a.app.TickNumber() + 2
	deadline := time.Now().Add(timeout)
	for a.app.TickNumber() < target {
		if time.Now().After(deadline) {
			return fmt.Errorf("no tick completed within %v", timeout)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func resolve(w *ecs.World, types []ecs.ComponentType) []ecs.ComponentID {
	ids := make([]ecs.ComponentID, 0, len(types))
	for _, ct := range types {
		if id, ok := w.IDOf(ct); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func has(w *ecs.World, e ecs.Entity, ct ecs.ComponentType) bool {
	id, ok := w.IDOf(ct)
	return ok && w.Has(e, id)
}
