package ecs

import "reflect"

// Filter selects entities in a Query.
type Filter func(w *World, e Entity) bool

// With matches entities carrying every id.
func With(ids ...ComponentID) Filter {
	return func(w *World, e Entity) bool {
		for _, id := range ids {
			if !w.Has(e, id) {
				return false
			}
		}
		return true
	}
}

// Without matches entities carrying none of the ids.
func Without(ids ...ComponentID) Filter {
	return func(w *World, e Entity) bool {
		for _, id := range ids {
			if w.Has(e, id) {
				return false
			}
		}
		return true
	}
}

// AnyOf matches entities carrying at least one of the ids.
func AnyOf(ids ...ComponentID) Filter {
	return func(w *World, e Entity) bool {
		for _, id := range ids {
			if w.Has(e, id) {
				return true
			}
		}
		return false
	}
}

// Query returns the live entities matching all filters, in ascending order.
func (w *World) Query(filters ...Filter) []Entity {
	var out []Entity
	for _, e := range w.Entities() {
		match := true
		for _, f := range filters {
			if !f(w, e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// Reader is implemented by World and DeferredWorld.
type Reader interface {
	component(e Entity, id ComponentID) (any, bool)
	lookup(t reflect.Type) (ComponentID, bool)
}

// Get returns e's T component. The pointer aliases the stored value.
func Get[T any](r Reader, e Entity) (*T, bool) {
	id, ok := r.lookup(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	v, ok := r.component(e, id)
	if !ok {
		return nil, false
	}
	p, ok := v.(*T)
	return p, ok
}

// Contains reports whether e carries a T component.
func Contains[T any](r Reader, e Entity) bool {
	_, ok := Get[T](r, e)
	return ok
}
