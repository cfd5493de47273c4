package superstate

import (
	"slices"
	"sync"

	"github.com/comalice/superstate/ecs"
)

const registryKey = "superstate.registry"

// Category describes one registered category and its states.
type Category struct {
	ID         ecs.ComponentID   `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	States     []ecs.ComponentID `json:"states" yaml:"states"`
	StateNames []string          `json:"stateNames" yaml:"stateNames"`
}

// Registry records the categories registered on a world. It is stored as a
// world resource and only written during registration.
type Registry struct {
	mu         sync.RWMutex
	categories []Category
	byState    map[ecs.ComponentID]ecs.ComponentID
}

func registryOf(w *ecs.World) *Registry {
	return ecs.GetOrInit(w.Resources(), registryKey, func() *Registry {
		return &Registry{byState: make(map[ecs.ComponentID]ecs.ComponentID)}
	})
}

func (r *Registry) add(c Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, c)
	for _, id := range c.States {
		r.byState[id] = c.ID
	}
}

func (r *Registry) lookup(id ecs.ComponentID) (Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.categories {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return Category{}, false
}

func (c Category) clone() Category {
	c.States = slices.Clone(c.States)
	c.StateNames = slices.Clone(c.StateNames)
	return c
}

// Categories returns the categories registered on w in registration order.
func Categories(w *ecs.World) []Category {
	r := registryOf(w)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = c.clone()
	}
	return out
}

// Lookup returns the registered category with the given component id.
func Lookup(w *ecs.World, category ecs.ComponentID) (Category, bool) {
	return registryOf(w).lookup(category)
}

// CategoryOf returns the category a state component belongs to.
func CategoryOf(w *ecs.World, state ecs.ComponentID) (Category, bool) {
	r := registryOf(w)
	r.mu.RLock()
	id, ok := r.byState[state]
	r.mu.RUnlock()
	if !ok {
		return Category{}, false
	}
	return r.lookup(id)
}

// Current returns the state of category S that e is in.
func Current[S any](r ecs.Reader, e ecs.Entity) (ecs.ComponentID, bool) {
	info, ok := ecs.Get[Info[S]](r, e)
	if !ok {
		return 0, false
	}
	return info.Current()
}
