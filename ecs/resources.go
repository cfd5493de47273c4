package ecs

import (
	"sort"
	"sync"
)

// Resources provides thread-safe storage for world-scoped singletons such
// as registries that extensions attach to a World.
type Resources struct {
	mu   sync.RWMutex
	data map[string]any
}

func newResources() *Resources {
	return &Resources{
		data: make(map[string]any),
	}
}

// Get retrieves a value by key. Returns nil if the key does not exist.
func (r *Resources) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data[key]
}

// Set stores a value by key.
func (r *Resources) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
}

// Delete removes a key.
func (r *Resources) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
}

// Keys returns the stored keys in sorted order.
func (r *Resources) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.data))
	for k := range r.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetOrInit returns the value under key, storing init() first if absent.
func GetOrInit[T any](r *Resources, key string, init func() T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.data[key].(T); ok {
		return v
	}
	v := init()
	r.data[key] = v
	return v
}

// Resource returns the value under key if it holds a T.
func Resource[T any](r *Resources, key string) (T, bool) {
	v, ok := r.Get(key).(T)
	return v, ok
}
