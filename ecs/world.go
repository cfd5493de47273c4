package ecs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"sort"
	"time"
)

// Entity is a unique identifier that components are attached to.
type Entity uint64

func (e Entity) String() string { return fmt.Sprintf("e%d", uint64(e)) }

// Option configures a World.
type Option func(*World)

// WithID names the world. The id keys persisted snapshots.
func WithID(id string) Option {
	return func(w *World) {
		w.id = id
	}
}

// WithLogger sets the logger used for dropped deferred commands and
// publisher failures.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		w.logger = l
	}
}

// WithPublisher adds publishers notified of every component change.
func WithPublisher(p ...Publisher) Option {
	return func(w *World) {
		w.publishers = append(w.publishers, p...)
	}
}

// World owns entities, their components, the component registry and the
// deferred command queue. A World is single-writer: callers serialize
// access (app.App does this for its world).
type World struct {
	id         string
	components *Components
	entities   map[Entity]map[ComponentID]any
	next       Entity
	queue      *Commands
	flushing   bool
	resources  *Resources
	logger     *log.Logger
	publishers []Publisher
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		id:         "world",
		components: newComponents(),
		entities:   make(map[Entity]map[ComponentID]any),
		next:       1,
		resources:  newResources(),
		logger:     log.Default(),
	}
	w.queue = &Commands{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns the world's name.
func (w *World) ID() string { return w.id }

// Components returns the identity registry.
func (w *World) Components() *Components { return w.components }

// Resources returns the world-scoped resource store.
func (w *World) Resources() *Resources { return w.resources }

// Commands returns the deferred command queue. Queued commands apply on the
// next Flush or immediate mutation.
func (w *World) Commands() *Commands { return w.queue }

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.entities) }

func (w *World) deferred() *DeferredWorld { return &DeferredWorld{w: w} }

// RegisterComponent returns the id of ct, registering it on first use.
func (w *World) RegisterComponent(ct ComponentType) ComponentID {
	return w.components.register(ct)
}

// IDOf looks up the id of an already registered type.
func (w *World) IDOf(ct ComponentType) (ComponentID, bool) {
	return w.components.lookupType(ct.typ)
}

// Register registers T and returns its id.
func Register[T any](w *World) ComponentID {
	return w.RegisterComponent(TypeOf[T]())
}

// ID returns the id of T if it has been registered.
func ID[T any](w *World) (ComponentID, bool) {
	return w.components.lookupType(reflect.TypeFor[T]())
}

// Require declares that adding dependent also adds prerequisite (zero
// valued) when the entity lacks it. Declaring the same pair twice is a no-op.
func (w *World) Require(dependent, prerequisite ComponentID) error {
	info, ok := w.components.Info(dependent)
	if !ok {
		return fmt.Errorf("require: dependent %d: %w", dependent, ErrUnknownComponent)
	}
	if _, ok := w.components.Info(prerequisite); !ok {
		return fmt.Errorf("require: prerequisite %d: %w", prerequisite, ErrUnknownComponent)
	}
	if dependent == prerequisite {
		return fmt.Errorf("require: %s cannot require itself", info.Name())
	}
	for _, id := range info.required {
		if id == prerequisite {
			return nil
		}
	}
	info.required = append(info.required, prerequisite)
	return nil
}

// SpawnEmpty creates an entity with no components.
func (w *World) SpawnEmpty() Entity {
	e := w.next
	w.next++
	w.entities[e] = make(map[ComponentID]any)
	return e
}

// Spawn creates an entity carrying values, then flushes pending commands.
func (w *World) Spawn(values ...any) (Entity, error) {
	e := w.SpawnEmpty()
	if len(values) == 0 {
		return e, nil
	}
	if err := w.applyInsert(e, values); err != nil {
		delete(w.entities, e)
		return 0, err
	}
	w.Flush()
	return e, nil
}

// Insert adds or replaces components on e. Newly added components pull in
// their required components and fire OnAdd hooks; replacing a value that is
// already present fires nothing. Pending commands are flushed afterwards.
func (w *World) Insert(e Entity, values ...any) error {
	if err := w.applyInsert(e, values); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// Remove detaches components from e and flushes. Absent ids are ignored.
func (w *World) Remove(e Entity, ids ...ComponentID) error {
	if err := w.applyRemove(e, ids); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// RemoveType detaches T from e.
func RemoveType[T any](w *World, e Entity) error {
	id, ok := ID[T](w)
	if !ok {
		if !w.Exists(e) {
			return fmt.Errorf("remove from %v: %w", e, ErrNoSuchEntity)
		}
		return nil
	}
	return w.Remove(e, id)
}

// Despawn fires OnRemove for every component of e, deletes it and flushes.
func (w *World) Despawn(e Entity) error {
	if err := w.applyDespawn(e); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// Exists reports whether e is alive.
func (w *World) Exists(e Entity) bool {
	_, ok := w.entities[e]
	return ok
}

// Has reports whether e carries id.
func (w *World) Has(e Entity, id ComponentID) bool {
	_, ok := w.component(e, id)
	return ok
}

// ComponentsOf returns the ids attached to e in ascending order.
func (w *World) ComponentsOf(e Entity) []ComponentID {
	return sortedIDs(w.entities[e])
}

// Entities returns all live entities in ascending order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.entities))
	for e := range w.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Flush applies queued commands until the queue is empty. Commands run in
// the order they were queued, except that commands queued by the hooks of a
// command run right after it, before the rest of the queue. Commands aimed
// at entities that no longer exist are dropped.
func (w *World) Flush() {
	if w.flushing {
		return
	}
	w.flushing = true
	pending := w.queue.take()
	defer func() {
		w.flushing = false
		// A panicking command leaves what it had not reached queued.
		w.queue.pending = append(w.queue.pending, pending...)
	}()

	for len(pending) > 0 {
		cmd := pending[0]
		pending = pending[1:]
		if err := cmd.apply(w); err != nil && !errors.Is(err, ErrNoSuchEntity) {
			w.logger.Printf("ecs: world %s: deferred command dropped: %v", w.id, err)
		}
		if queued := w.queue.take(); len(queued) > 0 {
			pending = append(queued, pending...)
		}
	}
}

func (w *World) component(e Entity, id ComponentID) (any, bool) {
	comps, ok := w.entities[e]
	if !ok {
		return nil, false
	}
	v, ok := comps[id]
	return v, ok
}

func (w *World) lookup(t reflect.Type) (ComponentID, bool) {
	return w.components.lookupType(t)
}

type boxedValue struct {
	id ComponentID
	v  any
}

func (w *World) applyInsert(e Entity, values []any) error {
	comps, ok := w.entities[e]
	if !ok {
		return fmt.Errorf("insert into %v: %w", e, ErrNoSuchEntity)
	}
	explicit := make([]boxedValue, 0, len(values))
	for _, v := range values {
		ct, err := valueType(v)
		if err != nil {
			return fmt.Errorf("insert into %v: %w", e, err)
		}
		id := w.components.register(ct)
		info, _ := w.components.Info(id)
		explicit = append(explicit, boxedValue{id: id, v: info.typ.box(v)})
	}

	var added []ComponentID
	visited := make(map[ComponentID]bool, len(explicit))
	for _, b := range explicit {
		if _, had := comps[b.id]; !had && !visited[b.id] {
			added = append(added, b.id)
		}
		visited[b.id] = true
		comps[b.id] = b.v
	}
	added = w.dependentsFirst(added)

	for _, b := range explicit {
		w.components.requiredClosure(b.id, visited, func(req ComponentID) {
			if _, had := comps[req]; had {
				return
			}
			info, _ := w.components.Info(req)
			comps[req] = info.typ.zero()
			added = append(added, req)
		})
	}

	dw := w.deferred()
	for _, id := range added {
		info, _ := w.components.Info(id)
		w.publish(e, info, Added)
		if hook := info.hooks.OnAdd; hook != nil {
			hook(dw, HookContext{Entity: e, Component: id})
		}
	}
	return nil
}

// dependentsFirst orders explicitly inserted ids so that a component comes
// before every other inserted component it transitively requires. Relative
// order is otherwise preserved.
func (w *World) dependentsFirst(ids []ComponentID) []ComponentID {
	if len(ids) < 2 {
		return ids
	}
	remaining := append([]ComponentID(nil), ids...)
	out := make([]ComponentID, 0, len(ids))
	for len(remaining) > 0 {
		pick := 0
		for i, cand := range remaining {
			required := false
			for j, other := range remaining {
				if i != j && w.components.requires(other, cand) {
					required = true
					break
				}
			}
			if !required {
				pick = i
				break
			}
		}
		out = append(out, remaining[pick])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return out
}

func (w *World) applyRemove(e Entity, ids []ComponentID) error {
	comps, ok := w.entities[e]
	if !ok {
		return fmt.Errorf("remove from %v: %w", e, ErrNoSuchEntity)
	}
	present := make([]ComponentID, 0, len(ids))
	seen := make(map[ComponentID]bool, len(ids))
	for _, id := range ids {
		if _, has := comps[id]; has && !seen[id] {
			present = append(present, id)
		}
		seen[id] = true
	}
	w.fireRemove(e, present)
	for _, id := range present {
		delete(comps, id)
		info, _ := w.components.Info(id)
		w.publish(e, info, Removed)
	}
	return nil
}

func (w *World) applyDespawn(e Entity) error {
	comps, ok := w.entities[e]
	if !ok {
		return fmt.Errorf("despawn %v: %w", e, ErrNoSuchEntity)
	}
	ids := sortedIDs(comps)
	w.fireRemove(e, ids)
	delete(w.entities, e)
	for _, id := range ids {
		info, _ := w.components.Info(id)
		w.publish(e, info, Removed)
	}
	return nil
}

// fireRemove runs OnRemove hooks while the component data is still readable.
func (w *World) fireRemove(e Entity, ids []ComponentID) {
	dw := w.deferred()
	for _, id := range ids {
		info, _ := w.components.Info(id)
		if hook := info.hooks.OnRemove; hook != nil {
			hook(dw, HookContext{Entity: e, Component: id})
		}
	}
}

func (w *World) publish(e Entity, info *ComponentInfo, kind ChangeKind) {
	if len(w.publishers) == 0 {
		return
	}
	change := Change{
		World:     w.id,
		Entity:    e,
		Component: info.ID(),
		Name:      info.Name(),
		Kind:      kind,
		Timestamp: time.Now(),
	}
	for _, p := range w.publishers {
		if err := p.Publish(context.Background(), change); err != nil {
			w.logger.Printf("ecs: world %s: publish %s %s on %v: %v", w.id, kind, info.Name(), e, err)
		}
	}
}

func sortedIDs(comps map[ComponentID]any) []ComponentID {
	ids := make([]ComponentID, 0, len(comps))
	for id := range comps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
