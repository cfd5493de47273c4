package ecs

import (
	"fmt"
	"reflect"
)

// ComponentID identifies one registered component type within a World.
// IDs are assigned densely in registration order and are only meaningful
// inside the World that issued them.
type ComponentID uint32

// ComponentType describes a Go type that can be stored as a component.
type ComponentType struct {
	typ       reflect.Type
	name      string
	transient bool
}

// TypeOf returns the ComponentType for T. Components are stored by pointer,
// so T should be a non-pointer type (usually a struct).
func TypeOf[T any]() ComponentType {
	return typeFor(reflect.TypeFor[T]())
}

func typeFor(t reflect.Type) ComponentType {
	name := t.String()
	if t.PkgPath() != "" {
		name = t.PkgPath() + "." + t.Name()
	}
	return ComponentType{typ: t, name: name}
}

// Transient marks the type as excluded from world snapshots.
func (c ComponentType) Transient() ComponentType {
	c.transient = true
	return c
}

// Name returns the fully qualified type name used in snapshots.
func (c ComponentType) Name() string { return c.name }

// Type returns the underlying Go type.
func (c ComponentType) Type() reflect.Type { return c.typ }

// zero allocates a zero value and returns it as *T.
func (c ComponentType) zero() any {
	return reflect.New(c.typ).Interface()
}

// box stores v in a freshly allocated *T. A *T argument is kept as is.
func (c ComponentType) box(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.Type().Elem() == c.typ {
		return v
	}
	p := reflect.New(c.typ)
	p.Elem().Set(rv)
	return p.Interface()
}

// valueType returns the component type of a value passed to Insert.
func valueType(v any) (ComponentType, error) {
	if v == nil {
		return ComponentType{}, fmt.Errorf("nil component value: %w", ErrUnknownComponent)
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeFor(t), nil
}

// ComponentInfo is the registry entry for one component identity.
type ComponentInfo struct {
	id       ComponentID
	typ      ComponentType
	required []ComponentID
	hooks    ComponentHooks
}

func (i *ComponentInfo) ID() ComponentID       { return i.id }
func (i *ComponentInfo) Name() string          { return i.typ.name }
func (i *ComponentInfo) Type() ComponentType   { return i.typ }
func (i *ComponentInfo) IsTransient() bool     { return i.typ.transient }
func (i *ComponentInfo) Hooks() ComponentHooks { return i.hooks }

// Required returns the direct prerequisites of this component.
func (i *ComponentInfo) Required() []ComponentID {
	return append([]ComponentID(nil), i.required...)
}

// Components is the identity registry of a World.
type Components struct {
	infos  []*ComponentInfo
	byType map[reflect.Type]ComponentID
	byName map[string]ComponentID
}

func newComponents() *Components {
	return &Components{
		byType: make(map[reflect.Type]ComponentID),
		byName: make(map[string]ComponentID),
	}
}

// register returns the existing id for ct or assigns a new one.
// A later Transient registration upgrades an existing entry.
func (c *Components) register(ct ComponentType) ComponentID {
	if id, ok := c.byType[ct.typ]; ok {
		if ct.transient {
			c.infos[id].typ.transient = true
		}
		return id
	}
	id := ComponentID(len(c.infos))
	c.infos = append(c.infos, &ComponentInfo{id: id, typ: ct})
	c.byType[ct.typ] = id
	c.byName[ct.name] = id
	return id
}

// Info returns the registry entry for id.
func (c *Components) Info(id ComponentID) (*ComponentInfo, bool) {
	if int(id) >= len(c.infos) {
		return nil, false
	}
	return c.infos[id], true
}

// Lookup finds a component id by its snapshot name.
func (c *Components) Lookup(name string) (ComponentID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Name returns the registered name for id, or a placeholder for unknown ids.
func (c *Components) Name(id ComponentID) string {
	if info, ok := c.Info(id); ok {
		return info.Name()
	}
	return fmt.Sprintf("component#%d", id)
}

func (c *Components) lookupType(t reflect.Type) (ComponentID, bool) {
	id, ok := c.byType[t]
	return id, ok
}

// Len returns the number of registered components.
func (c *Components) Len() int { return len(c.infos) }

// requiredClosure visits every transitive prerequisite of id, parents before
// their own prerequisites. Cycles are cut by the visited set.
func (c *Components) requiredClosure(id ComponentID, visited map[ComponentID]bool, visit func(ComponentID)) {
	info, ok := c.Info(id)
	if !ok {
		return
	}
	for _, req := range info.required {
		if visited[req] {
			continue
		}
		visited[req] = true
		visit(req)
		c.requiredClosure(req, visited, visit)
	}
}

// requires reports whether a transitively requires b.
func (c *Components) requires(a, b ComponentID) bool {
	found := false
	c.requiredClosure(a, map[ComponentID]bool{a: true}, func(id ComponentID) {
		if id == b {
			found = true
		}
	})
	return found
}
