package ecs

import "fmt"

type commandKind int

const (
	cmdInsert commandKind = iota
	cmdRemove
	cmdRemoveTypes
	cmdDespawn
)

type command struct {
	kind   commandKind
	entity Entity
	values []any
	ids    []ComponentID
	types  []ComponentType
}

func (c command) apply(w *World) error {
	switch c.kind {
	case cmdInsert:
		return w.applyInsert(c.entity, c.values)
	case cmdRemove:
		return w.applyRemove(c.entity, c.ids)
	case cmdRemoveTypes:
		ids := make([]ComponentID, 0, len(c.types))
		for _, ct := range c.types {
			if id, ok := w.IDOf(ct); ok {
				ids = append(ids, id)
			}
		}
		return w.applyRemove(c.entity, ids)
	case cmdDespawn:
		return w.applyDespawn(c.entity)
	default:
		return fmt.Errorf("unknown command kind %d", c.kind)
	}
}

// Commands is the deferred structural mutation queue. Nothing queued here
// touches the world until World.Flush (or an immediate mutation) drains it.
type Commands struct {
	pending []command
}

// Entity returns a builder queueing commands against e.
func (c *Commands) Entity(e Entity) *EntityCommands {
	return &EntityCommands{c: c, e: e}
}

// Len returns the number of queued commands.
func (c *Commands) Len() int { return len(c.pending) }

func (c *Commands) push(cmd command) {
	c.pending = append(c.pending, cmd)
}

// take detaches the current queue.
func (c *Commands) take() []command {
	batch := c.pending
	c.pending = nil
	return batch
}

// EntityCommands queues commands for a single entity.
type EntityCommands struct {
	c *Commands
	e Entity
}

// ID returns the target entity.
func (ec *EntityCommands) ID() Entity { return ec.e }

// Insert queues adding or replacing values.
func (ec *EntityCommands) Insert(values ...any) *EntityCommands {
	ec.c.push(command{kind: cmdInsert, entity: ec.e, values: values})
	return ec
}

// Remove queues detaching ids. Ids missing at apply time are ignored.
func (ec *EntityCommands) Remove(ids ...ComponentID) *EntityCommands {
	ec.c.push(command{kind: cmdRemove, entity: ec.e, ids: append([]ComponentID(nil), ids...)})
	return ec
}

// RemoveTypes queues detaching components by type; ids are resolved at
// apply time so unregistered types are simply skipped.
func (ec *EntityCommands) RemoveTypes(types ...ComponentType) *EntityCommands {
	ec.c.push(command{kind: cmdRemoveTypes, entity: ec.e, types: append([]ComponentType(nil), types...)})
	return ec
}

// Despawn queues deleting the entity.
func (ec *EntityCommands) Despawn() {
	ec.c.push(command{kind: cmdDespawn, entity: ec.e})
}
