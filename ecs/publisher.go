package ecs

import (
	"context"
	"time"
)

// ChangeKind distinguishes component additions from removals.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes one component being added to or removed from an entity.
type Change struct {
	World     string      `json:"world" yaml:"world"`
	Entity    Entity      `json:"entity" yaml:"entity"`
	Component ComponentID `json:"component" yaml:"component"`
	Name      string      `json:"name" yaml:"name"`
	Kind      ChangeKind  `json:"kind" yaml:"kind"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp"`
}

// Publisher is notified synchronously of every applied change. Publish must
// not block and must not touch the world.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, change Change) error

func (f PublisherFunc) Publish(ctx context.Context, change Change) error {
	return f(ctx, change)
}
