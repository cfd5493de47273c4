package testutil

import (
	"github.com/comalice/superstate"
	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// Movement is a category whose states are Walking, Running and Flying.
type Movement struct{}

type Walking struct{ Speed uint32 }
type Running struct{ Speed uint32 }
type Flying struct{ Speed uint32 }

// Stance is a second category, independent of Movement.
type Stance struct{}

type Standing struct{}
type Crouching struct{}

// MovementStates returns the state types of Movement.
func MovementStates() []ecs.ComponentType {
	return []ecs.ComponentType{
		ecs.TypeOf[Walking](),
		ecs.TypeOf[Running](),
		ecs.TypeOf[Flying](),
	}
}

// StanceStates returns the state types of Stance.
func StanceStates() []ecs.ComponentType {
	return []ecs.ComponentType{
		ecs.TypeOf[Standing](),
		ecs.TypeOf[Crouching](),
	}
}

// RegisterMovement registers the Movement category on w.
func RegisterMovement(w *ecs.World) error {
	return superstate.RegisterHooks[Movement](w, MovementStates()...)
}

// RegisterStance registers the Stance category on w.
func RegisterStance(w *ecs.World) error {
	return superstate.RegisterHooks[Stance](w, StanceStates()...)
}

// MovementPlugin registers Movement on an App.
func MovementPlugin() app.Plugin { return superstate.Plugin[Movement](MovementStates()...) }

// StancePlugin registers Stance on an App.
func StancePlugin() app.Plugin { return superstate.Plugin[Stance](StanceStates()...) }
