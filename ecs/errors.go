package ecs

import "errors"

var (
	ErrNoSuchEntity     = errors.New("no such entity")
	ErrUnknownComponent = errors.New("unknown component")
	ErrHooksBusy        = errors.New("component hooks already registered")
	ErrWorldNotEmpty    = errors.New("world is not empty")

	// ErrInvariant marks panics raised by hooks that find the world in a
	// state they require never to happen. Runtimes must not recover them.
	ErrInvariant = errors.New("ecs: invariant violated")
)
