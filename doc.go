// Package superstate keeps groups of mutually exclusive state components in
// sync with a category ("superstate") marker component.
//
// A category S and its states are plain component types. After
// registration the following holds for every entity once pending commands
// have been flushed:
//
//   - at most one state of S is attached;
//   - S is attached exactly when one of its states is.
//
// Attaching a state replaces the previous one and pulls in S. Detaching the
// last state detaches S. Detaching S detaches every state of S. Attaching S
// on its own is undone.
//
// The bookkeeping lives in an Info[S] component that S requires. It is
// excluded from world snapshots and rebuilt when a snapshot is restored.
//
// Example:
//
//	type Movement struct{}
//	type Walking struct{ Speed int }
//	type Running struct{ Speed int }
//
//	w := ecs.NewWorld()
//	_ = superstate.RegisterHooks[Movement](w,
//		ecs.TypeOf[Walking](), ecs.TypeOf[Running]())
//	e, _ := w.Spawn(Walking{Speed: 1})
//	_ = w.Insert(e, Running{Speed: 5}) // Walking is removed
//
// Register each category separately; an entity may be in one state of each.
package superstate
