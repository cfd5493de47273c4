package testutil

import (
	"fmt"
	"testing"

	"github.com/comalice/superstate"
	"github.com/comalice/superstate/ecs"
)

// CheckInvariants verifies every registered category on every entity of w:
// at most one state is attached, and the category is attached exactly when
// a state is.
func CheckInvariants(w *ecs.World) error {
	for _, c := range superstate.Categories(w) {
		for _, e := range w.Entities() {
			var attached []string
			for i, id := range c.States {
				if w.Has(e, id) {
					attached = append(attached, c.StateNames[i])
				}
			}
			if len(attached) > 1 {
				return fmt.Errorf("%v: %d states of %s attached: %v", e, len(attached), c.Name, attached)
			}
			if hasCat := w.Has(e, c.ID); hasCat != (len(attached) == 1) {
				return fmt.Errorf("%v: category %s present=%v with states %v", e, c.Name, hasCat, attached)
			}
		}
	}
	return nil
}

// AssertInvariants fails t if CheckInvariants reports a violation.
func AssertInvariants(t testing.TB, w *ecs.World) {
	t.Helper()
	if err := CheckInvariants(w); err != nil {
		t.Fatal(err)
	}
}

// AssertOnly fails t unless e carries want and no other state of want's
// category. A zero ComponentType asserts that e carries no state at all.
func AssertOnly(t testing.TB, w *ecs.World, e ecs.Entity, states []ecs.ComponentType, want ecs.ComponentType) {
	t.Helper()
	for _, st := range states {
		got := has(w, e, st)
		expected := want.Type() != nil && st.Type() == want.Type()
		if got != expected {
			t.Errorf("%v: has %s = %v, want %v", e, st.Name(), got, expected)
		}
	}
}
