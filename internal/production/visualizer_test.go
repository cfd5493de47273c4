// Tests for DefaultVisualizer DOT and JSON export.
package production

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/comalice/superstate/ecs"
	"github.com/comalice/superstate/testutil"
)

func visualWorld(t *testing.T) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld(ecs.WithID("visual"))
	if err := testutil.RegisterMovement(w); err != nil {
		t.Fatal(err)
	}
	if err := testutil.RegisterStance(w); err != nil {
		t.Fatal(err)
	}
	e, err := w.Spawn(testutil.Running{}, testutil.Crouching{})
	if err != nil {
		t.Fatal(err)
	}
	return w, e
}

func TestDefaultVisualizer_ExportDOT(t *testing.T) {
	v := &DefaultVisualizer{}
	w, e := visualWorld(t)
	dot := v.ExportDOT(w)

	if !strings.Contains(dot, `digraph Superstate {`) {
		t.Error("Missing DOT header")
	}
	if !strings.Contains(dot, `label="testutil.Movement"`) || !strings.Contains(dot, `label="testutil.Stance"`) {
		t.Error("Missing category clusters")
	}
	running := ecs.TypeOf[testutil.Running]().Name()
	if !strings.Contains(dot, `"`+running+`" [label="testutil.Running" style=filled fillcolor=lightgreen]`) {
		t.Errorf("Missing active state highlight:\n%s", dot)
	}
	walking := ecs.TypeOf[testutil.Walking]().Name()
	if strings.Contains(dot, `"`+walking+`" [label="testutil.Walking" style=filled`) {
		t.Error("Inactive state highlighted")
	}
	if !strings.Contains(dot, `"`+e.String()+`" -> "`+running+`"`) {
		t.Error("Missing entity edge")
	}
}

func TestDefaultVisualizer_ExportJSON(t *testing.T) {
	v := &DefaultVisualizer{}
	w, e := visualWorld(t)
	data, err := v.ExportJSON(w)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var view WorldView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatal(err)
	}
	if view.WorldID != "visual" || len(view.Categories) != 2 {
		t.Errorf("unexpected view %+v", view)
	}
	if len(view.Entities) != 2 {
		t.Fatalf("expected one state per category, got %+v", view.Entities)
	}
	for _, s := range view.Entities {
		if s.Entity != e {
			t.Errorf("unexpected entity %v", s.Entity)
		}
	}
}
