package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comalice/superstate"
	"github.com/comalice/superstate/ecs"
)

// DefaultVisualizer renders the categories registered on a world and the
// state each entity is in.
type DefaultVisualizer struct{}

// EntityState is one entity's state within a category.
type EntityState struct {
	Entity   ecs.Entity `json:"entity"`
	Category string     `json:"category"`
	State    string     `json:"state"`
}

// WorldView is the JSON form produced by ExportJSON.
type WorldView struct {
	WorldID    string                `json:"worldID"`
	Categories []superstate.Category `json:"categories"`
	Entities   []EntityState         `json:"entities"`
}

// ExportDOT generates Graphviz DOT source: one cluster per category with
// its states, and an edge from every entity to the state it is in.
func (v *DefaultVisualizer) ExportDOT(w *ecs.World) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Superstate {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	cats := superstate.Categories(w)
	states := entityStates(w, cats)
	active := make(map[string]bool, len(states))
	for _, s := range states {
		active[s.State] = true
	}

	for i, c := range cats {
		buf.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i))
		buf.WriteString(fmt.Sprintf("    label=%q;\n", shortName(c.Name)))
		for _, name := range c.StateNames {
			style := ""
			if active[name] {
				style = ` style=filled fillcolor=lightgreen`
			}
			buf.WriteString(fmt.Sprintf("    %q [label=%q%s];\n", name, shortName(name), style))
		}
		buf.WriteString("  }\n")
	}

	seen := make(map[ecs.Entity]bool)
	for _, s := range states {
		if !seen[s.Entity] {
			seen[s.Entity] = true
			buf.WriteString(fmt.Sprintf("  %q [shape=ellipse];\n", s.Entity.String()))
		}
		buf.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", s.Entity.String(), s.State, shortName(s.Category)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the registered categories and entity states.
func (v *DefaultVisualizer) ExportJSON(w *ecs.World) ([]byte, error) {
	cats := superstate.Categories(w)
	view := WorldView{
		WorldID:    w.ID(),
		Categories: cats,
		Entities:   entityStates(w, cats),
	}
	return json.MarshalIndent(view, "", "  ")
}

func entityStates(w *ecs.World, cats []superstate.Category) []EntityState {
	var out []EntityState
	for _, e := range w.Entities() {
		for _, c := range cats {
			for i, id := range c.States {
				if w.Has(e, id) {
					out = append(out, EntityState{Entity: e, Category: c.Name, State: c.StateNames[i]})
				}
			}
		}
	}
	return out
}

// shortName trims the import path from a component name.
func shortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
