package production

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

func TestSQLitePersister_RoundTrip(t *testing.T) {
	p, err := NewSQLitePersister(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("NewSQLitePersister failed: %v", err)
	}
	defer func() { _ = p.Close() }()
	roundTrip(t, p)
}

func TestSQLitePersister_Upsert(t *testing.T) {
	p, err := NewSQLitePersister(":memory:")
	if err != nil {
		t.Fatalf("NewSQLitePersister failed: %v", err)
	}
	defer func() { _ = p.Close() }()
	ctx := context.Background()

	first := ecs.Snapshot{WorldID: "b", Entities: []ecs.EntitySnapshot{{ID: 1, Components: map[string]any{}}}}
	second := ecs.Snapshot{WorldID: "b", Entities: []ecs.EntitySnapshot{{ID: 2, Components: map[string]any{}}}}
	for _, s := range []ecs.Snapshot{first, second, {WorldID: "a"}} {
		if err := p.Save(ctx, s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := p.Load(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entities) != 1 || got.Entities[0].ID != 2 {
		t.Errorf("expected latest snapshot, got %+v", got.Entities)
	}

	ids, err := p.Worlds(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("worlds %v", ids)
	}
}

func TestSQLitePersister_LoadMissing(t *testing.T) {
	p, err := NewSQLitePersister(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = p.Close() }()
	if _, err := p.Load(context.Background(), "missing"); !errors.Is(err, app.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}
