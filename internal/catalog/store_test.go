package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/nexuscore/vaultd/internal/db"
	"github.com/nexuscore/vaultd/internal/kv"
)

func setupStore(t *testing.T, builtins []Item) (*Store, *kv.Store, *SessionRegistry) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	kvs := kv.NewStore(database)
	registry := NewSessionRegistry()
	return NewStore(kvs, registry, builtins), kvs, registry
}

func TestAddAndFind(t *testing.T) {
	store, _, registry := setupStore(t, nil)
	ctx := context.Background()

	item := Item{ID: "nexus-1", Name: "Tool", Category: "Desenvolvimento"}
	binary := &Binary{Filename: "tool.bin", Data: []byte("x")}

	if err := store.Add(ctx, item, binary); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok := store.FindByID("nexus-1")
	if !ok {
		t.Fatal("FindByID did not find the added item")
	}
	if got.Name != "Tool" {
		t.Errorf("Name = %q, want Tool", got.Name)
	}
	if _, ok := registry.Get("nexus-1"); !ok {
		t.Error("binary missing from the session registry")
	}

	if _, ok := store.FindByID(""); ok {
		t.Error("FindByID matched the empty id")
	}
	if _, ok := store.FindByID("missing"); ok {
		t.Error("FindByID matched an unknown id")
	}
}

func TestAddDuplicateID(t *testing.T) {
	builtins := []Item{{ID: "builtin-1", Name: "Base"}}
	store, _, _ := setupStore(t, builtins)
	ctx := context.Background()

	if err := store.Add(ctx, Item{ID: "nexus-1", Name: "A"}, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Collides with a user item.
	err := store.Add(ctx, Item{ID: "nexus-1", Name: "B"}, nil)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate user id: err = %v, want ErrDuplicateID", err)
	}

	// Collides with a builtin.
	err = store.Add(ctx, Item{ID: "builtin-1", Name: "C"}, nil)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate builtin id: err = %v, want ErrDuplicateID", err)
	}

	if store.UserCount() != 1 {
		t.Errorf("UserCount = %d, want 1", store.UserCount())
	}
}

func TestMergeOrder(t *testing.T) {
	builtins := []Item{{ID: "builtin-1", Name: "Base"}}
	store, _, _ := setupStore(t, builtins)
	ctx := context.Background()

	store.Add(ctx, Item{ID: "nexus-1", Name: "First"}, nil)
	store.Add(ctx, Item{ID: "nexus-2", Name: "Second"}, nil)

	all := store.All()
	if len(all) != 3 {
		t.Fatalf("All returned %d items, want 3", len(all))
	}
	// User items most-recent-first, builtins last.
	want := []string{"nexus-2", "nexus-1", "builtin-1"}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("All[%d].ID = %q, want %q", i, all[i].ID, id)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	store, kvs, registry := setupStore(t, nil)
	ctx := context.Background()

	item := Item{ID: "nexus-1", Name: "Persisted", AccessPassword: "key"}
	if err := store.Add(ctx, item, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A fresh store over the same kv sees the persisted blob.
	fresh := NewStore(kvs, registry, nil)
	fresh.Load(ctx)

	got, ok := fresh.FindByID("nexus-1")
	if !ok {
		t.Fatal("persisted item not found after reload")
	}
	if got.AccessPassword != "key" {
		t.Errorf("AccessPassword = %q, want key", got.AccessPassword)
	}

	// The schema version tag was written alongside.
	ver, ok, err := kvs.Get(ctx, "vault_schema_version")
	if err != nil || !ok {
		t.Fatalf("schema version missing: ok=%v err=%v", ok, err)
	}
	if ver != "1" {
		t.Errorf("schema version = %q, want 1", ver)
	}
}

func TestLoadUnknownSchemaVersion(t *testing.T) {
	store, kvs, _ := setupStore(t, []Item{{ID: "builtin-1", Name: "Base"}})
	ctx := context.Background()

	if err := kvs.Set(ctx, kv.SchemaVersionKey, "99"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kvs.Set(ctx, UserFilesKey, `[{"id":"nexus-1","name":"Future"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A blob written under an unknown layout is refused, not misread.
	store.Load(ctx)
	if store.UserCount() != 0 {
		t.Errorf("UserCount = %d, want 0 for an unknown schema version", store.UserCount())
	}
	if len(store.All()) != 1 {
		t.Errorf("builtins lost after refused load")
	}
}

func TestLoadWithoutVersionTag(t *testing.T) {
	store, kvs, _ := setupStore(t, nil)
	ctx := context.Background()

	// Pre-tag databases carry the blob but no version key.
	if err := kvs.Set(ctx, UserFilesKey, `[{"id":"nexus-1","name":"Legacy"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	store.Load(ctx)
	if _, ok := store.FindByID("nexus-1"); !ok {
		t.Error("untagged blob not loaded as the current layout")
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	store, kvs, _ := setupStore(t, []Item{{ID: "builtin-1", Name: "Base"}})
	ctx := context.Background()

	if err := kvs.Set(ctx, UserFilesKey, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A corrupt blob starts empty instead of failing.
	store.Load(ctx)
	if store.UserCount() != 0 {
		t.Errorf("UserCount = %d, want 0 after corrupt load", store.UserCount())
	}
	if len(store.All()) != 1 {
		t.Errorf("builtins lost after corrupt load")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	store, _, _ := setupStore(t, []Item{{ID: "builtin-1", Name: "Base"}})

	all := store.All()
	all[0].Name = "Mutated"

	again := store.All()
	if again[0].Name != "Base" {
		t.Error("mutating All result leaked into the store")
	}
}
