package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/nexuscore/vaultd/internal/kv"
)

// UserFilesKey is the kv key holding the serialized user catalog.
const UserFilesKey = "vault_user_files"

// ErrDuplicateID is returned by Add when the identifier already exists in
// the merged collection.
var ErrDuplicateID = errors.New("catalog: duplicate item id")

// Store holds the baseline catalog and user-submitted items and merges
// them into one addressable collection. User items are persisted as a
// single JSON blob; built-in items are immutable for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	kv       *kv.Store
	registry *SessionRegistry
	builtins []Item
	user     []Item
	merged   []Item
}

// NewStore creates a Store over the given persistence provider and
// session registry. builtins may be nil.
func NewStore(kvs *kv.Store, registry *SessionRegistry, builtins []Item) *Store {
	s := &Store{
		kv:       kvs,
		registry: registry,
		builtins: builtins,
	}
	s.remerge()
	return s
}

// Load rehydrates the user-submitted list from persistence. A corrupt or
// absent blob yields an empty list, as does a blob written under an
// unknown schema version; Load never fails the process. An absent version
// tag is read as the current layout (pre-tag databases).
func (s *Store) Load(ctx context.Context) {
	version, tagged, err := s.kv.Get(ctx, kv.SchemaVersionKey)
	if err != nil {
		log.Printf("catalog: reading schema version: %v", err)
		return
	}
	if tagged && version != kv.SchemaVersion {
		log.Printf("catalog: unknown schema version %q (want %s), starting empty", version, kv.SchemaVersion)
		return
	}

	raw, ok, err := s.kv.Get(ctx, UserFilesKey)
	if err != nil {
		log.Printf("catalog: reading persisted items: %v", err)
		return
	}
	if !ok {
		return
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("catalog: corrupt persisted catalog, starting empty: %v", err)
		return
	}

	s.mu.Lock()
	s.user = items
	s.remerge()
	s.mu.Unlock()
}

// Add prepends a user item and rewrites the persisted list. If binary is
// non-nil it is stored in the session registry first. On a persistence
// failure the in-memory state is authoritative: the item stays served and
// the error is returned for the caller to report.
func (s *Store) Add(ctx context.Context, item Item, binary *Binary) error {
	s.mu.Lock()
	for _, existing := range s.merged {
		if existing.ID == item.ID {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
	}

	if binary != nil {
		s.registry.Put(item.ID, *binary)
	}

	s.user = append([]Item{item}, s.user...)
	s.remerge()
	blob, err := json.Marshal(s.user)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("serializing user catalog: %w", err)
	}
	if err := s.kv.Set(ctx, kv.SchemaVersionKey, kv.SchemaVersion); err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	if err := s.kv.Set(ctx, UserFilesKey, string(blob)); err != nil {
		return fmt.Errorf("persisting user catalog: %w", err)
	}
	return nil
}

// All returns the merged collection: user items most-recent-first,
// built-ins after. The slice is a copy; callers may not mutate the store
// through it.
func (s *Store) All() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.merged))
	copy(out, s.merged)
	return out
}

// FindByID looks up an item in the merged collection.
func (s *Store) FindByID(id string) (Item, bool) {
	if id == "" {
		return Item{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.merged {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// UserCount returns the number of user-submitted items.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.user)
}

// remerge recomputes the merged view. Callers must hold mu.
func (s *Store) remerge() {
	merged := make([]Item, 0, len(s.user)+len(s.builtins))
	merged = append(merged, s.user...)
	merged = append(merged, s.builtins...)
	s.merged = merged
}
