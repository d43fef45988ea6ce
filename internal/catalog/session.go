package catalog

import "sync"

// Binary is an uploaded payload held for the lifetime of the process.
// Binaries are never persisted; after a restart only the synthetic
// placeholder is downloadable.
type Binary struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SessionRegistry maps item identifiers to their uploaded binaries. It is
// an explicit instance owned by the server, not package state, so tests
// can substitute their own.
type SessionRegistry struct {
	mu sync.RWMutex
	m  map[string]Binary
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{m: make(map[string]Binary)}
}

// Put stores the binary for id, replacing any previous one.
func (r *SessionRegistry) Put(id string, b Binary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[id] = b
}

// Get returns the binary for id, if one was uploaded this session.
func (r *SessionRegistry) Get(id string) (Binary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.m[id]
	return b, ok
}

// Len returns the number of live binaries.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
