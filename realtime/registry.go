package realtime

import (
	"log"
	"sort"
	"sync"
)

// Registry is the single source of truth for which users currently have
// an addressable connection. One entry per user id; a new connection for
// the same user silently supersedes the previous one, and the old socket
// is left to expire on its own.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client

	onChange func()
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// OnChange installs the callback fired after every successful register
// or unregister. Called outside the registry lock.
func (r *Registry) OnChange(fn func()) {
	r.onChange = fn
}

// Register maps userID to c, overwriting any prior mapping. Overwrite
// semantics are intentional: a reconnect racing the old connection's
// teardown must win.
func (r *Registry) Register(userID string, c *Client) {
	r.mu.Lock()
	r.clients[userID] = c
	r.mu.Unlock()

	log.Printf("presence: user %s connected (client %s)", userID, c.id)
	r.notify()
}

// Unregister removes the mapping only if c is still the stored
// connection, compared on connection id. A disconnect event for a
// superseded connection is stale and must not clobber the newer mapping.
func (r *Registry) Unregister(userID string, c *Client) {
	r.mu.Lock()
	current, ok := r.clients[userID]
	if ok && current.id == c.id {
		delete(r.clients, userID)
	} else {
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	log.Printf("presence: user %s disconnected (client %s)", userID, c.id)
	r.notify()
}

// Lookup returns the active connection for userID, if any.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[userID]
	return c, ok
}

// Snapshot returns the ids of all currently present users, sorted for
// stable payloads.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// each invokes fn for every connected client. The per-client work must
// not block; trySend qualifies.
func (r *Registry) each(fn func(*Client)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		fn(c)
	}
}

func (r *Registry) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}
