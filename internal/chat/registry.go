package chat

import (
	"sync"
)

// Registry is the source of truth for which connections are authenticated
// and who they belong to. A user id may own several live connections at
// once (multi-device), so a secondary index from user id to connection ids
// is maintained on every mutation.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]Identity
	byUser map[int64]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]Identity),
		byUser: make(map[int64]map[string]struct{}),
	}
}

// Authenticate records the identity for a connection. Re-authenticating an
// already-known connection overwrites the previous identity and moves the
// connection under the new user id in the index.
func (r *Registry) Authenticate(connID string, identity Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[connID]; ok {
		r.removeFromIndex(prev.UserID, connID)
	}

	r.byConn[connID] = identity
	if r.byUser[identity.UserID] == nil {
		r.byUser[identity.UserID] = make(map[string]struct{})
	}
	r.byUser[identity.UserID][connID] = struct{}{}
}

// Lookup returns the identity behind a connection, if it has authenticated.
func (r *Registry) Lookup(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byConn[connID]
	return identity, ok
}

// FindByUserID returns the connection ids of every live session owned by
// the given user id. Empty when the user is offline.
func (r *Registry) FindByUserID(userID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]string, 0, len(r.byUser[userID]))
	for connID := range r.byUser[userID] {
		conns = append(conns, connID)
	}
	return conns
}

// Remove deletes a connection's identity and returns it for the departure
// notification. Removing an unknown connection is a no-op.
func (r *Registry) Remove(connID string) (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[connID]
	if !ok {
		return Identity{}, false
	}

	delete(r.byConn, connID)
	r.removeFromIndex(identity.UserID, connID)
	return identity, true
}

// Count returns the number of authenticated connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byConn)
}

// Identities returns a copy of every authenticated identity, for the users
// query surface.
func (r *Registry) Identities() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]Identity, 0, len(r.byConn))
	for _, identity := range r.byConn {
		identities = append(identities, identity)
	}
	return identities
}

// removeFromIndex must be called with the write lock held.
func (r *Registry) removeFromIndex(userID int64, connID string) {
	conns, ok := r.byUser[userID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.byUser, userID)
	}
}
