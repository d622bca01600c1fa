package chat

import (
	"sync"
)

// Directory owns the subscription relation between connections and the
// fixed channel set. The channel list is immutable after construction.
type Directory struct {
	mu       sync.RWMutex
	channels []string
	members  map[string]map[string]struct{}
}

func NewDirectory(channels ...string) *Directory {
	members := make(map[string]map[string]struct{}, len(channels))
	for _, name := range channels {
		members[name] = make(map[string]struct{})
	}
	return &Directory{
		channels: append([]string(nil), channels...),
		members:  members,
	}
}

// Has reports whether a channel name belongs to the fixed set. The outer
// map is never written after construction, so no lock is taken.
func (d *Directory) Has(channel string) bool {
	_, ok := d.members[channel]
	return ok
}

// Channels returns the fixed channel list in declaration order.
func (d *Directory) Channels() []string {
	return append([]string(nil), d.channels...)
}

// Subscribe adds a membership edge. It reports false for a channel outside
// the fixed set, in which case nothing changes.
func (d *Directory) Subscribe(connID, channel string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	conns, ok := d.members[channel]
	if !ok {
		return false
	}
	conns[connID] = struct{}{}
	return true
}

// Unsubscribe removes a membership edge; a no-op if absent.
func (d *Directory) Unsubscribe(connID, channel string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if conns, ok := d.members[channel]; ok {
		delete(conns, connID)
	}
}

// UnsubscribeAll removes a connection from every channel. Called on
// disconnect.
func (d *Directory) UnsubscribeAll(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, conns := range d.members {
		delete(conns, connID)
	}
}

// Subscribers returns a copy of the connection ids subscribed to a channel.
// Unknown channels yield an empty slice.
func (d *Directory) Subscribers(channel string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	conns := make([]string, 0, len(d.members[channel]))
	for connID := range d.members[channel] {
		conns = append(conns, connID)
	}
	return conns
}

// IsSubscribed reports whether a connection holds a membership edge to the
// given channel.
func (d *Directory) IsSubscribed(connID, channel string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.members[channel][connID]
	return ok
}
