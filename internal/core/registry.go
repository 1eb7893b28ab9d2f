package core

import "sync"

// Binding is the room/user state of a registered connection. A zero RoomID
// means the connection has not joined a room yet.
type Binding struct {
	RoomID   string
	RoomName string
	Username string
}

// Bound reports whether the connection has joined a room.
func (b Binding) Bound() bool {
	return b.RoomID != ""
}

// Registry tracks all live connections and their bindings. It is the only
// piece of shared mutable state in the core; every operation holds the lock
// and none of them block, so handlers snapshot membership here and deliver
// events after the lock is released.
type Registry struct {
	mu      sync.Mutex
	clients map[*Client]Binding
	count   int
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[*Client]Binding),
	}
}

// Register adds an unbound connection and increments the counter.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c]; exists {
		return
	}
	r.clients[c] = Binding{}
	r.count++
}

// Deregister removes a connection and decrements the counter. It is
// idempotent: removing an unknown connection is a no-op, which protects
// against duplicate close events. The prior binding is returned so the
// caller can notify the room the connection belonged to.
func (r *Registry) Deregister(c *Client) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, exists := r.clients[c]
	if !exists {
		return Binding{}, false
	}
	delete(r.clients, c)
	r.count--
	return binding, true
}

// Bind sets the connection's room and user fields, overwriting any prior
// binding. Last join wins: switching rooms does not notify the old room.
// Returns false if the connection is not registered (it raced a disconnect).
func (r *Registry) Bind(c *Client, roomID, roomName, username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c]; !exists {
		return false
	}
	r.clients[c] = Binding{RoomID: roomID, RoomName: roomName, Username: username}
	return true
}

// BindingOf returns the connection's current binding.
func (r *Registry) BindingOf(c *Client) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, exists := r.clients[c]
	return binding, exists
}

// MembersOf returns a snapshot of the connections currently bound to roomID.
// The snapshot reflects registry state at call time and is meant to be used
// immediately for one fan-out pass.
func (r *Registry) MembersOf(roomID string) []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	var members []*Client
	for c, binding := range r.clients {
		if binding.RoomID == roomID {
			members = append(members, c)
		}
	}
	return members
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}
