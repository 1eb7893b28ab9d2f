package core

import "sync"

// Client is a live connection as seen by the core layer. Room and user state
// is not stored here; the Registry owns it (see Binding).
type Client struct {
	ID     string
	Events chan *Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 32),
		done:   make(chan struct{}),
	}
}

// Done is closed when the client disconnects. Fan-out paths select on it so
// a departed peer never blocks delivery to others.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
