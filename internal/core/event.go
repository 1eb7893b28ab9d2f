package core

import "github.com/vovakirdan/roomchat-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoined confirms a successful join to the joining client.
	EventJoined EventKind = iota
	// EventHistory delivers room history to a client, once per join.
	EventHistory
	// EventMessage notifies room members about a new chat message.
	EventMessage
	// EventUserJoined notifies room members that a user joined.
	EventUserJoined
	// EventUserLeft notifies room members that a user left.
	EventUserLeft
	// EventError reports a domain error to the offending client only.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	RoomID   string
	RoomName string
	Username string
	Message  *store.Message
	Messages []*store.Message // for EventHistory
	Err      *Error
}
