package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRoomNotFound is returned when a referenced room id has no record.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned on an attempt to create a room whose name is taken.
	ErrRoomExists = errors.New("room already exists")
)

// Room is a durable chat room record. Rooms are immutable once created and
// are never deleted.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Message is a persisted chat message, ordered within a room by CreatedAt.
type Message struct {
	ID        string
	RoomID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

// RoomStore handles room persistence.
type RoomStore interface {
	// CreateRoom creates a room with a unique name.
	// Returns ErrRoomExists if the name is already taken.
	CreateRoom(ctx context.Context, name string) (*Room, error)

	// GetRoomByID retrieves a room by id.
	// Returns ErrRoomNotFound if no such room exists.
	GetRoomByID(ctx context.Context, id string) (*Room, error)

	// ListRooms lists all rooms.
	ListRooms(ctx context.Context) ([]*Room, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// AppendMessage persists a message with a server-assigned id and timestamp.
	// Returns ErrRoomNotFound if the room does not exist.
	AppendMessage(ctx context.Context, roomID, username, text string) (*Message, error)

	// ListMessages returns all messages of a room ordered by creation time
	// ascending, ties broken by insertion order.
	ListMessages(ctx context.Context, roomID string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
