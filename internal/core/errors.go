package core

import "fmt"

// Error codes for domain errors.
const (
	ErrCodeMissingField = "missing_field"
	ErrCodeRoomNotFound = "room_not_found"
	ErrCodeNotInRoom    = "not_in_room"
	ErrCodeEmptyMessage = "empty_message"
	ErrCodeBadPayload   = "bad_payload"
	ErrCodePersistence  = "persistence_failed"
)

// Error wraps a code and the human-readable message sent to the client.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errMissingRoomID() *Error {
	return &Error{Code: ErrCodeMissingField, Message: "Room ID is required"}
}

func errMissingSendFields() *Error {
	return &Error{Code: ErrCodeMissingField, Message: "Message or roomId is missing"}
}

func errRoomNotFound(roomID string) *Error {
	return &Error{Code: ErrCodeRoomNotFound, Message: fmt.Sprintf("Room with ID %s not found", roomID)}
}

func errNotInRoom() *Error {
	return &Error{Code: ErrCodeNotInRoom, Message: "Join a room before sending messages"}
}

func errEmptyMessage() *Error {
	return &Error{Code: ErrCodeEmptyMessage, Message: "Message text must not be empty"}
}

func errInvalidFormat() *Error {
	return &Error{Code: ErrCodeBadPayload, Message: "Invalid message format"}
}

func errPersistence() *Error {
	return &Error{Code: ErrCodePersistence, Message: "Failed to process message"}
}
