package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/store"
)

// Engine is the room broadcast engine. It is stateless aside from the
// registry it manipulates: per-connection state lives in Registry bindings,
// messages live in the store. One read-loop goroutine per connection calls
// these methods, so events from a single connection are handled in order.
type Engine struct {
	reg   *Registry
	store store.Store
	log   *zerolog.Logger
}

// NewEngine constructs the engine around a registry and a room store.
func NewEngine(reg *Registry, st store.Store, logger *zerolog.Logger) *Engine {
	return &Engine{reg: reg, store: st, log: logger}
}

// Connect registers a fresh, unbound connection.
func (e *Engine) Connect(c *Client) {
	e.reg.Register(c)
	e.log.Debug().Str("client_id", c.ID).Int("connections", e.reg.Count()).Msg("client connected")
}

// HandleJoin validates the room, binds the connection to it, acknowledges the
// join, replays room history to the joiner and announces the join to the
// other members. Rejoining a different room rebinds silently: the previous
// room gets no departure notice (deliberate, last join wins).
func (e *Engine) HandleJoin(ctx context.Context, c *Client, roomID, username string) {
	if roomID == "" {
		e.deliver(c, &Event{Kind: EventError, Err: errMissingRoomID()})
		return
	}

	room, err := e.store.GetRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			e.deliver(c, &Event{Kind: EventError, Err: errRoomNotFound(roomID)})
			return
		}
		e.log.Error().Err(err).Str("room_id", roomID).Msg("room lookup failed")
		e.deliver(c, &Event{Kind: EventError, Err: errPersistence()})
		return
	}

	if !e.reg.Bind(c, room.ID, room.Name, username) {
		// Connection raced a disconnect; nothing to do.
		return
	}

	e.deliver(c, &Event{Kind: EventJoined, RoomID: room.ID, RoomName: room.Name})

	history, err := e.store.ListMessages(ctx, room.ID)
	if err != nil {
		e.log.Error().Err(err).Str("room_id", room.ID).Msg("history load failed")
		e.deliver(c, &Event{Kind: EventError, Err: errPersistence()})
	} else {
		e.deliver(c, &Event{Kind: EventHistory, RoomID: room.ID, Messages: history})
	}

	// Snapshot after the bind; the joiner self-excludes by identity.
	members := e.reg.MembersOf(room.ID)
	e.broadcast(members, &Event{Kind: EventUserJoined, RoomID: room.ID, Username: username}, c)

	e.log.Info().Str("client_id", c.ID).Str("room_id", room.ID).Str("username", username).Msg("client joined room")
}

// HandleSend persists a message from a bound connection and fans it out to
// every member of the room, the sender included. Join presence excludes the
// joiner; message delivery does not exclude the sender. The asymmetry is
// intentional.
func (e *Engine) HandleSend(ctx context.Context, c *Client, text string) {
	binding, ok := e.reg.BindingOf(c)
	if !ok || !binding.Bound() {
		e.deliver(c, &Event{Kind: EventError, Err: errNotInRoom()})
		return
	}

	if strings.TrimSpace(text) == "" {
		e.deliver(c, &Event{Kind: EventError, Err: errEmptyMessage()})
		return
	}

	// Rooms are never deleted, so this lookup is expected to succeed; it
	// guards against a binding to a room the store no longer knows.
	if _, err := e.store.GetRoomByID(ctx, binding.RoomID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			e.deliver(c, &Event{Kind: EventError, Err: errRoomNotFound(binding.RoomID)})
			return
		}
		e.log.Error().Err(err).Str("room_id", binding.RoomID).Msg("room lookup failed")
		e.deliver(c, &Event{Kind: EventError, Err: errPersistence()})
		return
	}

	msg, err := e.store.AppendMessage(ctx, binding.RoomID, binding.Username, text)
	if err != nil {
		e.log.Error().Err(err).Str("room_id", binding.RoomID).Msg("persist message failed")
		e.deliver(c, &Event{Kind: EventError, Err: errPersistence()})
		return
	}

	members := e.reg.MembersOf(binding.RoomID)
	e.broadcast(members, &Event{Kind: EventMessage, RoomID: binding.RoomID, Message: msg}, nil)
}

// HandleDisconnect removes the connection from the registry and, if it was
// bound, announces the departure to the remaining members. Safe to call more
// than once and concurrently with an in-flight send from the same connection.
func (e *Engine) HandleDisconnect(c *Client) {
	c.close()

	binding, existed := e.reg.Deregister(c)
	if !existed {
		return
	}

	e.log.Debug().Str("client_id", c.ID).Int("connections", e.reg.Count()).Msg("client disconnected")

	if !binding.Bound() {
		return
	}

	// Post-removal snapshot: the departed connection is not in it.
	members := e.reg.MembersOf(binding.RoomID)
	e.broadcast(members, &Event{
		Kind:     EventUserLeft,
		RoomID:   binding.RoomID,
		Username: binding.Username,
	}, nil)
}

// HandleMalformed replies to an unparseable or unrecognized payload. The
// offending connection stays open; no other connection is affected.
func (e *Engine) HandleMalformed(c *Client) {
	e.deliver(c, &Event{Kind: EventError, Err: errInvalidFormat()})
}

// HandleIncompleteSend replies to a sendMessage payload missing required
// fields, without touching the store.
func (e *Engine) HandleIncompleteSend(c *Client) {
	e.deliver(c, &Event{Kind: EventError, Err: errMissingSendFields()})
}

// JoinedMessage is the presence text shown when a user enters a room.
func JoinedMessage(username string) string {
	return fmt.Sprintf("%s has joined the room.", username)
}

// LeftMessage is the presence text shown when a user leaves a room.
func LeftMessage(username string) string {
	return fmt.Sprintf("%s has left the room.", username)
}

// deliver sends one event to one client. Selecting on the done channel keeps
// a disconnected peer from blocking the calling handler.
func (e *Engine) deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	case <-c.done:
	}
}

func (e *Engine) broadcast(members []*Client, ev *Event, exclude *Client) {
	for _, member := range members {
		if member == exclude {
			continue
		}
		e.deliver(member, ev)
	}
}
