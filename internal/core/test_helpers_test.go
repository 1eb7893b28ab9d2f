package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/store"
)

func newTestEngine() (*Engine, *Registry, *memStore) {
	reg := NewRegistry()
	st := newMemStore()
	logger := zerolog.New(nil)
	return NewEngine(reg, st, &logger), reg, st
}

func newFlakyEngine() (*Engine, *Registry, *flakyStore) {
	reg := NewRegistry()
	st := &flakyStore{memStore: newMemStore()}
	logger := zerolog.New(nil)
	return NewEngine(reg, st, &logger), reg, st
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
			t.Fatalf("expected event kind %v, got %v (%+v)", kind, ev.Kind, ev)
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

// memStore is an in-memory store.Store used to drive the engine in tests
// without touching SQLite.
type memStore struct {
	mu       sync.Mutex
	seq      int
	rooms    map[string]*store.Room
	messages map[string][]*store.Message
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[string]*store.Room),
		messages: make(map[string][]*store.Message),
	}
}

func (m *memStore) CreateRoom(_ context.Context, name string) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, room := range m.rooms {
		if room.Name == name {
			return nil, store.ErrRoomExists
		}
	}
	m.seq++
	room := &store.Room{
		ID:        fmt.Sprintf("room-%d", m.seq),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.rooms[room.ID] = room
	return room, nil
}

func (m *memStore) GetRoomByID(_ context.Context, id string) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return room, nil
}

func (m *memStore) ListRooms(_ context.Context) ([]*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := make([]*store.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (m *memStore) AppendMessage(_ context.Context, roomID, username, text string) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; !ok {
		return nil, store.ErrRoomNotFound
	}
	m.seq++
	msg := &store.Message{
		ID:        fmt.Sprintf("msg-%d", m.seq),
		RoomID:    roomID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	m.messages[roomID] = append(m.messages[roomID], msg)
	return msg, nil
}

func (m *memStore) ListMessages(_ context.Context, roomID string) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.messages[roomID]
	out := make([]*store.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *memStore) Close() error {
	return nil
}

// flakyStore wraps memStore so individual store calls can be made to fail.
type flakyStore struct {
	*memStore
	getRoomErr error
	listErr    error
	appendErr  error
}

func (f *flakyStore) GetRoomByID(ctx context.Context, id string) (*store.Room, error) {
	if f.getRoomErr != nil {
		return nil, f.getRoomErr
	}
	return f.memStore.GetRoomByID(ctx, id)
}

func (f *flakyStore) ListMessages(ctx context.Context, roomID string) ([]*store.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.memStore.ListMessages(ctx, roomID)
}

func (f *flakyStore) AppendMessage(ctx context.Context, roomID, username, text string) (*store.Message, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	return f.memStore.AppendMessage(ctx, roomID, username, text)
}
