package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestCreateRoom(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp := postJSON(t, ts.URL+"/rooms", `{"roomName":"general"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var room RoomResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	assert.NotEmpty(t, room.RoomID)
	assert.Equal(t, "general", room.RoomName)

	// Duplicate name conflicts.
	resp = postJSON(t, ts.URL+"/rooms", `{"roomName":"general"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Room already exists", errResp.Error)

	// Missing name is a bad request.
	resp = postJSON(t, ts.URL+"/rooms", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRooms(t *testing.T) {
	ts, st, _ := startTestServer(t)

	_, err := st.CreateRoom(context.Background(), "general")
	require.NoError(t, err)
	_, err = st.CreateRoom(context.Background(), "random")
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rooms []RoomResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, "general", rooms[0].RoomName)
	assert.Equal(t, "random", rooms[1].RoomName)
}

func TestListRoomMessages(t *testing.T) {
	ts, st, _ := startTestServer(t)
	ctx := context.Background()

	room, err := st.CreateRoom(ctx, "general")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, room.ID, "alice", "hello")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, room.ID, "bob", "hi")
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/rooms/" + room.ID + "/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "alice", messages[0].Username)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Equal(t, "bob", messages[1].Username)

	// Unknown room is a 404.
	resp, err = http.Get(ts.URL + "/rooms/no-such-room/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMessagesCollectionNotAllowed(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/messages")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConnectionsCount(t *testing.T) {
	ts, _, reg := startTestServer(t)

	readCount := func() int {
		resp, err := http.Get(ts.URL + "/connections-count")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			ConnectionsCount int `json:"connectionsCount"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.ConnectionsCount
	}

	assert.Equal(t, 0, readCount())

	// The endpoint reads straight from the registry.
	c := core.NewClient("test")
	reg.Register(c)
	assert.Equal(t, 1, readCount())

	reg.Deregister(c)
	assert.Equal(t, 0, readCount())
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
