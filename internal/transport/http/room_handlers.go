package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/store"
)

// RoomHandlers provides the REST endpoints around the live chat core: room
// creation and listing, history reads and the live connection counter.
type RoomHandlers struct {
	store    store.Store
	registry *core.Registry
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, reg *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store:    st,
		registry: reg,
		log:      logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	RoomName string `json:"roomName" binding:"required,min=1,max=64"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// MessageResponse represents a persisted message in API responses.
type MessageResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoom handles room creation.
// POST /rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), req.RoomName)
	if err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Room already exists"})
			return
		}
		h.log.Error().Err(err).Str("room_name", req.RoomName).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room_name", room.Name).Str("room_id", room.ID).Msg("room created")
	c.JSON(http.StatusCreated, RoomResponse{RoomID: room.ID, RoomName: room.Name})
}

// ListRooms handles listing all rooms.
// GET /rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, RoomResponse{RoomID: room.ID, RoomName: room.Name})
	}

	c.JSON(http.StatusOK, response)
}

// ListRoomMessages returns a room's messages oldest first.
// GET /rooms/:roomId/messages
func (h *RoomHandlers) ListRoomMessages(c *gin.Context) {
	roomID := c.Param("roomId")

	if _, err := h.store.GetRoomByID(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Room not found"})
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to look up room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			Username:  msg.Username,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// MessagesNotAllowed rejects reads of the bare messages collection.
// GET /messages
func (h *RoomHandlers) MessagesNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
}

// ConnectionsCount reports the number of live websocket connections.
// GET /connections-count
func (h *RoomHandlers) ConnectionsCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connectionsCount": h.registry.Count()})
}
