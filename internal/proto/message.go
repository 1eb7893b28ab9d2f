package proto

// Actions accepted on the websocket.
const (
	ActionJoinRoom    = "joinRoom"
	ActionSendMessage = "sendMessage"
)

// Inbound is a structured payload received from a client. Which fields are
// required depends on the action.
type Inbound struct {
	Action      string `json:"action"`
	RoomID      string `json:"roomId,omitempty"`
	RoomName    string `json:"roomName,omitempty"`
	Username    string `json:"username,omitempty"`
	MessageText string `json:"messageText,omitempty"`
}

// JoinAck confirms a successful join to the joining client.
type JoinAck struct {
	Success  bool   `json:"success"`
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// HistoryMessage is one entry of a room's replayed history.
type HistoryMessage struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// History carries a room's messages to a client that just joined.
type History struct {
	History []HistoryMessage `json:"history"`
}

// ChatMessage is a freshly broadcast chat message.
type ChatMessage struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Time     string `json:"time"`
}

// NewMessage wraps a chat message for delivery to room members.
type NewMessage struct {
	NewMessage ChatMessage `json:"newMessage"`
}

// UserJoined announces a new room member to the other members.
type UserJoined struct {
	NewUser string `json:"newUser"`
	Message string `json:"message"`
}

// UserLeft announces a departure to the remaining members.
type UserLeft struct {
	Message string `json:"message"`
}

// ErrorReply is the single error shape clients receive.
type ErrorReply struct {
	Error string `json:"error"`
}
