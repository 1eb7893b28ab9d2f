package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

// dispatch parses one inbound frame and invokes the matching engine
// operation. Anything that does not decode into a known action gets a single
// "Invalid message format" reply.
func dispatch(ctx context.Context, eng *core.Engine, client *core.Client, data []byte) {
	var in proto.Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		eng.HandleMalformed(client)
		return
	}

	switch in.Action {
	case proto.ActionJoinRoom:
		eng.HandleJoin(ctx, client, in.RoomID, in.Username)
	case proto.ActionSendMessage:
		if in.RoomID == "" || in.Username == "" || in.MessageText == "" {
			eng.HandleIncompleteSend(client)
			return
		}
		eng.HandleSend(ctx, client, in.MessageText)
	default:
		eng.HandleMalformed(client)
	}
}

// outboundFromEvent shapes a core event into its wire payload.
func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventJoined:
		return proto.JoinAck{
			Success:  true,
			RoomID:   event.RoomID,
			RoomName: event.RoomName,
		}
	case core.EventHistory:
		history := make([]proto.HistoryMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			history = append(history, proto.HistoryMessage{
				Username:  msg.Username,
				Text:      msg.Text,
				CreatedAt: msg.CreatedAt.Format(time.RFC3339),
			})
		}
		return proto.History{History: history}
	case core.EventMessage:
		return proto.NewMessage{
			NewMessage: proto.ChatMessage{
				Username: event.Message.Username,
				Text:     event.Message.Text,
				Time:     event.Message.CreatedAt.Format(time.RFC3339),
			},
		}
	case core.EventUserJoined:
		return proto.UserJoined{
			NewUser: event.Username,
			Message: core.JoinedMessage(event.Username),
		}
	case core.EventUserLeft:
		return proto.UserLeft{
			Message: core.LeftMessage(event.Username),
		}
	case core.EventError:
		if event.Err == nil {
			return proto.ErrorReply{Error: "Invalid message format"}
		}
		return proto.ErrorReply{Error: event.Err.Message}
	default:
		return proto.ErrorReply{Error: "Invalid message format"}
	}
}
