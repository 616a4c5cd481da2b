package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// JoinPayload subscribes a client to its own room. Receiver is sent by the
// client alongside but only the sender id names the room.
type JoinPayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// MessagePayload is the live chat event. The durable write happens over HTTP
// before the client emits this; delivery here is fire-and-forget.
type MessagePayload struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewServer initializes the Socket.IO relay: each client joins a room named
// after its own user id, and send_message re-emits to the receiver's room.
func NewServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, payload JoinPayload) {
		if payload.Sender == "" {
			log.Println("Invalid join request: missing sender id")
			return
		}
		s.Join(payload.Sender)
		log.Printf("Socket %s joined room %s", s.ID(), payload.Sender)
	})

	server.OnEvent("/", "send_message", func(s socketio.Conn, payload MessagePayload) {
		if payload.Receiver == "" {
			log.Println("Invalid send_message: missing receiver id")
			return
		}
		// Dropped silently when nobody is subscribed; history fetch recovers it.
		server.BroadcastToRoom("/", payload.Receiver, "receive_message", payload)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("Socket disconnected:", s.ID(), reason)
	})

	return server
}
