package relay

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/taskbooking/taskbooking-api/internal/events"
)

const (
	// writeWait is the allowance for a single write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long we wait for a pong before dropping the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound client frames.
	maxMessageSize = 4096
)

// Client message types.
const (
	msgIdentify    = "identify"
	msgJoinRoom    = "join-room"
	msgSendMessage = "send-message"
)

// clientMessage is the envelope for client-to-server websocket frames.
type clientMessage struct {
	Type    string          `json:"type"`
	TaskID  uuid.UUID       `json:"task_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is a single websocket connection. The identity is taken from
// the authenticated token at upgrade time; an identify frame merely
// re-registers the same identity.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	// send carries outbound frames. Closed by the hub on unregister.
	send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, hub.sendBufferSize),
	}
}

// readPump reads frames from the connection and dispatches them to the
// hub. It runs in its own goroutine and unregisters the client on exit.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", "error", err, "user_id", c.userID)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.logger.Debug("ignoring malformed client frame", "error", err, "user_id", c.userID)
			continue
		}

		switch msg.Type {
		case msgIdentify:
			// Idempotent: identity is already established at upgrade.
			c.hub.register <- c
		case msgJoinRoom:
			if msg.TaskID == uuid.Nil {
				continue
			}
			c.hub.join <- joinRequest{client: c, taskID: msg.TaskID}
		case msgSendMessage:
			// Pure fan-out to the room. The durable write happens on the
			// REST chat endpoint; this path only feeds other live clients.
			if msg.TaskID == uuid.Nil {
				continue
			}
			ev, err := events.NewChatMessage(c.userID, msg.TaskID, msg.Payload)
			if err != nil {
				c.hub.logger.Debug("failed to build chat event", "error", err, "user_id", c.userID)
				continue
			}
			c.hub.Publish(ctx, ev)
		default:
			c.hub.logger.Debug("ignoring unknown client frame type",
				"frame_type", msg.Type,
				"user_id", c.userID)
		}
	}
}

// writePump forwards hub messages to the connection and keeps the
// connection alive with periodic pings. Runs in its own goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					c.hub.logger.Debug("websocket write error", "error", err, "user_id", c.userID)
				}
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
