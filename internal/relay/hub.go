// Package relay implements the best-effort real-time notification hub.
// The hub is a pure projection of events published by the service layer;
// it never stores durable state and never blocks the publishing path.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/config"
	"github.com/taskbooking/taskbooking-api/internal/events"
)

// joinRequest asks the hub to add a client to a task's chat room.
type joinRequest struct {
	client *Client
	taskID uuid.UUID
}

// Hub routes events to connected websocket clients. All state is owned
// by the Run goroutine; registration, room membership and event delivery
// arrive over channels so the maps are never touched concurrently.
type Hub struct {
	logger *slog.Logger

	// register, unregister and join are unbuffered so a completed send
	// guarantees the hub has picked the request up before its next event.
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	events     chan *events.Event

	// clients holds every open connection, registered identity or not.
	clients map[*Client]struct{}

	// identities maps a user ID to its most recent connection. A new
	// registration for the same user displaces the previous entry; the
	// displaced connection stays open and keeps receiving broadcasts.
	identities map[uuid.UUID]*Client

	// rooms holds chat room membership keyed by task ID, independent of
	// the identity map.
	rooms map[uuid.UUID]map[*Client]struct{}

	sendBufferSize int
}

// NewHub creates a hub with queue sizes taken from the relay
// configuration. Call Run to start routing.
func NewHub(cfg config.RelayConfig, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		logger:         log.With("component", "relay_hub"),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		join:           make(chan joinRequest),
		events:         make(chan *events.Event, cfg.QueueSize),
		clients:        make(map[*Client]struct{}),
		identities:     make(map[uuid.UUID]*Client),
		rooms:          make(map[uuid.UUID]map[*Client]struct{}),
		sendBufferSize: cfg.SendBufferSize,
	}
}

// Run processes registrations and events until the context is cancelled.
// It owns all hub state and must be the only goroutine touching it.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("relay hub starting")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("relay hub stopping", "open_connections", len(h.clients))
			for c := range h.clients {
				h.dropClient(c)
			}
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case req := <-h.join:
			h.handleJoin(req)
		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

// Publish implements events.Publisher. It never blocks: when the queue
// is full the event is dropped, consistent with best-effort delivery.
func (h *Hub) Publish(ctx context.Context, ev *events.Event) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn("event queue full, dropping event",
			"event_type", ev.Type,
			"event_id", ev.ID)
	}
}

func (h *Hub) handleRegister(c *Client) {
	h.clients[c] = struct{}{}
	if c.userID != uuid.Nil {
		if prev, ok := h.identities[c.userID]; ok && prev != c {
			h.logger.Debug("identity displaced by newer connection", "user_id", c.userID)
		}
		h.identities[c.userID] = c
	}
	h.logger.Debug("client registered",
		"user_id", c.userID,
		"open_connections", len(h.clients))
}

func (h *Hub) handleUnregister(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.dropClient(c)
	h.logger.Debug("client unregistered",
		"user_id", c.userID,
		"open_connections", len(h.clients))
}

// dropClient removes every trace of a connection. The identity entry is
// only removed when it still points at this connection, so a displaced
// stale connection cannot unregister its successor.
func (h *Hub) dropClient(c *Client) {
	delete(h.clients, c)
	if cur, ok := h.identities[c.userID]; ok && cur == c {
		delete(h.identities, c.userID)
	}
	for taskID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, taskID)
		}
	}
	close(c.send)
}

func (h *Hub) handleJoin(req joinRequest) {
	if _, ok := h.clients[req.client]; !ok {
		return
	}
	members, ok := h.rooms[req.taskID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[req.taskID] = members
	}
	members[req.client] = struct{}{}
	h.logger.Debug("client joined room",
		"user_id", req.client.userID,
		"task_id", req.taskID,
		"room_size", len(members))
}

// handleEvent routes a single event. Targeted events go to the target's
// registered connection, room events to every room member, everything
// else is broadcast to all clients except the sender.
func (h *Hub) handleEvent(ev *events.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode event", "error", err, "event_type", ev.Type)
		return
	}

	switch {
	case ev.TargetID != uuid.Nil:
		if c, ok := h.identities[ev.TargetID]; ok {
			h.trySend(c, payload)
		}
	case ev.RoomID != uuid.Nil:
		for c := range h.rooms[ev.RoomID] {
			h.trySend(c, payload)
		}
	default:
		for c := range h.clients {
			if c.userID == ev.SenderID {
				continue
			}
			h.trySend(c, payload)
		}
	}
}

// trySend enqueues a message on the client's send buffer, dropping it
// when the buffer is full. The hub must never block on a slow client.
func (h *Hub) trySend(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("client send buffer full, dropping message", "user_id", c.userID)
	}
}
