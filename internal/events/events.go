// Package events defines the notification events exchanged between the
// persistence path and the real-time relay, and the Publisher interface
// decoupling the two. The relay is a pure projection of these events;
// the stores remain the source of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of notification event.
type Type string

// Server-to-client event types.
const (
	// TypeAvailabilityChanged is broadcast to everyone except the sender
	// when an expert toggles availability.
	TypeAvailabilityChanged Type = "availability-changed"

	// TypeTaskAssigned is targeted at the assigned expert only.
	TypeTaskAssigned Type = "task-assigned"

	// TypeTaskStatusUpdated is broadcast to everyone except the sender.
	TypeTaskStatusUpdated Type = "task-status-updated"

	// TypeNewMessage is delivered to every member of the task's room.
	TypeNewMessage Type = "new-message"
)

// Event is a single best-effort notification. Exactly one routing field
// is meaningful per type: TargetID for targeted events, RoomID for room
// events, neither for broadcasts.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      Type            `json:"type"`
	SenderID  uuid.UUID       `json:"sender_id"`
	TargetID  uuid.UUID       `json:"target_id,omitempty"`
	RoomID    uuid.UUID       `json:"room_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided value.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

func newEvent(t Type, senderID uuid.UUID, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", t, err)
	}
	return &Event{
		ID:        uuid.New(),
		Type:      t,
		SenderID:  senderID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewAvailabilityChanged creates a broadcast event for an expert
// availability toggle.
func NewAvailabilityChanged(senderID uuid.UUID, payload any) (*Event, error) {
	return newEvent(TypeAvailabilityChanged, senderID, payload)
}

// NewTaskAssigned creates an event targeted at the assigned expert.
func NewTaskAssigned(senderID, expertID uuid.UUID, payload any) (*Event, error) {
	ev, err := newEvent(TypeTaskAssigned, senderID, payload)
	if err != nil {
		return nil, err
	}
	ev.TargetID = expertID
	return ev, nil
}

// NewTaskStatusUpdated creates a broadcast event for a lifecycle
// transition.
func NewTaskStatusUpdated(senderID uuid.UUID, payload any) (*Event, error) {
	return newEvent(TypeTaskStatusUpdated, senderID, payload)
}

// NewChatMessage creates an event delivered to the task's chat room.
func NewChatMessage(senderID, taskID uuid.UUID, payload any) (*Event, error) {
	ev, err := newEvent(TypeNewMessage, senderID, payload)
	if err != nil {
		return nil, err
	}
	ev.RoomID = taskID
	return ev, nil
}

// Publisher is implemented by components that accept events for
// best-effort fan-out. Publish never blocks and never reports delivery
// failures: a full queue or an absent recipient silently drops the
// event.
type Publisher interface {
	Publish(ctx context.Context, event *Event)
}

// NopPublisher discards every event. Useful in tests and tools that do
// not run a relay.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, *Event) {}
