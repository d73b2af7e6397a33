package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
)

// MessageStore defines the interface for chat message persistence.
// Messages are immutable apart from the read flag.
type MessageStore interface {
	// Create saves a new message.
	// Returns ErrInvalidEntity if the task or either party does not
	// exist, or domain validation errors if the message is invalid.
	Create(ctx context.Context, msg *domain.Message) error

	// ListByTask returns all messages for the task, oldest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Message, error)

	// MarkRead flags every unread message addressed to receiverID on the
	// task as read. Marking zero messages is not an error.
	MarkRead(ctx context.Context, taskID, receiverID uuid.UUID) error
}
