package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Message validation errors.
var (
	ErrEmptyMessageID   = errors.New("message ID cannot be empty")
	ErrEmptyMessageTask = errors.New("message task ID cannot be empty")
	ErrEmptySender      = errors.New("sender ID cannot be empty")
	ErrEmptyReceiver    = errors.New("receiver ID cannot be empty")
	ErrSelfMessage      = errors.New("sender and receiver cannot be the same user")
)

// Message is a chat message exchanged between the two parties of a task.
// Messages are immutable once created, except for the read flag.
type Message struct {
	ID         uuid.UUID   `json:"id"`
	TaskID     uuid.UUID   `json:"task_id"`
	SenderID   uuid.UUID   `json:"sender_id"`
	ReceiverID uuid.UUID   `json:"receiver_id"`
	Content    string      `json:"content"`
	Read       bool        `json:"read"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewMessage creates an unread message on the given task.
func NewMessage(
	taskID, senderID, receiverID uuid.UUID,
	content string,
	attachment *Attachment,
) (*Message, error) {
	msg := &Message{
		ID:         uuid.New(),
		TaskID:     taskID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Attachment: attachment,
		CreatedAt:  time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks that the message is structurally valid.
func (m *Message) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMessageID
	}
	if m.TaskID == uuid.Nil {
		return ErrEmptyMessageTask
	}
	if m.SenderID == uuid.Nil {
		return ErrEmptySender
	}
	if m.ReceiverID == uuid.Nil {
		return ErrEmptyReceiver
	}
	if m.SenderID == m.ReceiverID {
		return ErrSelfMessage
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	return nil
}
