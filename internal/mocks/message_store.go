package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// MockMessageStore implements store.MessageStore for testing
type MockMessageStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, msg *domain.Message) error
	ListByTaskFn func(ctx context.Context, taskID uuid.UUID) ([]*domain.Message, error)
	MarkReadFn   func(ctx context.Context, taskID, receiverID uuid.UUID) error

	// Data for default implementation
	Messages map[uuid.UUID]*domain.Message
}

var _ store.MessageStore = (*MockMessageStore)(nil)

// NewMockMessageStore creates a new mock store with initialized defaults
func NewMockMessageStore() *MockMessageStore {
	return &MockMessageStore{
		Messages: make(map[uuid.UUID]*domain.Message),
	}
}

// Create implements the MessageStore interface
func (m *MockMessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}

	copied := *msg
	m.Messages[msg.ID] = &copied
	return nil
}

// ListByTask implements the MessageStore interface
func (m *MockMessageStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Message, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}

	messages := make([]*domain.Message, 0)
	for _, msg := range m.Messages {
		if msg.TaskID == taskID {
			copied := *msg
			messages = append(messages, &copied)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// MarkRead implements the MessageStore interface
func (m *MockMessageStore) MarkRead(ctx context.Context, taskID, receiverID uuid.UUID) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, taskID, receiverID)
	}

	for _, msg := range m.Messages {
		if msg.TaskID == taskID && msg.ReceiverID == receiverID {
			msg.Read = true
		}
	}
	return nil
}
