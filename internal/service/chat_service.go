package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/events"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// ChatService manages per-task messaging between the poster and the
// bound expert. Chat is open while the task is accepted or in progress.
type ChatService interface {
	// ListMessages returns the task's messages, oldest first. Parties only.
	ListMessages(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.Message, error)

	// Send persists a message from a party to the task's other party and
	// fans it out to the task's chat room.
	Send(ctx context.Context, senderID, taskID uuid.UUID, content string, attachment *domain.Attachment) (*domain.Message, error)

	// MarkRead flags the caller's incoming messages on the task as read.
	MarkRead(ctx context.Context, userID, taskID uuid.UUID) error
}

// ChatServiceImpl implements the ChatService interface.
type ChatServiceImpl struct {
	messageStore store.MessageStore
	taskStore    store.TaskStore
	publisher    events.Publisher
	logger       *slog.Logger
}

var _ ChatService = (*ChatServiceImpl)(nil)

// NewChatService creates a new ChatService.
func NewChatService(
	messageStore store.MessageStore,
	taskStore store.TaskStore,
	publisher events.Publisher,
	logger *slog.Logger,
) *ChatServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ChatServiceImpl{
		messageStore: messageStore,
		taskStore:    taskStore,
		publisher:    publisher,
		logger:       logger.With("component", "chat_service"),
	}
}

// chatOpen reports whether the task's state permits messaging.
func chatOpen(status domain.TaskStatus) bool {
	return status == domain.TaskStatusAccepted || status == domain.TaskStatusInProgress
}

// ListMessages returns the task's message history for a party.
func (s *ChatServiceImpl) ListMessages(
	ctx context.Context,
	userID, taskID uuid.UUID,
) ([]*domain.Message, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if !task.IsParty(userID) {
		s.logger.Debug("chat history requested by non-party",
			"task_id", taskID,
			"user_id", userID)
		return nil, ErrNotTaskParty
	}

	messages, err := s.messageStore.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Send persists and relays a chat message.
func (s *ChatServiceImpl) Send(
	ctx context.Context,
	senderID, taskID uuid.UUID,
	content string,
	attachment *domain.Attachment,
) (*domain.Message, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if !task.IsParty(senderID) {
		return nil, ErrNotTaskParty
	}
	if !chatOpen(task.Status) {
		s.logger.Debug("message rejected, chat closed",
			"task_id", taskID,
			"status", task.Status)
		return nil, ErrChatClosed
	}

	receiverID := task.OtherParty(senderID)
	msg, err := domain.NewMessage(taskID, senderID, receiverID, content, attachment)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.messageStore.Create(ctx, msg); err != nil {
		s.logger.Error("failed to save message",
			"error", err,
			"task_id", taskID,
			"sender_id", senderID)
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.logger.Debug("message sent",
		"message_id", msg.ID,
		"task_id", taskID,
		"sender_id", senderID)

	if ev, err := events.NewChatMessage(senderID, taskID, msg); err == nil {
		s.publisher.Publish(ctx, ev)
	}

	return msg, nil
}

// MarkRead flags the caller's unread incoming messages as read.
func (s *ChatServiceImpl) MarkRead(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to retrieve task: %w", err)
	}
	if !task.IsParty(userID) {
		return ErrNotTaskParty
	}

	if err := s.messageStore.MarkRead(ctx, taskID, userID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
