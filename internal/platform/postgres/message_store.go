package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/platform/logger"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// PostgresMessageStore implements the store.MessageStore interface using
// a PostgreSQL database as the storage backend.
type PostgresMessageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMessageStore creates a new PostgreSQL implementation of the
// MessageStore interface.
func NewPostgresMessageStore(db store.DBTX, log *slog.Logger) *PostgresMessageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresMessageStore{
		db:     db,
		logger: log.With(slog.String("component", "message_store")),
	}
}

var _ store.MessageStore = (*PostgresMessageStore)(nil)

// Create implements store.MessageStore.Create.
func (s *PostgresMessageStore) Create(ctx context.Context, msg *domain.Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("message validation failed during create",
			slog.String("error", err.Error()),
			slog.String("message_id", msg.ID.String()))
		return err
	}

	var attachment []byte
	if msg.Attachment != nil {
		var err error
		attachment, err = json.Marshal(msg.Attachment)
		if err != nil {
			return fmt.Errorf("failed to encode attachment: %w", err)
		}
	}

	query := `
		INSERT INTO messages (id, task_id, sender_id, receiver_id, content, read, attachment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.TaskID, msg.SenderID, msg.ReceiverID,
		msg.Content, msg.Read, attachment, msg.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: task or party not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create message",
			slog.String("error", err.Error()),
			slog.String("message_id", msg.ID.String()),
			slog.String("task_id", msg.TaskID.String()))
		return MapError(err)
	}

	return nil
}

// ListByTask implements store.MessageStore.ListByTask.
func (s *PostgresMessageStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, sender_id, receiver_id, content, read, attachment, created_at
		FROM messages
		WHERE task_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query messages",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var messages []*domain.Message
	for rows.Next() {
		var msg domain.Message
		var attachment []byte
		if err := rows.Scan(
			&msg.ID, &msg.TaskID, &msg.SenderID, &msg.ReceiverID,
			&msg.Content, &msg.Read, &attachment, &msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if len(attachment) > 0 {
			msg.Attachment = &domain.Attachment{}
			if err := json.Unmarshal(attachment, msg.Attachment); err != nil {
				return nil, fmt.Errorf("failed to decode attachment: %w", err)
			}
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

// MarkRead implements store.MessageStore.MarkRead. Zero updated rows is
// not an error: there may simply be nothing unread.
func (s *PostgresMessageStore) MarkRead(ctx context.Context, taskID, receiverID uuid.UUID) error {
	query := `
		UPDATE messages
		SET read = TRUE
		WHERE task_id = $1 AND receiver_id = $2 AND NOT read
	`
	if _, err := s.db.ExecContext(ctx, query, taskID, receiverID); err != nil {
		return MapError(err)
	}
	return nil
}
