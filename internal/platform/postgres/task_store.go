package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/platform/logger"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using a
// PostgreSQL database. Category tags, attachments and the review are
// stored as JSONB.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, title, description, category, budget, estimated_hours,
	timeline, status, poster_id, expert_id, assigned_at, accepted_at,
	started_at, completed_at, total_time, attachments, review, created_at, updated_at`

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	category, attachments, review, err := encodeTaskJSON(task)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, category, task.Budget,
		task.EstimatedHours, task.Timeline, task.Status, task.PosterID,
		task.ExpertID, task.AssignedAt, task.AcceptedAt, task.StartedAt,
		task.CompletedAt, task.TotalTime, attachments, review,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: poster %s not found", store.ErrInvalidEntity, task.PosterID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("poster_id", task.PosterID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTaskRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update implements store.TaskStore.Update. The stored row is
// overwritten wholesale; lifecycle legality is the service's concern.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	category, attachments, review, err := encodeTaskJSON(task)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, category = $4, budget = $5,
			estimated_hours = $6, timeline = $7, status = $8, expert_id = $9,
			assigned_at = $10, accepted_at = $11, started_at = $12,
			completed_at = $13, total_time = $14, attachments = $15,
			review = $16, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, category, task.Budget,
		task.EstimatedHours, task.Timeline, task.Status, task.ExpertID,
		task.AssignedAt, task.AcceptedAt, task.StartedAt, task.CompletedAt,
		task.TotalTime, attachments, review,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: expert not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// ListByPoster implements store.TaskStore.ListByPoster.
func (s *PostgresTaskStore) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE poster_id = $1
		ORDER BY created_at DESC
	`
	return s.listTasks(ctx, query, posterID)
}

// ListByExpert implements store.TaskStore.ListByExpert.
func (s *PostgresTaskStore) ListByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE expert_id = $1
		ORDER BY created_at DESC
	`
	return s.listTasks(ctx, query, expertID)
}

// ListOpenForSkills implements store.TaskStore.ListOpenForSkills.
// The jsonb ?| operator matches tasks whose category array contains any
// of the given skill tags.
func (s *PostgresTaskStore) ListOpenForSkills(ctx context.Context, skills []string) ([]*domain.Task, error) {
	if len(skills) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1 AND category ?| $2
		ORDER BY created_at DESC
	`
	return s.listTasks(ctx, query, domain.TaskStatusPending, skills)
}

// ListCompletedByExpert implements store.TaskStore.ListCompletedByExpert.
func (s *PostgresTaskStore) ListCompletedByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE expert_id = $1 AND status = $2
		ORDER BY completed_at DESC
	`
	return s.listTasks(ctx, query, expertID, domain.TaskStatusCompleted)
}

func (s *PostgresTaskStore) listTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

func encodeTaskJSON(task *domain.Task) (category, attachments, review []byte, err error) {
	category, err = json.Marshal(task.Category)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode category: %w", err)
	}
	attachments, err = json.Marshal(task.Attachments)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode attachments: %w", err)
	}
	if task.Review != nil {
		review, err = json.Marshal(task.Review)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode review: %w", err)
		}
	}
	return category, attachments, review, nil
}

func scanTaskRow(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var category, attachments, review []byte
	var expertID uuid.NullUUID
	var assignedAt, acceptedAt, startedAt, completedAt sql.NullTime

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &category, &task.Budget,
		&task.EstimatedHours, &task.Timeline, &task.Status, &task.PosterID,
		&expertID, &assignedAt, &acceptedAt, &startedAt, &completedAt,
		&task.TotalTime, &attachments, &review, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expertID.Valid {
		id := expertID.UUID
		task.ExpertID = &id
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		task.AssignedAt = &t
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		task.AcceptedAt = &t
	}
	if startedAt.Valid {
		t := startedAt.Time
		task.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}

	if err := json.Unmarshal(category, &task.Category); err != nil {
		return nil, fmt.Errorf("failed to decode category: %w", err)
	}
	if err := json.Unmarshal(attachments, &task.Attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}
	if len(review) > 0 {
		task.Review = &domain.Review{}
		if err := json.Unmarshal(review, task.Review); err != nil {
			return nil, fmt.Errorf("failed to decode review: %w", err)
		}
	}

	return &task, nil
}
