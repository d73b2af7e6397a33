package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Tasks are never
// deleted; lifecycle changes go through Update.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the poster does not exist, or domain
	// validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists the full task record, overwriting the stored row.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// ListByPoster returns all tasks created by the given poster, newest
	// first.
	ListByPoster(ctx context.Context, posterID uuid.UUID) ([]*domain.Task, error)

	// ListByExpert returns all tasks bound to the given expert, newest
	// first.
	ListByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error)

	// ListOpenForSkills returns pending tasks whose category intersects
	// the given skill set, newest first.
	ListOpenForSkills(ctx context.Context, skills []string) ([]*domain.Task, error)

	// ListCompletedByExpert returns the expert's completed tasks, newest
	// first. Used for expert profile past-project listings.
	ListCompletedByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error)
}
