package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user. The implementation hashes the plaintext
	// Password before storing it.
	// Returns ErrEmailExists if the email is already taken, or domain
	// validation errors if the user data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists the full user record. If a plaintext Password is
	// set it is re-hashed; otherwise the stored hash is kept.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists when updating to a taken email.
	Update(ctx context.Context, user *domain.User) error

	// ListAvailableExperts returns all experts whose availability flag
	// is set, ordered by rating descending.
	ListAvailableExperts(ctx context.Context) ([]*domain.User, error)

	// IncrementCompletedTasks bumps an expert's completed-task counter.
	// Returns ErrUserNotFound if the user does not exist.
	IncrementCompletedTasks(ctx context.Context, id uuid.UUID) error
}
