package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn                  func(ctx context.Context, user *domain.User) error
	GetByIDFn                 func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn              func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn                  func(ctx context.Context, user *domain.User) error
	ListAvailableExpertsFn    func(ctx context.Context) ([]*domain.User, error)
	IncrementCompletedTasksFn func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[uuid.UUID]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	for _, existing := range m.Users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}

	// Mirror the real store: the plaintext password never survives Create.
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}

	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	for _, user := range m.Users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	if _, ok := m.Users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}

	copied := *user
	m.Users[user.ID] = &copied
	return nil
}

// ListAvailableExperts implements the UserStore interface
func (m *MockUserStore) ListAvailableExperts(ctx context.Context) ([]*domain.User, error) {
	if m.ListAvailableExpertsFn != nil {
		return m.ListAvailableExpertsFn(ctx)
	}

	experts := make([]*domain.User, 0)
	for _, user := range m.Users {
		if user.IsExpert() && user.Available {
			copied := *user
			experts = append(experts, &copied)
		}
	}
	sort.Slice(experts, func(i, j int) bool {
		return experts[i].Rating > experts[j].Rating
	})
	return experts, nil
}

// IncrementCompletedTasks implements the UserStore interface
func (m *MockUserStore) IncrementCompletedTasks(ctx context.Context, id uuid.UUID) error {
	if m.IncrementCompletedTasksFn != nil {
		return m.IncrementCompletedTasksFn(ctx, id)
	}

	user, ok := m.Users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.CompletedTasks++
	return nil
}
