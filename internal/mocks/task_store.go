package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn                func(ctx context.Context, task *domain.Task) error
	GetByIDFn               func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn                func(ctx context.Context, task *domain.Task) error
	ListByPosterFn          func(ctx context.Context, posterID uuid.UUID) ([]*domain.Task, error)
	ListByExpertFn          func(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error)
	ListOpenForSkillsFn     func(ctx context.Context, skills []string) ([]*domain.Task, error)
	ListCompletedByExpertFn func(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error)

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, ok := m.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if _, ok := m.Tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// ListByPoster implements the TaskStore interface
func (m *MockTaskStore) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByPosterFn != nil {
		return m.ListByPosterFn(ctx, posterID)
	}
	return m.filter(func(t *domain.Task) bool {
		return t.PosterID == posterID
	}), nil
}

// ListByExpert implements the TaskStore interface
func (m *MockTaskStore) ListByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByExpertFn != nil {
		return m.ListByExpertFn(ctx, expertID)
	}
	return m.filter(func(t *domain.Task) bool {
		return t.ExpertID != nil && *t.ExpertID == expertID
	}), nil
}

// ListOpenForSkills implements the TaskStore interface
func (m *MockTaskStore) ListOpenForSkills(ctx context.Context, skills []string) ([]*domain.Task, error) {
	if m.ListOpenForSkillsFn != nil {
		return m.ListOpenForSkillsFn(ctx, skills)
	}
	return m.filter(func(t *domain.Task) bool {
		if t.Status != domain.TaskStatusPending {
			return false
		}
		for _, c := range t.Category {
			for _, s := range skills {
				if strings.EqualFold(c, s) {
					return true
				}
			}
		}
		return false
	}), nil
}

// ListCompletedByExpert implements the TaskStore interface
func (m *MockTaskStore) ListCompletedByExpert(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error) {
	if m.ListCompletedByExpertFn != nil {
		return m.ListCompletedByExpertFn(ctx, expertID)
	}
	return m.filter(func(t *domain.Task) bool {
		return t.Status == domain.TaskStatusCompleted &&
			t.ExpertID != nil && *t.ExpertID == expertID
	}), nil
}

func (m *MockTaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if keep(task) {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}
