package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/events"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// CreateTaskInput carries the poster-supplied fields of a new task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Category       []string
	Budget         float64
	EstimatedHours float64
	Timeline       time.Time
}

// TaskService manages the task lifecycle: creation, assignment, status
// transitions and reviews. All authorization checks live here; the
// domain layer only knows the transition table.
type TaskService interface {
	// Create creates a pending task. The caller must have the poster role.
	Create(ctx context.Context, posterID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// Get retrieves a task visible to the caller. Parties see their own
	// tasks; experts additionally see pending tasks they could take.
	Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListMine returns the caller's tasks: posted tasks for posters,
	// bound tasks for experts.
	ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListOpen returns pending tasks whose category intersects the
	// calling expert's skills.
	ListOpen(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error)

	// Assign binds an available expert to the task and moves it to
	// assigned. Legal from pending and from rejected; an active
	// assignment is never silently rebound.
	Assign(ctx context.Context, posterID, taskID, expertID uuid.UUID) (*domain.Task, error)

	// UpdateStatus applies a lifecycle transition requested by a party.
	// Accept, reject, start and complete belong to the bound expert;
	// cancel belongs to either party. Assignment goes through Assign.
	UpdateStatus(ctx context.Context, userID, taskID uuid.UUID, next domain.TaskStatus) (*domain.Task, error)

	// AttachReview records the poster's rating of a completed task.
	// At most one review per task.
	AttachReview(ctx context.Context, posterID, taskID uuid.UUID, rating int, comment string) (*domain.Task, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	publisher events.Publisher
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	publisher events.Publisher,
	logger *slog.Logger,
) *TaskServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		publisher: publisher,
		logger:    logger.With("component", "task_service"),
	}
}

// Create creates a pending task owned by the caller.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	posterID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	poster, err := s.userStore.GetByID(ctx, posterID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve poster: %w", err)
	}
	if poster.IsExpert() {
		s.logger.Debug("expert attempted to create task", "user_id", posterID)
		return nil, ErrNotPoster
	}

	task, err := domain.NewTask(
		posterID,
		input.Title,
		input.Description,
		input.Category,
		input.Budget,
		input.EstimatedHours,
		input.Timeline,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to save task",
			"error", err,
			"poster_id", posterID)
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"poster_id", posterID,
		"budget", task.Budget)

	return task, nil
}

// Get retrieves a task the caller may see.
func (s *TaskServiceImpl) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if task.IsParty(userID) || task.Status == domain.TaskStatusPending {
		return task, nil
	}
	return nil, ErrNotTaskParty
}

// ListMine returns the caller's tasks depending on their role.
func (s *TaskServiceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user.IsExpert() {
		tasks, err := s.taskStore.ListByExpert(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list expert tasks: %w", err)
		}
		return tasks, nil
	}

	tasks, err := s.taskStore.ListByPoster(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list poster tasks: %w", err)
	}
	return tasks, nil
}

// ListOpen returns pending tasks matching the expert's skills.
func (s *TaskServiceImpl) ListOpen(ctx context.Context, expertID uuid.UUID) ([]*domain.Task, error) {
	expert, err := s.userStore.GetByID(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expert: %w", err)
	}
	if !expert.IsExpert() {
		return nil, ErrNotExpert
	}
	if len(expert.Skills) == 0 {
		return []*domain.Task{}, nil
	}

	tasks, err := s.taskStore.ListOpenForSkills(ctx, expert.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", err)
	}
	return tasks, nil
}

// Assign binds an expert to the task. An active assignment is rejected
// with ErrTaskAlreadyAssigned rather than silently rebound; only a
// rejected task may be offered to another expert.
func (s *TaskServiceImpl) Assign(
	ctx context.Context,
	posterID, taskID, expertID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if task.PosterID != posterID {
		s.logger.Debug("assign attempted by non-owner",
			"task_id", taskID,
			"user_id", posterID)
		return nil, ErrTaskNotOwned
	}

	if !task.Status.CanTransitionTo(domain.TaskStatusAssigned) {
		if task.Status.RequiresExpert() && task.Status != domain.TaskStatusRejected {
			return nil, ErrTaskAlreadyAssigned
		}
		return nil, ErrInvalidTransition
	}

	expert, err := s.userStore.GetByID(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expert: %w", err)
	}
	if !expert.IsExpert() {
		return nil, ErrNotExpert
	}
	if !expert.Available {
		return nil, ErrExpertUnavailable
	}

	now := time.Now().UTC()
	task.Status = domain.TaskStatusAssigned
	task.ExpertID = &expertID
	task.AssignedAt = &now
	task.UpdatedAt = now

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to save assignment",
			"error", err,
			"task_id", taskID,
			"expert_id", expertID)
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	s.logger.Info("task assigned",
		"task_id", taskID,
		"poster_id", posterID,
		"expert_id", expertID)

	if ev, err := events.NewTaskAssigned(posterID, expertID, task); err == nil {
		s.publisher.Publish(ctx, ev)
	}

	return task, nil
}

// UpdateStatus applies a party-requested lifecycle transition.
func (s *TaskServiceImpl) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	next domain.TaskStatus,
) (*domain.Task, error) {
	if !next.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if next == domain.TaskStatusAssigned {
		// Assignment carries an expert ID and goes through Assign.
		return nil, ErrInvalidTransition
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}

	if err := s.authorizeTransition(task, userID, next); err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(next) {
		s.logger.Debug("illegal transition requested",
			"task_id", taskID,
			"from", task.Status,
			"to", next)
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	task.Status = next
	task.UpdatedAt = now
	switch next {
	case domain.TaskStatusAccepted:
		task.AcceptedAt = &now
	case domain.TaskStatusInProgress:
		task.StartedAt = &now
	case domain.TaskStatusCompleted:
		task.CompletedAt = &now
		if task.StartedAt != nil {
			task.TotalTime = now.Sub(*task.StartedAt).Hours()
		}
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to save status update",
			"error", err,
			"task_id", taskID,
			"status", next)
		return nil, fmt.Errorf("failed to save status update: %w", err)
	}

	if next == domain.TaskStatusCompleted && task.ExpertID != nil {
		if err := s.userStore.IncrementCompletedTasks(ctx, *task.ExpertID); err != nil {
			// The transition itself succeeded; the counter is advisory.
			s.logger.Error("failed to increment completed task counter",
				"error", err,
				"expert_id", *task.ExpertID)
		}
	}

	s.logger.Info("task status updated",
		"task_id", taskID,
		"user_id", userID,
		"status", next)

	payload := map[string]any{"task_id": task.ID, "status": task.Status}
	if ev, err := events.NewTaskStatusUpdated(userID, payload); err == nil {
		s.publisher.Publish(ctx, ev)
	}

	return task, nil
}

// authorizeTransition enforces which party may request a transition.
// Cancel belongs to either party; everything else to the bound expert.
func (s *TaskServiceImpl) authorizeTransition(
	task *domain.Task,
	userID uuid.UUID,
	next domain.TaskStatus,
) error {
	if next == domain.TaskStatusCancelled {
		if !task.IsParty(userID) {
			return ErrNotTaskParty
		}
		return nil
	}
	if !task.IsBoundExpert(userID) {
		return ErrNotTaskExpert
	}
	return nil
}

// AttachReview records the poster's one-time rating of a completed task.
func (s *TaskServiceImpl) AttachReview(
	ctx context.Context,
	posterID, taskID uuid.UUID,
	rating int,
	comment string,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if task.PosterID != posterID {
		return nil, ErrTaskNotOwned
	}
	if task.Status != domain.TaskStatusCompleted {
		return nil, ErrTaskNotCompleted
	}
	if task.Review != nil {
		return nil, ErrReviewExists
	}

	review := &domain.Review{
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	task.Review = review
	task.UpdatedAt = review.CreatedAt

	if err := s.taskStore.Update(ctx, task); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		s.logger.Error("failed to save review",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.logger.Info("review attached",
		"task_id", taskID,
		"rating", rating)

	return task, nil
}
