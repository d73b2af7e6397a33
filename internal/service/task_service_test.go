package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/events"
	"github.com/taskbooking/taskbooking-api/internal/mocks"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type taskServiceFixture struct {
	users     *mocks.MockUserStore
	tasks     *mocks.MockTaskStore
	publisher *mocks.CapturePublisher
	svc       *TaskServiceImpl
	poster    *domain.User
	expert    *domain.User
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	publisher := mocks.NewCapturePublisher()

	poster, err := domain.NewUser("Pat Poster", "pat@example.com", "password123", domain.RolePoster)
	require.NoError(t, err)
	expert, err := domain.NewUser("Eve Expert", "eve@example.com", "password123", domain.RoleExpert)
	require.NoError(t, err)
	expert.Skills = []string{"plumbing", "electrical"}
	expert.Available = true

	require.NoError(t, users.Create(context.Background(), poster))
	require.NoError(t, users.Create(context.Background(), expert))

	return &taskServiceFixture{
		users:     users,
		tasks:     tasks,
		publisher: publisher,
		svc:       NewTaskService(tasks, users, publisher, testLogger()),
		poster:    poster,
		expert:    expert,
	}
}

func validInput() CreateTaskInput {
	return CreateTaskInput{
		Title:          "Fix the kitchen sink",
		Description:    "Leaking trap under the sink",
		Category:       []string{"plumbing"},
		Budget:         500,
		EstimatedHours: 20,
		Timeline:       time.Now().Add(7 * 24 * time.Hour),
	}
}

func (f *taskServiceFixture) createTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), f.poster.ID, validInput())
	require.NoError(t, err)
	return task
}

func (f *taskServiceFixture) assignTask(t *testing.T) *domain.Task {
	t.Helper()
	task := f.createTask(t)
	assigned, err := f.svc.Assign(context.Background(), f.poster.ID, task.ID, f.expert.ID)
	require.NoError(t, err)
	return assigned
}

func TestTaskServiceCreate(t *testing.T) {
	f := newTaskServiceFixture(t)

	task := f.createTask(t)

	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, f.poster.ID, task.PosterID)
	assert.Nil(t, task.ExpertID)
}

func TestTaskServiceCreateRejectsExpert(t *testing.T) {
	f := newTaskServiceFixture(t)

	_, err := f.svc.Create(context.Background(), f.expert.ID, validInput())
	assert.ErrorIs(t, err, ErrNotPoster)
}

func TestTaskServiceCreateValidatesInput(t *testing.T) {
	f := newTaskServiceFixture(t)

	input := validInput()
	input.Budget = 0

	_, err := f.svc.Create(context.Background(), f.poster.ID, input)
	assert.ErrorIs(t, err, domain.ErrInvalidBudget)
}

func TestTaskServiceAssign(t *testing.T) {
	f := newTaskServiceFixture(t)

	task := f.assignTask(t)

	assert.Equal(t, domain.TaskStatusAssigned, task.Status)
	require.NotNil(t, task.ExpertID)
	assert.Equal(t, f.expert.ID, *task.ExpertID)
	assert.NotNil(t, task.AssignedAt)

	ev := f.publisher.LastOfType(events.TypeTaskAssigned)
	require.NotNil(t, ev)
	assert.Equal(t, f.expert.ID, ev.TargetID)
	assert.Equal(t, f.poster.ID, ev.SenderID)
}

func TestTaskServiceAssignRejectsRebind(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.assignTask(t)

	rival, err := domain.NewUser("Rex Rival", "rex@example.com", "password123", domain.RoleExpert)
	require.NoError(t, err)
	rival.Available = true
	require.NoError(t, f.users.Create(context.Background(), rival))

	_, err = f.svc.Assign(context.Background(), f.poster.ID, task.ID, rival.ID)
	assert.ErrorIs(t, err, ErrTaskAlreadyAssigned)
}

func TestTaskServiceAssignAfterRejection(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.assignTask(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.expert.ID, task.ID, domain.TaskStatusRejected)
	require.NoError(t, err)

	rival, err := domain.NewUser("Rex Rival", "rex@example.com", "password123", domain.RoleExpert)
	require.NoError(t, err)
	rival.Available = true
	require.NoError(t, f.users.Create(context.Background(), rival))

	reassigned, err := f.svc.Assign(context.Background(), f.poster.ID, task.ID, rival.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusAssigned, reassigned.Status)
	assert.Equal(t, rival.ID, *reassigned.ExpertID)
}

func TestTaskServiceAssignAuthorization(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.createTask(t)

	t.Run("non-owner", func(t *testing.T) {
		_, err := f.svc.Assign(context.Background(), f.expert.ID, task.ID, f.expert.ID)
		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})

	t.Run("target not an expert", func(t *testing.T) {
		_, err := f.svc.Assign(context.Background(), f.poster.ID, task.ID, f.poster.ID)
		assert.ErrorIs(t, err, ErrNotExpert)
	})

	t.Run("unavailable expert", func(t *testing.T) {
		f.expert.Available = false
		require.NoError(t, f.users.Update(context.Background(), f.expert))
		_, err := f.svc.Assign(context.Background(), f.poster.ID, task.ID, f.expert.ID)
		assert.ErrorIs(t, err, ErrExpertUnavailable)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := f.svc.Assign(context.Background(), f.poster.ID, uuid.New(), f.expert.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceUpdateStatusAuthorization(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.assignTask(t)

	t.Run("poster cannot accept", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(context.Background(), f.poster.ID, task.ID, domain.TaskStatusAccepted)
		assert.ErrorIs(t, err, ErrNotTaskExpert)
	})

	t.Run("outsider cannot cancel", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), task.ID, domain.TaskStatusCancelled)
		assert.ErrorIs(t, err, ErrNotTaskParty)
	})

	t.Run("assigned is not reachable directly", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(context.Background(), f.poster.ID, task.ID, domain.TaskStatusAssigned)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestTaskServiceUpdateStatusIllegalTransition(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.assignTask(t)

	// assigned -> completed skips accept and start.
	_, err := f.svc.UpdateStatus(context.Background(), f.expert.ID, task.ID, domain.TaskStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTaskServiceCancelByEitherParty(t *testing.T) {
	tests := []struct {
		name string
		who  func(f *taskServiceFixture) uuid.UUID
	}{
		{name: "poster", who: func(f *taskServiceFixture) uuid.UUID { return f.poster.ID }},
		{name: "expert", who: func(f *taskServiceFixture) uuid.UUID { return f.expert.ID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskServiceFixture(t)
			task := f.assignTask(t)

			cancelled, err := f.svc.UpdateStatus(context.Background(), tt.who(f), task.ID, domain.TaskStatusCancelled)
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStatusCancelled, cancelled.Status)
		})
	}
}

func TestTaskServiceCancelCompletedRejected(t *testing.T) {
	f := newTaskServiceFixture(t)
	task := f.assignTask(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.expert.ID, task.ID, domain.TaskStatusAccepted)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), f.expert.ID, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), f.expert.ID, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.poster.ID, task.ID, domain.TaskStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTaskServiceFullLifecycle(t *testing.T) {
	f := newTaskServiceFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.poster.ID, validInput())
	require.NoError(t, err)
	assert.Equal(t, float64(500), task.Budget)
	assert.Equal(t, float64(20), task.EstimatedHours)

	task, err = f.svc.Assign(ctx, f.poster.ID, task.ID, f.expert.ID)
	require.NoError(t, err)
	require.NotNil(t, task.AssignedAt)

	task, err = f.svc.UpdateStatus(ctx, f.expert.ID, task.ID, domain.TaskStatusAccepted)
	require.NoError(t, err)
	require.NotNil(t, task.AcceptedAt)

	task, err = f.svc.UpdateStatus(ctx, f.expert.ID, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, task.StartedAt)

	task, err = f.svc.UpdateStatus(ctx, f.expert.ID, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)

	// Completing increments the expert's counter.
	expert, err := f.users.GetByID(ctx, f.expert.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, expert.CompletedTasks)

	task, err = f.svc.AttachReview(ctx, f.poster.ID, task.ID, 5, "great work")
	require.NoError(t, err)
	require.NotNil(t, task.Review)
	assert.Equal(t, 5, task.Review.Rating)

	ev := f.publisher.LastOfType(events.TypeTaskStatusUpdated)
	require.NotNil(t, ev)
	assert.Equal(t, f.expert.ID, ev.SenderID)
}

func TestTaskServiceAttachReview(t *testing.T) {
	f := newTaskServiceFixture(t)
	ctx := context.Background()
	task := f.assignTask(t)

	t.Run("not completed", func(t *testing.T) {
		_, err := f.svc.AttachReview(ctx, f.poster.ID, task.ID, 4, "")
		assert.ErrorIs(t, err, ErrTaskNotCompleted)
	})

	for _, status := range []domain.TaskStatus{
		domain.TaskStatusAccepted,
		domain.TaskStatusInProgress,
		domain.TaskStatusCompleted,
	} {
		_, err := f.svc.UpdateStatus(ctx, f.expert.ID, task.ID, status)
		require.NoError(t, err)
	}

	t.Run("non-owner", func(t *testing.T) {
		_, err := f.svc.AttachReview(ctx, f.expert.ID, task.ID, 4, "")
		assert.ErrorIs(t, err, ErrTaskNotOwned)
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, err := f.svc.AttachReview(ctx, f.poster.ID, task.ID, 6, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	})

	t.Run("first review sticks, second conflicts", func(t *testing.T) {
		_, err := f.svc.AttachReview(ctx, f.poster.ID, task.ID, 4, "solid")
		require.NoError(t, err)
		_, err = f.svc.AttachReview(ctx, f.poster.ID, task.ID, 5, "again")
		assert.ErrorIs(t, err, ErrReviewExists)
	})
}

func TestTaskServiceListMine(t *testing.T) {
	f := newTaskServiceFixture(t)
	ctx := context.Background()
	task := f.assignTask(t)

	posterTasks, err := f.svc.ListMine(ctx, f.poster.ID)
	require.NoError(t, err)
	require.Len(t, posterTasks, 1)
	assert.Equal(t, task.ID, posterTasks[0].ID)

	expertTasks, err := f.svc.ListMine(ctx, f.expert.ID)
	require.NoError(t, err)
	require.Len(t, expertTasks, 1)
	assert.Equal(t, task.ID, expertTasks[0].ID)
}

func TestTaskServiceListOpen(t *testing.T) {
	f := newTaskServiceFixture(t)
	ctx := context.Background()
	task := f.createTask(t)

	t.Run("matching skills", func(t *testing.T) {
		open, err := f.svc.ListOpen(ctx, f.expert.ID)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, task.ID, open[0].ID)
	})

	t.Run("poster rejected", func(t *testing.T) {
		_, err := f.svc.ListOpen(ctx, f.poster.ID)
		assert.ErrorIs(t, err, ErrNotExpert)
	})

	t.Run("no skills means no matches", func(t *testing.T) {
		f.expert.Skills = nil
		require.NoError(t, f.users.Update(ctx, f.expert))
		open, err := f.svc.ListOpen(ctx, f.expert.ID)
		require.NoError(t, err)
		assert.Empty(t, open)
	})
}
