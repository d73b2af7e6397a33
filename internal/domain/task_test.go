package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask(t *testing.T) *Task {
	t.Helper()
	task, err := NewTask(
		uuid.New(),
		"Fix the sink",
		"The kitchen sink leaks under the basin.",
		[]string{"plumbing"},
		500,
		20,
		time.Now().UTC().Add(72*time.Hour),
	)
	require.NoError(t, err)
	return task
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task := validTask(t)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Nil(t, task.ExpertID)
	assert.Nil(t, task.AssignedAt)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	posterID := uuid.New()
	timeline := time.Now().UTC().Add(24 * time.Hour)

	tests := []struct {
		name     string
		mutate   func() (*Task, error)
		wantErr  error
	}{
		{
			name: "empty title",
			mutate: func() (*Task, error) {
				return NewTask(posterID, "", "desc", []string{"a"}, 10, 1, timeline)
			},
			wantErr: ErrEmptyTitle,
		},
		{
			name: "empty description",
			mutate: func() (*Task, error) {
				return NewTask(posterID, "t", "", []string{"a"}, 10, 1, timeline)
			},
			wantErr: ErrEmptyDescription,
		},
		{
			name: "no category",
			mutate: func() (*Task, error) {
				return NewTask(posterID, "t", "d", nil, 10, 1, timeline)
			},
			wantErr: ErrEmptyCategory,
		},
		{
			name: "zero budget",
			mutate: func() (*Task, error) {
				return NewTask(posterID, "t", "d", []string{"a"}, 0, 1, timeline)
			},
			wantErr: ErrInvalidBudget,
		},
		{
			name: "negative hours",
			mutate: func() (*Task, error) {
				return NewTask(posterID, "t", "d", []string{"a"}, 10, -1, timeline)
			},
			wantErr: ErrInvalidHours,
		},
		{
			name: "zero timeline",
			mutate: func() (*Task, error) {
				return NewTask(posterID, "t", "d", []string{"a"}, 10, 1, time.Time{})
			},
			wantErr: ErrEmptyTimeline,
		},
		{
			name: "nil poster",
			mutate: func() (*Task, error) {
				return NewTask(uuid.Nil, "t", "d", []string{"a"}, 10, 1, timeline)
			},
			wantErr: ErrEmptyPosterID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := tt.mutate()
			assert.Nil(t, task)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from TaskStatus
		to   TaskStatus
		ok   bool
	}{
		{TaskStatusPending, TaskStatusAssigned, true},
		{TaskStatusPending, TaskStatusCancelled, true},
		{TaskStatusPending, TaskStatusAccepted, false},
		{TaskStatusPending, TaskStatusCompleted, false},
		{TaskStatusAssigned, TaskStatusAccepted, true},
		{TaskStatusAssigned, TaskStatusRejected, true},
		{TaskStatusAssigned, TaskStatusCancelled, true},
		{TaskStatusAssigned, TaskStatusInProgress, false},
		{TaskStatusAccepted, TaskStatusInProgress, true},
		{TaskStatusAccepted, TaskStatusCompleted, false},
		{TaskStatusAccepted, TaskStatusCancelled, true},
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusInProgress, TaskStatusCancelled, true},
		{TaskStatusInProgress, TaskStatusAccepted, false},
		{TaskStatusRejected, TaskStatusAssigned, true},
		{TaskStatusRejected, TaskStatusCancelled, true},
		{TaskStatusCompleted, TaskStatusCancelled, false},
		{TaskStatusCompleted, TaskStatusPending, false},
		{TaskStatusCancelled, TaskStatusAssigned, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, TaskStatusCompleted.IsTerminal())
	assert.True(t, TaskStatusCancelled.IsTerminal())
	assert.False(t, TaskStatusPending.IsTerminal())
	assert.False(t, TaskStatusRejected.IsTerminal())
}

func TestTaskExpertBindingInvariant(t *testing.T) {
	t.Parallel()

	expertID := uuid.New()

	t.Run("expert required once assigned", func(t *testing.T) {
		task := validTask(t)
		task.Status = TaskStatusAssigned
		assert.ErrorIs(t, task.Validate(), ErrExpertNotBound)

		task.ExpertID = &expertID
		assert.NoError(t, task.Validate())
	})

	t.Run("pending task cannot carry an expert", func(t *testing.T) {
		task := validTask(t)
		task.ExpertID = &expertID
		assert.ErrorIs(t, task.Validate(), ErrExpertBoundPending)
	})

	t.Run("cancelled task may carry either", func(t *testing.T) {
		task := validTask(t)
		task.Status = TaskStatusCancelled
		assert.NoError(t, task.Validate())

		task.ExpertID = &expertID
		assert.NoError(t, task.Validate())
	})

	t.Run("every non-pending working status requires the expert", func(t *testing.T) {
		for _, status := range []TaskStatus{
			TaskStatusAssigned,
			TaskStatusAccepted,
			TaskStatusInProgress,
			TaskStatusCompleted,
			TaskStatusRejected,
		} {
			task := validTask(t)
			task.Status = status
			assert.ErrorIs(t, task.Validate(), ErrExpertNotBound, "status %s", status)
		}
	})
}

func TestTaskReviewValidation(t *testing.T) {
	t.Parallel()

	expertID := uuid.New()

	task := validTask(t)
	task.Status = TaskStatusCompleted
	task.ExpertID = &expertID

	task.Review = &Review{Rating: 0}
	assert.ErrorIs(t, task.Validate(), ErrInvalidRating)

	task.Review = &Review{Rating: 6}
	assert.ErrorIs(t, task.Validate(), ErrInvalidRating)

	task.Review = &Review{Rating: 5, Comment: "great work", CreatedAt: time.Now().UTC()}
	assert.NoError(t, task.Validate())

	// A review on anything but a completed task is rejected.
	task.Status = TaskStatusInProgress
	assert.ErrorIs(t, task.Validate(), ErrReviewWithoutExpert)
}

func TestTaskParties(t *testing.T) {
	t.Parallel()

	task := validTask(t)
	expertID := uuid.New()
	stranger := uuid.New()

	assert.True(t, task.IsParty(task.PosterID))
	assert.False(t, task.IsParty(expertID))
	assert.False(t, task.IsBoundExpert(expertID))
	assert.Equal(t, uuid.Nil, task.OtherParty(task.PosterID))

	task.ExpertID = &expertID
	assert.True(t, task.IsParty(expertID))
	assert.True(t, task.IsBoundExpert(expertID))
	assert.False(t, task.IsBoundExpert(task.PosterID))
	assert.Equal(t, expertID, task.OtherParty(task.PosterID))
	assert.Equal(t, task.PosterID, task.OtherParty(expertID))
	assert.Equal(t, uuid.Nil, task.OtherParty(stranger))
}
