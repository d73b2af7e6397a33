package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task lifecycle states. The happy path runs
// pending -> assigned -> accepted -> in-progress -> completed,
// with rejected as a side exit from assigned and cancelled reachable
// from any non-terminal state.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusAccepted   TaskStatus = "accepted"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusRejected   TaskStatus = "rejected"
)

// taskTransitions is the legal transition table. A rejected task may be
// re-assigned to another expert; completed and cancelled are terminal.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusAssigned, TaskStatusCancelled},
	TaskStatusAssigned:   {TaskStatusAccepted, TaskStatusRejected, TaskStatusCancelled},
	TaskStatusAccepted:   {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusRejected:   {TaskStatusAssigned, TaskStatusCancelled},
	TaskStatusCompleted:  {},
	TaskStatusCancelled:  {},
}

// IsValid reports whether the status is a known value.
func (s TaskStatus) IsValid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s TaskStatus) IsTerminal() bool {
	return len(taskTransitions[s]) == 0
}

// CanTransitionTo reports whether a transition from s to next is legal.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, t := range taskTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// expertBoundStatuses are the states in which a task must have an expert
// bound. A cancelled task may or may not carry one, depending on when the
// cancellation happened.
var expertBoundStatuses = map[TaskStatus]bool{
	TaskStatusAssigned:   true,
	TaskStatusAccepted:   true,
	TaskStatusInProgress: true,
	TaskStatusCompleted:  true,
	TaskStatusRejected:   true,
}

// RequiresExpert reports whether a task in this status must have an
// expert bound to it.
func (s TaskStatus) RequiresExpert() bool {
	return expertBoundStatuses[s]
}

// Task validation errors.
var (
	ErrEmptyTaskID         = errors.New("task ID cannot be empty")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrEmptyDescription    = errors.New("description cannot be empty")
	ErrEmptyCategory       = errors.New("category cannot be empty")
	ErrInvalidBudget       = errors.New("budget must be greater than zero")
	ErrInvalidHours        = errors.New("estimated hours must be greater than zero")
	ErrEmptyTimeline       = errors.New("timeline must be set")
	ErrEmptyPosterID       = errors.New("poster ID cannot be empty")
	ErrExpertNotBound      = errors.New("status requires a bound expert")
	ErrExpertBoundPending  = errors.New("pending task cannot have a bound expert")
	ErrReviewWithoutExpert = errors.New("review requires a completed task")
)

// Attachment is file metadata carried on a task or message. The file
// itself lives in external storage; only the reference is persisted.
type Attachment struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// Review is the poster's rating of a completed task.
type Review struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the review rating bounds.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// Task is a unit of work posted by a poster and performed by an expert.
// Tasks are never deleted; they only move through the status lifecycle.
type Task struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Category       []string     `json:"category"`
	Budget         float64      `json:"budget"`
	EstimatedHours float64      `json:"estimated_hours"`
	Timeline       time.Time    `json:"timeline"`
	Status         TaskStatus   `json:"status"`
	PosterID       uuid.UUID    `json:"poster_id"`
	ExpertID       *uuid.UUID   `json:"expert_id,omitempty"`
	AssignedAt     *time.Time   `json:"assigned_at,omitempty"`
	AcceptedAt     *time.Time   `json:"accepted_at,omitempty"`
	StartedAt      *time.Time   `json:"started_at,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	TotalTime      float64      `json:"total_time"`
	Attachments    []Attachment `json:"attachments"`
	Review         *Review      `json:"review,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewTask creates a pending task owned by the given poster.
func NewTask(
	posterID uuid.UUID,
	title, description string,
	category []string,
	budget, estimatedHours float64,
	timeline time.Time,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Category:       category,
		Budget:         budget,
		EstimatedHours: estimatedHours,
		Timeline:       timeline,
		Status:         TaskStatusPending,
		PosterID:       posterID,
		Attachments:    []Attachment{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks structural validity and the expert-binding invariant:
// a task has an expert bound if and only if its status requires one
// (cancelled tasks may carry either).
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if len(t.Category) == 0 {
		return ErrEmptyCategory
	}
	if t.Budget <= 0 {
		return ErrInvalidBudget
	}
	if t.EstimatedHours <= 0 {
		return ErrInvalidHours
	}
	if t.Timeline.IsZero() {
		return ErrEmptyTimeline
	}
	if t.PosterID == uuid.Nil {
		return ErrEmptyPosterID
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	bound := t.ExpertID != nil && *t.ExpertID != uuid.Nil
	if t.Status.RequiresExpert() && !bound {
		return ErrExpertNotBound
	}
	if t.Status == TaskStatusPending && bound {
		return ErrExpertBoundPending
	}

	if t.Review != nil {
		if t.Status != TaskStatusCompleted {
			return ErrReviewWithoutExpert
		}
		if err := t.Review.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// IsParty reports whether the given user is the task's poster or its
// bound expert.
func (t *Task) IsParty(userID uuid.UUID) bool {
	if t.PosterID == userID {
		return true
	}
	return t.ExpertID != nil && *t.ExpertID == userID
}

// IsBoundExpert reports whether the given user is the task's bound expert.
func (t *Task) IsBoundExpert(userID uuid.UUID) bool {
	return t.ExpertID != nil && *t.ExpertID == userID
}

// OtherParty returns the counterpart of the given party: the expert for
// the poster and vice versa. Returns uuid.Nil if no expert is bound or
// the user is not a party.
func (t *Task) OtherParty(userID uuid.UUID) uuid.UUID {
	if t.ExpertID == nil {
		return uuid.Nil
	}
	switch userID {
	case t.PosterID:
		return *t.ExpertID
	case *t.ExpertID:
		return t.PosterID
	}
	return uuid.Nil
}
