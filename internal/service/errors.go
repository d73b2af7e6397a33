// Package service implements the application's business operations on
// top of the store interfaces: task lifecycle management, chat, and
// expert discovery. Services enforce role and ownership rules and emit
// best-effort events for the relay; stores remain the source of truth.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotPoster indicates an operation reserved for posters was attempted
	// by a non-poster. API layer should map this to HTTP 403 Forbidden.
	ErrNotPoster = errors.New("operation requires the poster role")

	// ErrNotExpert indicates an operation reserved for experts was attempted
	// by a non-expert. API layer should map this to HTTP 403 Forbidden.
	ErrNotExpert = errors.New("operation requires the expert role")

	// ErrTaskNotOwned indicates the caller is not the poster of the task.
	// API layer should map this to HTTP 403 Forbidden.
	ErrTaskNotOwned = errors.New("task is owned by another poster")

	// ErrNotTaskExpert indicates the caller is not the task's bound expert.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotTaskExpert = errors.New("task is bound to another expert")

	// ErrNotTaskParty indicates the caller is neither the task's poster nor
	// its bound expert. API layer should map this to HTTP 403 Forbidden.
	ErrNotTaskParty = errors.New("caller is not a party to the task")

	// ErrTaskAlreadyAssigned indicates an assign on a task that already has
	// an active assignment. Re-assignment is only legal after a rejection.
	// API layer should map this to HTTP 409 Conflict.
	ErrTaskAlreadyAssigned = errors.New("task is already assigned")

	// ErrExpertUnavailable indicates the target expert is not accepting
	// assignments. API layer should map this to HTTP 409 Conflict.
	ErrExpertUnavailable = errors.New("expert is not available")

	// ErrInvalidTransition indicates the requested status change is not in
	// the lifecycle transition table. API layer should map this to HTTP
	// 409 Conflict.
	ErrInvalidTransition = errors.New("illegal task status transition")

	// ErrChatClosed indicates the task is not in a state that permits chat.
	// Chat is open while the task is accepted or in progress.
	// API layer should map this to HTTP 403 Forbidden.
	ErrChatClosed = errors.New("chat is not open for this task")

	// ErrReviewExists indicates the task already carries a review.
	// API layer should map this to HTTP 409 Conflict.
	ErrReviewExists = errors.New("task already has a review")

	// ErrTaskNotCompleted indicates a review was attempted on a task that
	// is not completed. API layer should map this to HTTP 409 Conflict.
	ErrTaskNotCompleted = errors.New("task is not completed")
)
