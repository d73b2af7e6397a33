package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taskbooking/taskbooking-api/internal/api/shared"
	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/service"
	"github.com/taskbooking/taskbooking-api/internal/service/auth"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotPoster),
		errors.Is(err, service.ErrNotExpert),
		errors.Is(err, service.ErrTaskNotOwned),
		errors.Is(err, service.ErrNotTaskExpert),
		errors.Is(err, service.ErrNotTaskParty),
		errors.Is(err, service.ErrChatClosed),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrMessageNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrTaskAlreadyAssigned),
		errors.Is(err, service.ErrExpertUnavailable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrReviewExists),
		errors.Is(err, service.ErrTaskNotCompleted):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// isDomainValidationError reports whether the error is one of the
// domain's structural validation sentinels.
func isDomainValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrInvalidID,
		domain.ErrInvalidEmail,
		domain.ErrInvalidRole,
		domain.ErrInvalidStatus,
		domain.ErrInvalidRating,
		domain.ErrEmptyContent,
		domain.ErrEmptyTitle,
		domain.ErrEmptyDescription,
		domain.ErrEmptyCategory,
		domain.ErrInvalidBudget,
		domain.ErrInvalidHours,
		domain.ErrEmptyTimeline,
		domain.ErrSelfMessage,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, service.ErrNotPoster):
		return "Only posters can perform this action"

	case errors.Is(err, service.ErrNotExpert):
		return "Only experts can perform this action"

	case errors.Is(err, service.ErrTaskNotOwned):
		return "You do not own this task"

	case errors.Is(err, service.ErrNotTaskExpert):
		return "You are not the expert assigned to this task"

	case errors.Is(err, service.ErrNotTaskParty):
		return "You are not a party to this task"

	case errors.Is(err, service.ErrChatClosed):
		return "Chat is not open for this task"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrMessageNotFound):
		return "Message not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrTaskAlreadyAssigned):
		return "Task is already assigned"

	case errors.Is(err, service.ErrExpertUnavailable):
		return "Expert is not available"

	case errors.Is(err, service.ErrInvalidTransition):
		return "Illegal task status transition"

	case errors.Is(err, service.ErrReviewExists):
		return "Task already has a review"

	case errors.Is(err, service.ErrTaskNotCompleted):
		return "Task is not completed"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case isDomainValidationError(err):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError maps a service error to a status code and a safe
// message and writes the response, logging the underlying error.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt":
		return "must be greater than zero"
	default:
		return "validation failed"
	}
}
