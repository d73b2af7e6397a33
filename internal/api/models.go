package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=poster expert"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// User is the authenticated account. Password fields never serialize.
	User *domain.User `json:"user"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title          string    `json:"title"           validate:"required,min=1,max=200"`
	Description    string    `json:"description"     validate:"required,min=1"`
	Category       []string  `json:"category"        validate:"required,min=1,dive,required"`
	Budget         float64   `json:"budget"          validate:"required,gt=0"`
	EstimatedHours float64   `json:"estimated_hours" validate:"required,gt=0"`
	Timeline       time.Time `json:"timeline"        validate:"required"`
}

// UpdateTaskStatusRequest defines the payload for lifecycle transitions.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected in-progress completed cancelled"`
}

// AssignTaskRequest defines the payload for assigning an expert.
type AssignTaskRequest struct {
	ExpertID uuid.UUID `json:"expert_id" validate:"required"`
}

// ReviewRequest defines the payload for reviewing a completed task.
type ReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SendMessageRequest defines the payload for sending a chat message.
type SendMessageRequest struct {
	Content    string             `json:"content" validate:"required,min=1,max=5000"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
}

// SetAvailabilityRequest defines the payload for toggling availability.
type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// UpdateProfileRequest defines the payload for expert profile updates.
// Absent fields leave the stored values untouched.
type UpdateProfileRequest struct {
	Bio        *string  `json:"bio,omitempty"         validate:"omitempty,max=2000"`
	Avatar     *string  `json:"avatar,omitempty"      validate:"omitempty,url"`
	HourlyRate *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Skills     []string `json:"skills,omitempty"      validate:"omitempty,dive,required"`
}
