package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/events"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// ExpertProfile is an expert together with their completed past
// projects, as shown on the public profile page.
type ExpertProfile struct {
	Expert       *domain.User   `json:"expert"`
	PastProjects []*domain.Task `json:"past_projects"`
}

// UpdateProfileInput carries the expert-editable profile fields. Nil
// pointers leave the stored value untouched; only these fields can be
// changed through the profile endpoint.
type UpdateProfileInput struct {
	Bio        *string
	Avatar     *string
	HourlyRate *float64
	Skills     []string
}

// ExpertService provides expert discovery and profile management.
type ExpertService interface {
	// ListAvailable returns all experts currently accepting assignments,
	// best rated first.
	ListAvailable(ctx context.Context) ([]*domain.User, error)

	// Profile returns an expert's profile with their completed projects.
	Profile(ctx context.Context, expertID uuid.UUID) (*ExpertProfile, error)

	// SetAvailability toggles the calling expert's availability flag and
	// broadcasts the change.
	SetAvailability(ctx context.Context, expertID uuid.UUID, available bool) (*domain.User, error)

	// UpdateProfile updates the calling expert's editable profile fields.
	UpdateProfile(ctx context.Context, expertID uuid.UUID, input UpdateProfileInput) (*domain.User, error)
}

// ExpertServiceImpl implements the ExpertService interface.
type ExpertServiceImpl struct {
	userStore store.UserStore
	taskStore store.TaskStore
	publisher events.Publisher
	logger    *slog.Logger
}

var _ ExpertService = (*ExpertServiceImpl)(nil)

// NewExpertService creates a new ExpertService.
func NewExpertService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	publisher events.Publisher,
	logger *slog.Logger,
) *ExpertServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ExpertServiceImpl{
		userStore: userStore,
		taskStore: taskStore,
		publisher: publisher,
		logger:    logger.With("component", "expert_service"),
	}
}

// ListAvailable returns experts accepting assignments.
func (s *ExpertServiceImpl) ListAvailable(ctx context.Context) ([]*domain.User, error) {
	experts, err := s.userStore.ListAvailableExperts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available experts: %w", err)
	}
	return experts, nil
}

// Profile returns the expert's profile and completed past projects.
func (s *ExpertServiceImpl) Profile(ctx context.Context, expertID uuid.UUID) (*ExpertProfile, error) {
	expert, err := s.userStore.GetByID(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expert: %w", err)
	}
	if !expert.IsExpert() {
		return nil, ErrNotExpert
	}

	projects, err := s.taskStore.ListCompletedByExpert(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to list past projects: %w", err)
	}

	return &ExpertProfile{Expert: expert, PastProjects: projects}, nil
}

// SetAvailability toggles the expert's availability flag.
func (s *ExpertServiceImpl) SetAvailability(
	ctx context.Context,
	expertID uuid.UUID,
	available bool,
) (*domain.User, error) {
	expert, err := s.userStore.GetByID(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expert: %w", err)
	}
	if !expert.IsExpert() {
		return nil, ErrNotExpert
	}

	expert.Available = available
	expert.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, expert); err != nil {
		s.logger.Error("failed to save availability",
			"error", err,
			"expert_id", expertID)
		return nil, fmt.Errorf("failed to save availability: %w", err)
	}

	s.logger.Info("expert availability changed",
		"expert_id", expertID,
		"available", available)

	payload := map[string]any{"expert_id": expertID, "available": available}
	if ev, err := events.NewAvailabilityChanged(expertID, payload); err == nil {
		s.publisher.Publish(ctx, ev)
	}

	return expert, nil
}

// UpdateProfile applies the allow-listed profile changes.
func (s *ExpertServiceImpl) UpdateProfile(
	ctx context.Context,
	expertID uuid.UUID,
	input UpdateProfileInput,
) (*domain.User, error) {
	expert, err := s.userStore.GetByID(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expert: %w", err)
	}
	if !expert.IsExpert() {
		return nil, ErrNotExpert
	}

	if input.Bio != nil {
		expert.Bio = *input.Bio
	}
	if input.Avatar != nil {
		expert.Avatar = *input.Avatar
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			return nil, domain.NewValidationError("hourly_rate", "must not be negative", domain.ErrValidation)
		}
		expert.HourlyRate = *input.HourlyRate
	}
	if input.Skills != nil {
		expert.Skills = input.Skills
	}
	expert.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, expert); err != nil {
		s.logger.Error("failed to save profile",
			"error", err,
			"expert_id", expertID)
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("expert profile updated", "expert_id", expertID)

	return expert, nil
}
