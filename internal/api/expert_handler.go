package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskbooking/taskbooking-api/internal/service"
)

// ExpertHandler handles expert discovery and profile API requests.
type ExpertHandler struct {
	expertService service.ExpertService
	validator     *validator.Validate
}

// NewExpertHandler creates a new ExpertHandler with the given dependencies.
func NewExpertHandler(expertService service.ExpertService) *ExpertHandler {
	return &ExpertHandler{
		expertService: expertService,
		validator:     validator.New(),
	}
}

// ListAvailable handles GET /experts/available.
func (h *ExpertHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	experts, err := h.expertService.ListAvailable(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, experts)
}

// Profile handles GET /experts/{id}.
func (h *ExpertHandler) Profile(w http.ResponseWriter, r *http.Request) {
	_, expertID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.expertService.Profile(r.Context(), expertID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, profile)
}

// SetAvailability handles PATCH /experts/availability.
func (h *ExpertHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SetAvailabilityRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	expert, err := h.expertService.SetAvailability(r.Context(), userID, *req.Available)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, expert)
}

// UpdateProfile handles PATCH /experts/profile.
func (h *ExpertHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	expert, err := h.expertService.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Bio:        req.Bio,
		Avatar:     req.Avatar,
		HourlyRate: req.HourlyRate,
		Skills:     req.Skills,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, expert)
}
