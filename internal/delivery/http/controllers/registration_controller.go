package controllers

import (
	"log/slog"
	"net/http"

	"sporthive/internal/delivery/http/helpers"
	"sporthive/internal/domain"
)

// RegistrationSuccessResponse is the success envelope for POST /api/activities/{id}/register (201).
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationStatus is the body of GET /api/activities/{id}/register.
type RegistrationStatus struct {
	ActivityID int64 `json:"activity_id"`
	Registered bool  `json:"registered"`
}

// RegistrationStatusSuccessResponse is the success envelope for GET /api/activities/{id}/register.
type RegistrationStatusSuccessResponse struct {
	Data  RegistrationStatus `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ParticipantListSuccessResponse is the success envelope for GET /api/activities/{id}/registration.
type ParticipantListSuccessResponse struct {
	Data  []*domain.Participant `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// RegisteredActivityListSuccessResponse is the success envelope for GET /api/users/me/registrations.
type RegisteredActivityListSuccessResponse struct {
	Data  []*domain.RegisteredActivity `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for an activity
// @Description Takes a seat on a Recruiting activity. Banned users are rejected.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (activity not open for registration)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (activity full, already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id}/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	activityID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.Register(r.Context(), activityID, user)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Withdraw godoc
// @Summary Withdraw from an activity
// @Tags registrations
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (not registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id}/cancel [delete]
func (c *RegistrationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	activityID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Withdraw(r.Context(), activityID, user); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteNoContent(w)
}

// GetRegistrationStatus godoc
// @Summary Check whether the caller is registered
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 200 {object} controllers.RegistrationStatusSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id}/register [get]
func (c *RegistrationController) GetRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	activityID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), user.ID, activityID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationStatus{ActivityID: activityID, Registered: registered})
}

// ListParticipants godoc
// @Summary List participants of an activity
// @Tags registrations
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} controllers.ParticipantListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id}/registration [get]
func (c *RegistrationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	activityID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	participants, err := c.Service.ListParticipants(r.Context(), activityID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}

// ListMyRegistrations godoc
// @Summary List the caller's registered activities
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RegisteredActivityListSuccessResponse "ordered by registration time, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/me/registrations [get]
func (c *RegistrationController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	activities, err := c.Service.ListRegisteredActivities(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}
