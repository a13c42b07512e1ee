package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sporthive/internal/delivery/http/helpers"
	"sporthive/internal/domain"
)

// CreateActivityRequest is the request body for POST /api/activities.
type CreateActivityRequest struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Capacity    int       `json:"capacity"`
}

// Validate implements Validator. Returns error messages for required fields.
func (c CreateActivityRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.StartTime.IsZero() {
		errs = append(errs, "start_time is required")
	}
	if c.EndTime.IsZero() {
		errs = append(errs, "end_time is required")
	}
	if c.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive integer")
	}
	return errs
}

// UpdateActivityRequest is the request body for PUT /api/activities/{id}. Omitted fields are unchanged.
type UpdateActivityRequest struct {
	Name        *string    `json:"name"`
	Type        *string    `json:"type"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Capacity    *int       `json:"capacity"`
}

// Validate implements Validator.
func (u UpdateActivityRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if u.Capacity != nil && *u.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive integer")
	}
	return errs
}

// ActivitySuccessResponse is the success envelope for endpoints returning one activity.
type ActivitySuccessResponse struct {
	Data  *domain.Activity  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ActivityListSuccessResponse is the success envelope for endpoints returning a list of activities.
type ActivityListSuccessResponse struct {
	Data  []*domain.Activity `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type ActivityController struct {
	Logger  *slog.Logger
	Service domain.ActivityService
}

func NewActivityController(logger *slog.Logger, svc domain.ActivityService) *ActivityController {
	return &ActivityController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateActivity godoc
// @Summary Create an activity
// @Description Standard users create Pending activities that wait for review; Manager and above publish directly as Recruiting.
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param activity body CreateActivityRequest true "Activity data"
// @Success 201 {object} controllers.ActivitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities [post]
func (c *ActivityController) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	activity, err := c.Service.Create(r.Context(), &domain.NewActivityInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}, user)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, activity)
}

// ListActivities godoc
// @Summary List activities
// @Tags activities
// @Produce json
// @Success 200 {object} controllers.ActivityListSuccessResponse "ordered by start_time descending"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities [get]
func (c *ActivityController) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := c.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// SearchActivities godoc
// @Summary Search activities
// @Description searchText matches name or description and overrides name/description filters. type is an exact match and always applies.
// @Tags activities
// @Produce json
// @Param searchText query string false "Free text over name and description"
// @Param name query string false "Substring of the name"
// @Param description query string false "Substring of the description"
// @Param type query string false "Exact activity type"
// @Success 200 {object} controllers.ActivityListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/search [get]
func (c *ActivityController) SearchActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := c.Service.Search(r.Context(), helpers.ParseActivityQuery(r))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// GetActivity godoc
// @Summary Get an activity by ID
// @Tags activities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} controllers.ActivitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id} [get]
func (c *ActivityController) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	activity, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// ListOrganizerActivities godoc
// @Summary List activities organized by a user
// @Tags activities
// @Produce json
// @Param id path int true "Organizer user ID"
// @Success 200 {object} controllers.ActivityListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/{id}/activities [get]
func (c *ActivityController) ListOrganizerActivities(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	activities, err := c.Service.ListByOrganizerID(r.Context(), organizerID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activities)
}

// UpdateActivity godoc
// @Summary Update an activity
// @Description Only the organizer may edit. Any edit by a non-privileged organizer sends the activity back to Pending for review.
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Param activity body UpdateActivityRequest true "Fields to change"
// @Success 200 {object} controllers.ActivitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id} [put]
func (c *ActivityController) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateActivityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	activity, err := c.Service.Update(r.Context(), id, &domain.ActivityUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}, user)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// ApproveActivity godoc
// @Summary Approve a pending activity
// @Description Manager and above move a Pending activity to Recruiting.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 200 {object} controllers.ActivitySuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id}/pass [put]
func (c *ActivityController) ApproveActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	activity, err := c.Service.Approve(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, activity)
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Description Allowed for the organizer and for Manager and above. Registrations are removed with the activity.
// @Tags activities
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities/{id} [delete]
func (c *ActivityController) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id, user); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteNoContent(w)
}
