package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

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

// CreateRegistrationRequest is the request body for POST /registrations.
type CreateRegistrationRequest struct {
	EventID    string   `json:"event_id"`
	AttendeeID string   `json:"attendee_id"`
	AmountPaid *float64 `json:"amount_paid,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateRegistrationRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	if !uuidRegex.MatchString(r.AttendeeID) {
		errs = append(errs, "attendee_id must be a valid UUID")
	}
	if r.AmountPaid != nil && *r.AmountPaid < 0 {
		errs = append(errs, "amount_paid cannot be negative")
	}
	return errs
}

// Create godoc
// @Summary Register an attendee for an event
// @Description Creates a confirmed registration if the event is active, upcoming, not full, and the attendee holds no active registration for it. amount_paid defaults to the event price.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateRegistrationRequest true "Registration"
// @Success 201 {object} helpers.APIResponse "data is the created Registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict or capacity_exceeded"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /registrations [post]
func (c *RegistrationController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Service.Register(r.Context(), req.EventID, req.AttendeeID, req.AmountPaid)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// List godoc
// @Summary List registrations
// @Description Lists registrations, optionally filtered by status.
// @Tags registrations
// @Produce json
// @Param status query string false "Registration status (confirmed, cancelled, attended, no_show)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Router /registrations [get]
func (c *RegistrationController) List(w http.ResponseWriter, r *http.Request) {
	var (
		regs []*domain.Registration
		err  error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		status, ok := domain.ParseRegistrationStatus(s)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		regs, err = c.Service.ListByStatus(r.Context(), status)
	} else {
		regs, err = c.Service.List(r.Context())
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// Get godoc
// @Summary Get a registration by ID
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /registrations/{id} [get]
func (c *RegistrationController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	reg, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// GetByCode godoc
// @Summary Get a registration by attendance code
// @Tags registrations
// @Produce json
// @Param code path string true "Attendance code"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /registrations/code/{code} [get]
func (c *RegistrationController) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing code")
		return
	}
	reg, err := c.Service.GetByCode(r.Context(), code)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListByEvent godoc
// @Summary List registrations for an event
// @Description Lists an event's registrations, optionally filtered by status.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param status query string false "Registration status"
// @Success 200 {object} helpers.APIResponse
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var (
		regs []*domain.Registration
		err  error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		status, valid := domain.ParseRegistrationStatus(s)
		if !valid {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		regs, err = c.Service.ListByEventAndStatus(r.Context(), eventID, status)
	} else {
		regs, err = c.Service.ListByEvent(r.Context(), eventID)
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListActiveByEvent godoc
// @Summary List active registrations for an event
// @Description Lists confirmed and attended registrations for the event.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Router /events/{eventID}/registrations/active [get]
func (c *RegistrationController) ListActiveByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	regs, err := c.Service.ListActiveByEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// CountConfirmedResponse is the data payload for the confirmed-count endpoint.
type CountConfirmedResponse struct {
	EventID string `json:"event_id"`
	Count   int64  `json:"count"`
}

// CountByEvent godoc
// @Summary Count confirmed registrations for an event
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event_id and count"
// @Router /events/{eventID}/registrations/count [get]
func (c *RegistrationController) CountByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	count, err := c.Service.CountConfirmedByEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CountConfirmedResponse{EventID: eventID, Count: count})
}

// ListByAttendee godoc
// @Summary List registrations for an attendee
// @Description Lists an attendee's registrations, optionally filtered by status.
// @Tags registrations
// @Produce json
// @Param attendeeID path string true "Attendee ID (UUID)"
// @Param status query string false "Registration status"
// @Success 200 {object} helpers.APIResponse
// @Router /attendees/{attendeeID}/registrations [get]
func (c *RegistrationController) ListByAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := pathUUID(w, r, "attendeeID")
	if !ok {
		return
	}
	var (
		regs []*domain.Registration
		err  error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		status, valid := domain.ParseRegistrationStatus(s)
		if !valid {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		regs, err = c.Service.ListByAttendeeAndStatus(r.Context(), attendeeID, status)
	} else {
		regs, err = c.Service.ListByAttendee(r.Context(), attendeeID)
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// CheckIn godoc
// @Summary Check in a registration
// @Description Marks a confirmed registration as attended and stamps the check-in time.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /registrations/{id}/checkin [patch]
func (c *RegistrationController) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	reg, err := c.Service.CheckIn(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// CheckInByCode godoc
// @Summary Check in a registration by attendance code
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param code path string true "Attendance code"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /registrations/code/{code}/checkin [patch]
func (c *RegistrationController) CheckInByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing code")
		return
	}
	reg, err := c.Service.CheckInByCode(r.Context(), code)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Cancels a registration that has not attended and stamps the cancellation time.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /registrations/{id}/cancel [patch]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	reg, err := c.Service.Cancel(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// MarkNoShow godoc
// @Summary Mark a registration as no-show
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /registrations/{id}/no-show [patch]
func (c *RegistrationController) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	reg, err := c.Service.MarkNoShow(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Delete godoc
// @Summary Delete a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse
// @Router /registrations/{id} [delete]
func (c *RegistrationController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
