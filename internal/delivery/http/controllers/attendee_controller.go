package controllers

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateAttendeeRequest is the request body for POST /attendees.
type CreateAttendeeRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	IdentityDocument string  `json:"identity_document"`
	Phone            *string `json:"phone,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateAttendeeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, "email must be a valid address")
	}
	if strings.TrimSpace(r.IdentityDocument) == "" {
		errs = append(errs, "identity_document is required")
	}
	return errs
}

// Create godoc
// @Summary Create an attendee
// @Description Creates an active attendee. Email and identity document must be unique.
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateAttendeeRequest true "Attendee"
// @Success 201 {object} helpers.APIResponse "data is the created Attendee"
// @Failure 400 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /attendees [post]
func (c *AttendeeController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAttendeeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	attendee := domain.NewAttendee(req.FirstName, req.LastName, req.Email, req.IdentityDocument, time.Now().UTC())
	attendee.Phone = req.Phone

	if err := c.Service.Create(r.Context(), attendee); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, attendee)
}

// List godoc
// @Summary List attendees
// @Description Lists attendees. With active=true only active attendees are returned.
// @Tags attendees
// @Produce json
// @Param active query bool false "Only active attendees"
// @Success 200 {object} helpers.APIResponse
// @Router /attendees [get]
func (c *AttendeeController) List(w http.ResponseWriter, r *http.Request) {
	var (
		attendees []*domain.Attendee
		err       error
	)
	if r.URL.Query().Get("active") == "true" {
		attendees, err = c.Service.ListActive(r.Context())
	} else {
		attendees, err = c.Service.List(r.Context())
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendees)
}

// Get godoc
// @Summary Get an attendee by ID
// @Tags attendees
// @Produce json
// @Param id path string true "Attendee ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /attendees/{id} [get]
func (c *AttendeeController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	attendee, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// GetByEmail godoc
// @Summary Get an attendee by email
// @Tags attendees
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /attendees/email [get]
func (c *AttendeeController) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing email")
		return
	}
	attendee, err := c.Service.GetByEmail(r.Context(), email)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// Deactivate godoc
// @Summary Deactivate an attendee
// @Description Marks the attendee inactive. Existing registrations are untouched.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /attendees/{id}/deactivate [patch]
func (c *AttendeeController) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	attendee, err := c.Service.Deactivate(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// Delete godoc
// @Summary Delete an attendee
// @Description Deletes an attendee along with their registrations and ratings.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse
// @Router /attendees/{id} [delete]
func (c *AttendeeController) Delete(w http.ResponseWriter, r *http.Request) {
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
