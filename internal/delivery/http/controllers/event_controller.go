package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	StartsAt        string  `json:"starts_at"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Capacity        int     `json:"capacity"`
	Price           float64 `json:"price"`
	OrganizerID     string  `json:"organizer_id"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if _, err := time.Parse(time.RFC3339, r.StartsAt); err != nil {
		errs = append(errs, "starts_at must be an RFC 3339 timestamp")
	}
	if r.DurationMinutes != nil && *r.DurationMinutes <= 0 {
		errs = append(errs, "duration_minutes must be positive")
	}
	if r.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	if r.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if !uuidRegex.MatchString(r.OrganizerID) {
		errs = append(errs, "organizer_id must be a valid UUID")
	}
	return errs
}

// Create godoc
// @Summary Create an event
// @Description Creates an active event with a registration capacity.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event"
// @Success 201 {object} helpers.APIResponse "data is the created Event"
// @Failure 400 {object} helpers.APIResponse
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	startsAt, _ := time.Parse(time.RFC3339, req.StartsAt)

	event := domain.NewEvent(req.Name, startsAt, req.Capacity, req.Price, req.OrganizerID, time.Now().UTC())
	event.Description = req.Description
	event.DurationMinutes = req.DurationMinutes

	if err := c.Service.Create(r.Context(), event); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// List godoc
// @Summary List events
// @Description Lists events, optionally filtered by lifecycle status.
// @Tags events
// @Produce json
// @Param status query string false "Event status (active, cancelled, finished)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	var (
		events []*domain.Event
		err    error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		status, ok := domain.ParseEventStatus(s)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		events, err = c.Service.ListByStatus(r.Context(), status)
	} else {
		events, err = c.Service.List(r.Context())
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListUpcoming godoc
// @Summary List upcoming events
// @Description Lists active events that start in the future.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /events/upcoming [get]
func (c *EventController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListUpcoming(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	event, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ChangeEventStatusRequest is the request body for the status endpoint.
type ChangeEventStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (r *ChangeEventStatusRequest) Validate() []string {
	if _, ok := domain.ParseEventStatus(r.Status); !ok {
		return []string{"status must be one of active, cancelled, finished"}
	}
	return nil
}

// ChangeStatus godoc
// @Summary Change an event's status
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body controllers.ChangeEventStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{id}/status [patch]
func (c *EventController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ChangeEventStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status, _ := domain.ParseEventStatus(req.Status)
	event, err := c.Service.ChangeStatus(r.Context(), id, status)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Availability godoc
// @Summary Remaining capacity for an event
// @Description Returns the event's capacity, active registration count, and remaining seats.
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an EventAvailability"
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{id}/availability [get]
func (c *EventController) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	avail, err := c.Service.Availability(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, avail)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes an event along with its registrations and ratings.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
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
