package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

type RatingController struct {
	Logger  *slog.Logger
	Service domain.RatingService
}

func NewRatingController(logger *slog.Logger, svc domain.RatingService) *RatingController {
	return &RatingController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRatingRequest is the request body for POST /ratings.
type SubmitRatingRequest struct {
	EventID    string  `json:"event_id"`
	AttendeeID string  `json:"attendee_id"`
	Score      int     `json:"score"`
	Comment    *string `json:"comment,omitempty"`
}

// Validate implements helpers.Validator.
func (r *SubmitRatingRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	if !uuidRegex.MatchString(r.AttendeeID) {
		errs = append(errs, "attendee_id must be a valid UUID")
	}
	if r.Score < domain.MinRatingScore || r.Score > domain.MaxRatingScore {
		errs = append(errs, "score must be between 1 and 5")
	}
	return errs
}

// Submit godoc
// @Summary Submit a rating for an event
// @Description Records a rating from an attendee who has attended the event. One rating per attendee per event.
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SubmitRatingRequest true "Rating"
// @Success 201 {object} helpers.APIResponse "data is the created Rating"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already rated)"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state (did not attend)"
// @Router /ratings [post]
func (c *RatingController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRatingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rating, err := c.Service.Submit(r.Context(), req.EventID, req.AttendeeID, req.Score, req.Comment)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rating)
}

// List godoc
// @Summary List ratings
// @Description Lists ratings, optionally filtered by an exact score or a minimum score.
// @Tags ratings
// @Produce json
// @Param score query int false "Exact score (1-5)"
// @Param min_score query int false "Minimum score (1-5)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Router /ratings [get]
func (c *RatingController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		ratings []*domain.Rating
		err     error
	)
	switch {
	case q.Get("score") != "":
		score, perr := strconv.Atoi(q.Get("score"))
		if perr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "score must be an integer")
			return
		}
		ratings, err = c.Service.ListByScore(r.Context(), score)
	case q.Get("min_score") != "":
		score, perr := strconv.Atoi(q.Get("min_score"))
		if perr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "min_score must be an integer")
			return
		}
		ratings, err = c.Service.ListByMinScore(r.Context(), score)
	default:
		ratings, err = c.Service.List(r.Context())
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ratings)
}

// Get godoc
// @Summary Get a rating by ID
// @Tags ratings
// @Produce json
// @Param id path string true "Rating ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /ratings/{id} [get]
func (c *RatingController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	rating, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rating)
}

// ListByEvent godoc
// @Summary List ratings for an event
// @Tags ratings
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Router /events/{eventID}/ratings [get]
func (c *RatingController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	ratings, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ratings)
}

// ListCommentedByEvent godoc
// @Summary List an event's ratings that carry a comment
// @Tags ratings
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Router /events/{eventID}/ratings/commented [get]
func (c *RatingController) ListCommentedByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	ratings, err := c.Service.ListCommentedByEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ratings)
}

// ListByAttendee godoc
// @Summary List ratings by an attendee
// @Tags ratings
// @Produce json
// @Param attendeeID path string true "Attendee ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Router /attendees/{attendeeID}/ratings [get]
func (c *RatingController) ListByAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := pathUUID(w, r, "attendeeID")
	if !ok {
		return
	}
	ratings, err := c.Service.ListByAttendee(r.Context(), attendeeID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ratings)
}

// GetByEventAndAttendee godoc
// @Summary Get an attendee's rating for an event
// @Tags ratings
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param attendeeID path string true "Attendee ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{eventID}/ratings/attendee/{attendeeID} [get]
func (c *RatingController) GetByEventAndAttendee(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	attendeeID, ok := pathUUID(w, r, "attendeeID")
	if !ok {
		return
	}
	rating, err := c.Service.GetByEventAndAttendee(r.Context(), eventID, attendeeID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rating)
}

// RatingAverageResponse is the data payload for the average endpoint.
type RatingAverageResponse struct {
	EventID string  `json:"event_id"`
	Average float64 `json:"average"`
}

// AverageByEvent godoc
// @Summary Average rating score for an event
// @Description Returns the event's mean score, 0 when the event has no ratings.
// @Tags ratings
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event_id and average"
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{eventID}/ratings/average [get]
func (c *RatingController) AverageByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	avg, err := c.Service.AverageByEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RatingAverageResponse{EventID: eventID, Average: avg})
}

// RatingCountResponse is the data payload for the count endpoint.
type RatingCountResponse struct {
	EventID string `json:"event_id"`
	Count   int64  `json:"count"`
}

// CountByEvent godoc
// @Summary Number of ratings for an event
// @Tags ratings
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event_id and count"
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{eventID}/ratings/count [get]
func (c *RatingController) CountByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	count, err := c.Service.CountByEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RatingCountResponse{EventID: eventID, Count: count})
}

// UpdateRatingRequest is the request body for PUT /ratings/{id}.
type UpdateRatingRequest struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment,omitempty"`
}

// Validate implements helpers.Validator.
func (r *UpdateRatingRequest) Validate() []string {
	if r.Score < domain.MinRatingScore || r.Score > domain.MaxRatingScore {
		return []string{"score must be between 1 and 5"}
	}
	return nil
}

// Update godoc
// @Summary Update a rating
// @Description Overwrites the score and comment of an existing rating.
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rating ID (UUID)"
// @Param body body controllers.UpdateRatingRequest true "Rating fields"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /ratings/{id} [put]
func (c *RatingController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRatingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rating, err := c.Service.Update(r.Context(), id, req.Score, req.Comment)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rating)
}

// Delete godoc
// @Summary Delete a rating
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rating ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse
// @Router /ratings/{id} [delete]
func (c *RatingController) Delete(w http.ResponseWriter, r *http.Request) {
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
