package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// Controllers bundles the resource controllers wired into the router.
type Controllers struct {
	Events        *controllers.EventController
	Attendees     *controllers.AttendeeController
	Registrations *controllers.RegistrationController
	Payments      *controllers.PaymentController
	Ratings       *controllers.RatingController
}

// NewRouter initializes the HTTP router with all application routes. Mutating
// routes require a bearer token; reads are open.
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Events
	mux.HandleFunc("POST /events", auth(c.Events.Create))
	mux.HandleFunc("GET /events", c.Events.List)
	mux.HandleFunc("GET /events/upcoming", c.Events.ListUpcoming)
	mux.HandleFunc("GET /events/{id}", c.Events.Get)
	mux.HandleFunc("GET /events/{id}/availability", c.Events.Availability)
	mux.HandleFunc("PATCH /events/{id}/status", auth(c.Events.ChangeStatus))
	mux.HandleFunc("DELETE /events/{id}", auth(c.Events.Delete))

	// Attendees
	mux.HandleFunc("POST /attendees", auth(c.Attendees.Create))
	mux.HandleFunc("GET /attendees", c.Attendees.List)
	mux.HandleFunc("GET /attendees/email", c.Attendees.GetByEmail)
	mux.HandleFunc("GET /attendees/{id}", c.Attendees.Get)
	mux.HandleFunc("PATCH /attendees/{id}/deactivate", auth(c.Attendees.Deactivate))
	mux.HandleFunc("DELETE /attendees/{id}", auth(c.Attendees.Delete))

	// Registrations
	mux.HandleFunc("POST /registrations", auth(c.Registrations.Create))
	mux.HandleFunc("GET /registrations", c.Registrations.List)
	mux.HandleFunc("GET /registrations/{id}", c.Registrations.Get)
	mux.HandleFunc("GET /registrations/code/{code}", c.Registrations.GetByCode)
	mux.HandleFunc("GET /events/{eventID}/registrations", c.Registrations.ListByEvent)
	mux.HandleFunc("GET /events/{eventID}/registrations/active", c.Registrations.ListActiveByEvent)
	mux.HandleFunc("GET /events/{eventID}/registrations/count", c.Registrations.CountByEvent)
	mux.HandleFunc("GET /attendees/{attendeeID}/registrations", c.Registrations.ListByAttendee)
	mux.HandleFunc("PATCH /registrations/{id}/checkin", auth(c.Registrations.CheckIn))
	mux.HandleFunc("PATCH /registrations/code/{code}/checkin", auth(c.Registrations.CheckInByCode))
	mux.HandleFunc("PATCH /registrations/{id}/cancel", auth(c.Registrations.Cancel))
	mux.HandleFunc("PATCH /registrations/{id}/no-show", auth(c.Registrations.MarkNoShow))
	mux.HandleFunc("DELETE /registrations/{id}", auth(c.Registrations.Delete))

	// Payments
	mux.HandleFunc("POST /payments", auth(c.Payments.Create))
	mux.HandleFunc("GET /payments", c.Payments.List)
	mux.HandleFunc("GET /payments/total-completed", c.Payments.TotalCompleted)
	mux.HandleFunc("GET /payments/count", c.Payments.CountByStatus)
	mux.HandleFunc("GET /payments/{id}", c.Payments.Get)
	mux.HandleFunc("GET /payments/registration/{registrationID}", c.Payments.GetByRegistration)
	mux.HandleFunc("GET /payments/transaction/{ref}", c.Payments.GetByTransactionRef)
	mux.HandleFunc("PATCH /payments/{id}/confirm", auth(c.Payments.Confirm))
	mux.HandleFunc("PATCH /payments/{id}/reject", auth(c.Payments.Reject))
	mux.HandleFunc("PATCH /payments/{id}/refund", auth(c.Payments.Refund))
	mux.HandleFunc("PATCH /payments/{id}/status", auth(c.Payments.OverrideStatus))
	mux.HandleFunc("PUT /payments/{id}", auth(c.Payments.Update))
	mux.HandleFunc("DELETE /payments/{id}", auth(c.Payments.Delete))

	// Ratings
	mux.HandleFunc("POST /ratings", auth(c.Ratings.Submit))
	mux.HandleFunc("GET /ratings", c.Ratings.List)
	mux.HandleFunc("GET /ratings/{id}", c.Ratings.Get)
	mux.HandleFunc("GET /events/{eventID}/ratings", c.Ratings.ListByEvent)
	mux.HandleFunc("GET /events/{eventID}/ratings/average", c.Ratings.AverageByEvent)
	mux.HandleFunc("GET /events/{eventID}/ratings/count", c.Ratings.CountByEvent)
	mux.HandleFunc("GET /events/{eventID}/ratings/commented", c.Ratings.ListCommentedByEvent)
	mux.HandleFunc("GET /events/{eventID}/ratings/attendee/{attendeeID}", c.Ratings.GetByEventAndAttendee)
	mux.HandleFunc("GET /attendees/{attendeeID}/ratings", c.Ratings.ListByAttendee)
	mux.HandleFunc("PUT /ratings/{id}", auth(c.Ratings.Update))
	mux.HandleFunc("DELETE /ratings/{id}", auth(c.Ratings.Delete))

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
