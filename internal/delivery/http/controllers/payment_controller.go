package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreatePaymentRequest is the request body for POST /payments.
type CreatePaymentRequest struct {
	RegistrationID string  `json:"registration_id"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	Status         *string `json:"status,omitempty"`
	ReceiptURL     *string `json:"receipt_url,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreatePaymentRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(r.RegistrationID) {
		errs = append(errs, "registration_id must be a valid UUID")
	}
	if r.Amount < 0 {
		errs = append(errs, "amount cannot be negative")
	}
	if _, ok := domain.ParsePaymentMethod(r.Method); !ok {
		errs = append(errs, "method must be one of cash, credit_card, debit_card, transfer")
	}
	if r.Status != nil {
		if _, ok := domain.ParsePaymentStatus(*r.Status); !ok {
			errs = append(errs, "status must be one of pending, completed, rejected, refunded")
		}
	}
	return errs
}

// Create godoc
// @Summary Record a payment for a registration
// @Description Records the single payment attached to a registration. status defaults to pending.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreatePaymentRequest true "Payment"
// @Success 201 {object} helpers.APIResponse "data is the created Payment"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (registration already paid)"
// @Router /payments [post]
func (c *PaymentController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	method, _ := domain.ParsePaymentMethod(req.Method)
	var status *domain.PaymentStatus
	if req.Status != nil {
		s, _ := domain.ParsePaymentStatus(*req.Status)
		status = &s
	}

	payment, err := c.Service.Create(r.Context(), req.RegistrationID, req.Amount, method, status, req.ReceiptURL)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, payment)
}

// List godoc
// @Summary List payments
// @Description Lists payments with optional filters. status and method may be combined; from/to (RFC 3339) and min_amount are standalone filters.
// @Tags payments
// @Produce json
// @Param status query string false "Payment status"
// @Param method query string false "Payment method"
// @Param from query string false "Paid-at lower bound (RFC 3339)"
// @Param to query string false "Paid-at upper bound (RFC 3339)"
// @Param min_amount query number false "Minimum amount, exclusive"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Router /payments [get]
func (c *PaymentController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		payments []*domain.Payment
		err      error
	)
	switch {
	case q.Get("from") != "" || q.Get("to") != "":
		from, perr := time.Parse(time.RFC3339, q.Get("from"))
		if perr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be an RFC 3339 timestamp")
			return
		}
		to, perr := time.Parse(time.RFC3339, q.Get("to"))
		if perr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be an RFC 3339 timestamp")
			return
		}
		payments, err = c.Service.ListByPaidBetween(r.Context(), from, to)
	case q.Get("min_amount") != "":
		min, perr := strconv.ParseFloat(q.Get("min_amount"), 64)
		if perr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "min_amount must be a number")
			return
		}
		payments, err = c.Service.ListByAmountGreaterThan(r.Context(), min)
	case q.Get("status") != "" && q.Get("method") != "":
		status, ok := domain.ParsePaymentStatus(q.Get("status"))
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		method, ok := domain.ParsePaymentMethod(q.Get("method"))
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid method")
			return
		}
		payments, err = c.Service.ListByStatusAndMethod(r.Context(), status, method)
	case q.Get("status") != "":
		status, ok := domain.ParsePaymentStatus(q.Get("status"))
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		payments, err = c.Service.ListByStatus(r.Context(), status)
	case q.Get("method") != "":
		method, ok := domain.ParsePaymentMethod(q.Get("method"))
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid method")
			return
		}
		payments, err = c.Service.ListByMethod(r.Context(), method)
	default:
		payments, err = c.Service.List(r.Context())
	}
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payments)
}

// Get godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /payments/{id} [get]
func (c *PaymentController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	payment, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// GetByRegistration godoc
// @Summary Get the payment for a registration
// @Tags payments
// @Produce json
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /payments/registration/{registrationID} [get]
func (c *PaymentController) GetByRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	payment, err := c.Service.GetByRegistration(r.Context(), registrationID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// GetByTransactionRef godoc
// @Summary Get a payment by transaction reference
// @Tags payments
// @Produce json
// @Param ref path string true "Transaction reference"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /payments/transaction/{ref} [get]
func (c *PaymentController) GetByTransactionRef(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.PathValue("ref"))
	if ref == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing ref")
		return
	}
	payment, err := c.Service.GetByTransactionRef(r.Context(), ref)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// ConfirmPaymentRequest is the request body for the confirm endpoint.
type ConfirmPaymentRequest struct {
	ReceiptURL *string `json:"receipt_url,omitempty"`
}

// Validate implements helpers.Validator.
func (r *ConfirmPaymentRequest) Validate() []string { return nil }

// Confirm godoc
// @Summary Confirm a pending payment
// @Description Moves a pending payment to completed, optionally attaching a receipt URL.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID (UUID)"
// @Param body body controllers.ConfirmPaymentRequest false "Receipt"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /payments/{id}/confirm [patch]
func (c *PaymentController) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var receiptURL *string
	if r.ContentLength > 0 {
		var req ConfirmPaymentRequest
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
		receiptURL = req.ReceiptURL
	}
	payment, err := c.Service.Confirm(r.Context(), id, receiptURL)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// Reject godoc
// @Summary Reject a pending payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /payments/{id}/reject [patch]
func (c *PaymentController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	payment, err := c.Service.Reject(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// Refund godoc
// @Summary Refund a completed payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /payments/{id}/refund [patch]
func (c *PaymentController) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	payment, err := c.Service.Refund(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// OverrideStatusRequest is the request body for the status override endpoint.
type OverrideStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (r *OverrideStatusRequest) Validate() []string {
	if _, ok := domain.ParsePaymentStatus(r.Status); !ok {
		return []string{"status must be one of pending, completed, rejected, refunded"}
	}
	return nil
}

// OverrideStatus godoc
// @Summary Override a payment status
// @Description Administrative operation that sets the status directly, bypassing transition checks.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID (UUID)"
// @Param body body controllers.OverrideStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /payments/{id}/status [patch]
func (c *PaymentController) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req OverrideStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status, _ := domain.ParsePaymentStatus(req.Status)
	payment, err := c.Service.OverrideStatus(r.Context(), id, status)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// UpdatePaymentRequest is the request body for PUT /payments/{id}.
type UpdatePaymentRequest struct {
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	Status     string  `json:"status"`
	ReceiptURL *string `json:"receipt_url,omitempty"`
}

// Validate implements helpers.Validator.
func (r *UpdatePaymentRequest) Validate() []string {
	var errs []string
	if r.Amount < 0 {
		errs = append(errs, "amount cannot be negative")
	}
	if _, ok := domain.ParsePaymentMethod(r.Method); !ok {
		errs = append(errs, "method must be one of cash, credit_card, debit_card, transfer")
	}
	if _, ok := domain.ParsePaymentStatus(r.Status); !ok {
		errs = append(errs, "status must be one of pending, completed, rejected, refunded")
	}
	return errs
}

// Update godoc
// @Summary Update a payment
// @Description Overwrites the mutable fields of a payment.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID (UUID)"
// @Param body body controllers.UpdatePaymentRequest true "Payment fields"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /payments/{id} [put]
func (c *PaymentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdatePaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	method, _ := domain.ParsePaymentMethod(req.Method)
	status, _ := domain.ParsePaymentStatus(req.Status)
	payment, err := c.Service.Update(r.Context(), id, domain.PaymentUpdate{
		Amount:     req.Amount,
		Method:     method,
		Status:     status,
		ReceiptURL: req.ReceiptURL,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// Delete godoc
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse
// @Router /payments/{id} [delete]
func (c *PaymentController) Delete(w http.ResponseWriter, r *http.Request) {
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

// TotalCompletedResponse is the data payload for the completed-total endpoint.
type TotalCompletedResponse struct {
	Total float64 `json:"total"`
}

// TotalCompleted godoc
// @Summary Total of completed payment amounts
// @Tags payments
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains total"
// @Router /payments/total-completed [get]
func (c *PaymentController) TotalCompleted(w http.ResponseWriter, r *http.Request) {
	total, err := c.Service.TotalCompleted(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TotalCompletedResponse{Total: total})
}

// StatusCountResponse is the data payload for the status-count endpoint.
type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CountByStatus godoc
// @Summary Count payments in a status
// @Tags payments
// @Produce json
// @Param status query string true "Payment status"
// @Success 200 {object} helpers.APIResponse "data contains status and count"
// @Failure 400 {object} helpers.APIResponse
// @Router /payments/count [get]
func (c *PaymentController) CountByStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := domain.ParsePaymentStatus(r.URL.Query().Get("status"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
		return
	}
	count, err := c.Service.CountByStatus(r.Context(), status)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusCountResponse{Status: string(status), Count: count})
}
