package domain

import (
	"context"
	"time"
)

// PaymentStatus is the state of a payment.
//
// pending is the initial state. pending payments may be completed or
// rejected; completed payments may be refunded. rejected and refunded are
// terminal.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ParsePaymentStatus validates a payment status string.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted, PaymentRejected, PaymentRefunded:
		return PaymentStatus(s), true
	}
	return "", false
}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentTransfer   PaymentMethod = "transfer"
)

// ParsePaymentMethod validates a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentTransfer:
		return PaymentMethod(s), true
	}
	return "", false
}

// Payment is the single payment record attached to a registration. The
// transaction reference is a globally unique external-facing identifier.
// swagger:model Payment
type Payment struct {
	ID             string        `json:"id"`
	RegistrationID string        `json:"registration_id"`
	Amount         float64       `json:"amount"`
	Method         PaymentMethod `json:"method"`
	Status         PaymentStatus `json:"status"`
	TransactionRef string        `json:"transaction_ref"`
	ReceiptURL     *string       `json:"receipt_url,omitempty"`
	PaidAt         time.Time     `json:"paid_at"`
}

// NewPayment returns a Payment. ID is set by the repository on create.
func NewPayment(registrationID string, amount float64, method PaymentMethod, status PaymentStatus, transactionRef string, paidAt time.Time) *Payment {
	return &Payment{
		RegistrationID: registrationID,
		Amount:         amount,
		Method:         method,
		Status:         status,
		TransactionRef: transactionRef,
		PaidAt:         paidAt,
	}
}

// PaymentRepository defines storage operations for payments. Create must
// return ErrConflict when the registration already has a payment or the
// transaction reference is taken.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByRegistration(ctx context.Context, registrationID string) (*Payment, error)
	GetByTransactionRef(ctx context.Context, ref string) (*Payment, error)
	List(ctx context.Context) ([]*Payment, error)
	ListByStatus(ctx context.Context, status PaymentStatus) ([]*Payment, error)
	ListByMethod(ctx context.Context, method PaymentMethod) ([]*Payment, error)
	ListByStatusAndMethod(ctx context.Context, status PaymentStatus, method PaymentMethod) ([]*Payment, error)
	ListByPaidBetween(ctx context.Context, from, to time.Time) ([]*Payment, error)
	ListByAmountGreaterThan(ctx context.Context, amount float64) ([]*Payment, error)
	// SumCompleted returns the total of completed payment amounts, 0 when
	// there are none.
	SumCompleted(ctx context.Context) (float64, error)
	CountByStatus(ctx context.Context, status PaymentStatus) (int64, error)
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id string) error
}

// PaymentUpdate carries the full overwrite applied by PaymentService.Update.
type PaymentUpdate struct {
	Amount     float64
	Method     PaymentMethod
	Status     PaymentStatus
	ReceiptURL *string
}

// PaymentService defines the payment state machine, administrative
// operations, and aggregate queries.
type PaymentService interface {
	// Create records the single payment for a registration. status defaults
	// to pending when nil.
	Create(ctx context.Context, registrationID string, amount float64, method PaymentMethod, status *PaymentStatus, receiptURL *string) (*Payment, error)
	Confirm(ctx context.Context, id string, receiptURL *string) (*Payment, error)
	Reject(ctx context.Context, id string) (*Payment, error)
	Refund(ctx context.Context, id string) (*Payment, error)
	// OverrideStatus sets the status without transition checks. It is an
	// administrative escape hatch, deliberately outside the state machine.
	OverrideStatus(ctx context.Context, id string, status PaymentStatus) (*Payment, error)
	Update(ctx context.Context, id string, upd PaymentUpdate) (*Payment, error)
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByRegistration(ctx context.Context, registrationID string) (*Payment, error)
	GetByTransactionRef(ctx context.Context, ref string) (*Payment, error)
	List(ctx context.Context) ([]*Payment, error)
	ListByStatus(ctx context.Context, status PaymentStatus) ([]*Payment, error)
	ListByMethod(ctx context.Context, method PaymentMethod) ([]*Payment, error)
	ListByStatusAndMethod(ctx context.Context, status PaymentStatus, method PaymentMethod) ([]*Payment, error)
	ListByPaidBetween(ctx context.Context, from, to time.Time) ([]*Payment, error)
	ListByAmountGreaterThan(ctx context.Context, amount float64) ([]*Payment, error)
	TotalCompleted(ctx context.Context) (float64, error)
	CountByStatus(ctx context.Context, status PaymentStatus) (int64, error)
}
