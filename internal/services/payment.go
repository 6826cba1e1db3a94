package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/domain"
)

// refAttempts caps collision retries during transaction reference
// generation. The reference space is UUID-derived, so collisions are already
// vanishingly rare.
const refAttempts = 5

type paymentService struct {
	paymentRepo    domain.PaymentRepository
	regRepo        domain.RegistrationRepository
	contextTimeout time.Duration
}

// NewPaymentService creates a PaymentService with the given repositories.
func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	regRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		regRepo:        regRepo,
		contextTimeout: timeout,
	}
}

func (s *paymentService) Create(ctx context.Context, registrationID string, amount float64, method domain.PaymentMethod, status *domain.PaymentStatus, receiptURL *string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.regRepo.GetByID(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: registration %s", domain.ErrNotFound, registrationID)
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	// Pre-check for a friendly error; the unique constraint on
	// registration_id is the authority.
	if _, err := s.paymentRepo.GetByRegistration(ctx, registrationID); err == nil {
		return nil, fmt.Errorf("%w: registration already has a payment", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get payment by registration: %w", err)
	}

	ref, err := s.generateTransactionRef(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate transaction reference: %w", err)
	}

	st := domain.PaymentPending
	if status != nil {
		st = *status
	}

	payment := domain.NewPayment(registrationID, amount, method, st, ref, time.Now())
	payment.ReceiptURL = receiptURL
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: registration already has a payment", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Confirm(ctx context.Context, id string, receiptURL *string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentCompleted {
		return nil, fmt.Errorf("%w: payment is already completed", domain.ErrInvalidState)
	}

	payment.Status = domain.PaymentCompleted
	if receiptURL != nil {
		payment.ReceiptURL = receiptURL
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Reject(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentCompleted {
		return nil, fmt.Errorf("%w: cannot reject a completed payment", domain.ErrInvalidState)
	}

	payment.Status = domain.PaymentRejected
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Refund(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentCompleted {
		return nil, fmt.Errorf("%w: only completed payments can be refunded", domain.ErrInvalidState)
	}

	payment.Status = domain.PaymentRefunded
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

// OverrideStatus sets the status with no transition check. Administrative
// escape hatch, kept deliberately outside the confirm/reject/refund guards.
func (s *paymentService) OverrideStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.Status = status
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Update(ctx context.Context, id string, upd domain.PaymentUpdate) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.Amount = upd.Amount
	payment.Method = upd.Method
	payment.Status = upd.Status
	payment.ReceiptURL = upd.ReceiptURL
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: payment %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

func (s *paymentService) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getByID(ctx, id)
}

func (s *paymentService) GetByRegistration(ctx context.Context, registrationID string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.GetByRegistration(ctx, registrationID)
}

func (s *paymentService) GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.GetByTransactionRef(ctx, strings.ToUpper(strings.TrimSpace(ref)))
}

func (s *paymentService) List(ctx context.Context) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.List(ctx)
}

func (s *paymentService) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.ListByStatus(ctx, status)
}

func (s *paymentService) ListByMethod(ctx context.Context, method domain.PaymentMethod) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.ListByMethod(ctx, method)
}

func (s *paymentService) ListByStatusAndMethod(ctx context.Context, status domain.PaymentStatus, method domain.PaymentMethod) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.ListByStatusAndMethod(ctx, status, method)
}

func (s *paymentService) ListByPaidBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.ListByPaidBetween(ctx, from, to)
}

func (s *paymentService) ListByAmountGreaterThan(ctx context.Context, amount float64) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.ListByAmountGreaterThan(ctx, amount)
}

func (s *paymentService) TotalCompleted(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.SumCompleted(ctx)
}

func (s *paymentService) CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.CountByStatus(ctx, status)
}

func (s *paymentService) getByID(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return payment, nil
}

// generateTransactionRef produces a unique reference of the form
// TRX-<year>-<8 hex chars>. Collisions retry up to refAttempts times.
func (s *paymentService) generateTransactionRef(ctx context.Context) (string, error) {
	for attempt := 0; attempt < refAttempts; attempt++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
		ref := fmt.Sprintf("TRX-%d-%s", time.Now().Year(), suffix)
		if _, err := s.paymentRepo.GetByTransactionRef(ctx, ref); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ref, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted %d attempts", refAttempts)
}
