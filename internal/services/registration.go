package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/domain"
)

const attendanceCodeLength = 10

var attendanceCodeAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// codeAttempts caps collision retries during attendance code generation
// before falling back to a UUID-derived code.
const codeAttempts = 5

type registrationService struct {
	regRepo        domain.RegistrationRepository
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	mailer         domain.Mailer
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService with the given
// repositories. The mailer is used for best-effort confirmation emails and
// may be a no-op.
func NewRegistrationService(
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	mailer domain.Mailer,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		regRepo:        regRepo,
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		mailer:         mailer,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, attendeeID string, amountPaid *float64) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	attendee, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendee %s", domain.ErrNotFound, attendeeID)
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	if event.Status != domain.EventActive {
		return nil, fmt.Errorf("%w: event is not open for registration", domain.ErrInvalidState)
	}
	if event.StartsAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: event has already started", domain.ErrInvalidState)
	}

	// Early friendly check; the partial unique index is the authority and
	// Create still returns ErrConflict if a concurrent request wins.
	exists, err := s.regRepo.HasActiveByEventAndAttendee(ctx, eventID, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: attendee is already registered for this event", domain.ErrConflict)
	}

	// Count-then-insert, best effort. Remaining race window is accepted;
	// see DESIGN.md.
	active, err := s.regRepo.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if active >= int64(event.Capacity) {
		return nil, fmt.Errorf("%w: event %s is full (%d/%d)", domain.ErrCapacityExceeded, eventID, active, event.Capacity)
	}

	code, err := s.generateAttendanceCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate attendance code: %w", err)
	}

	paid := event.Price
	if amountPaid != nil {
		paid = *amountPaid
	}

	reg := domain.NewRegistration(eventID, attendeeID, paid, code, time.Now())
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: attendee is already registered for this event", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.sendConfirmation(attendee, event, reg)
	return reg, nil
}

func (s *registrationService) CheckIn(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: registration %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return s.checkIn(ctx, reg)
}

func (s *registrationService) CheckInByCode(ctx context.Context, code string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no registration for that attendance code", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get registration by code: %w", err)
	}
	return s.checkIn(ctx, reg)
}

func (s *registrationService) checkIn(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	if reg.Status != domain.RegistrationConfirmed {
		return nil, fmt.Errorf("%w: only confirmed registrations can check in", domain.ErrInvalidState)
	}
	now := time.Now()
	reg.Status = domain.RegistrationAttended
	reg.CheckedInAt = &now
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) Cancel(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: registration %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if reg.Status == domain.RegistrationCancelled {
		return nil, fmt.Errorf("%w: registration is already cancelled", domain.ErrInvalidState)
	}
	if reg.Status == domain.RegistrationAttended {
		return nil, fmt.Errorf("%w: cannot cancel a registration that has attended", domain.ErrInvalidState)
	}

	now := time.Now()
	reg.Status = domain.RegistrationCancelled
	reg.CancelledAt = &now
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) MarkNoShow(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: registration %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if reg.Status != domain.RegistrationConfirmed {
		return nil, fmt.Errorf("%w: only confirmed registrations can be marked no-show", domain.ErrInvalidState)
	}

	reg.Status = domain.RegistrationNoShow
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.regRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: registration %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.GetByID(ctx, id)
}

func (s *registrationService) GetByCode(ctx context.Context, code string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *registrationService) List(ctx context.Context) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.List(ctx)
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.ListByEvent(ctx, eventID)
}

func (s *registrationService) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.ListByAttendee(ctx, attendeeID)
}

func (s *registrationService) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.ListByStatus(ctx, status)
}

func (s *registrationService) ListByEventAndStatus(ctx context.Context, eventID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.ListByEventAndStatus(ctx, eventID, status)
}

func (s *registrationService) ListByAttendeeAndStatus(ctx context.Context, attendeeID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.ListByAttendeeAndStatus(ctx, attendeeID, status)
}

func (s *registrationService) ListActiveByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.ListActiveByEvent(ctx, eventID)
}

func (s *registrationService) CountConfirmedByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.regRepo.CountByEventAndStatus(ctx, eventID, domain.RegistrationConfirmed)
}

// generateAttendanceCode produces a unique 10-character code. Collisions are
// retried a fixed number of times, then a UUID-derived code is used so the
// loop cannot run unbounded.
func (s *registrationService) generateAttendanceCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := randomAttendanceCode()
		if err != nil {
			return "", err
		}
		if _, err := s.regRepo.GetByCode(ctx, code); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return code, nil
			}
			return "", err
		}
	}
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:attendanceCodeLength], nil
}

func randomAttendanceCode() (string, error) {
	b := make([]rune, attendanceCodeLength)
	max := big.NewInt(int64(len(attendanceCodeAlphabet)))
	for i := 0; i < attendanceCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = attendanceCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// sendConfirmation emails the attendance code to the attendee. Failures are
// logged and never fail the registration.
func (s *registrationService) sendConfirmation(attendee *domain.Attendee, event *domain.Event, reg *domain.Registration) {
	subject := fmt.Sprintf("Registration confirmed: %s", event.Name)
	text := fmt.Sprintf(
		"Hi %s,\n\nYou are registered for %s on %s.\nYour attendance code is %s. Present it at check-in.\n",
		attendee.FullName(), event.Name, event.StartsAt.Format("Mon, 02 Jan 2006 15:04"), reg.AttendanceCode,
	)
	if err := s.mailer.Send(attendee.Email, subject, "", text); err != nil {
		s.logger.Warn("confirmation email failed",
			"registration_id", reg.ID,
			"attendee_id", attendee.ID,
			"err", err,
		)
	}
}
