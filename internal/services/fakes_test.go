package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every method returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Exists(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, after time.Time) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.Status == domain.EventActive && e.StartsAt.After(after) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeAttendeeRepo is an in-memory AttendeeRepository for tests.
type fakeAttendeeRepo struct {
	byID      map[string]*domain.Attendee
	nextID    int
	err       error
	createErr error
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{
		byID:   make(map[string]*domain.Attendee),
		nextID: 1,
	}
}

func (f *fakeAttendeeRepo) Create(ctx context.Context, a *domain.Attendee) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == a.Email || existing.IdentityDocument == a.IdentityDocument {
			return domain.ErrConflict
		}
	}
	a.ID = fmt.Sprintf("att-%d", f.nextID)
	f.nextID++
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAttendeeRepo) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttendeeRepo) GetByEmail(ctx context.Context, email string) (*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttendeeRepo) List(ctx context.Context) ([]*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Attendee, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttendeeRepo) ListActive(ctx context.Context) ([]*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Attendee
	for _, a := range f.byID {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendeeRepo) SetActive(ctx context.Context, id string, active bool) (*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Active = active
	return a, nil
}

func (f *fakeAttendeeRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRegistrationRepo is an in-memory RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	byID      map[string]*domain.Registration
	nextID    int
	err       error
	createErr error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byID:   make(map[string]*domain.Registration),
		nextID: 1,
	}
}

func isActive(status domain.RegistrationStatus) bool {
	return status == domain.RegistrationConfirmed || status == domain.RegistrationAttended
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.EventID == reg.EventID && existing.AttendeeID == reg.AttendeeID && isActive(existing.Status) && isActive(reg.Status) {
			return domain.ErrConflict
		}
		if existing.AttendanceCode == reg.AttendanceCode {
			return domain.ErrConflict
		}
	}
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	if reg, ok := f.byID[id]; ok {
		return reg, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByCode(ctx context.Context, code string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, reg := range f.byID {
		if reg.AttendanceCode == code {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) List(ctx context.Context) ([]*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Registration, 0, len(f.byID))
	for _, reg := range f.byID {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	return f.filter(func(reg *domain.Registration) bool { return reg.EventID == eventID })
}

func (f *fakeRegistrationRepo) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Registration, error) {
	return f.filter(func(reg *domain.Registration) bool { return reg.AttendeeID == attendeeID })
}

func (f *fakeRegistrationRepo) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	return f.filter(func(reg *domain.Registration) bool { return reg.Status == status })
}

func (f *fakeRegistrationRepo) ListByEventAndStatus(ctx context.Context, eventID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	return f.filter(func(reg *domain.Registration) bool { return reg.EventID == eventID && reg.Status == status })
}

func (f *fakeRegistrationRepo) ListByAttendeeAndStatus(ctx context.Context, attendeeID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	return f.filter(func(reg *domain.Registration) bool { return reg.AttendeeID == attendeeID && reg.Status == status })
}

func (f *fakeRegistrationRepo) ListActiveByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	return f.filter(func(reg *domain.Registration) bool { return reg.EventID == eventID && isActive(reg.Status) })
}

func (f *fakeRegistrationRepo) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RegistrationStatus) (int64, error) {
	regs, err := f.ListByEventAndStatus(ctx, eventID, status)
	if err != nil {
		return 0, err
	}
	return int64(len(regs)), nil
}

func (f *fakeRegistrationRepo) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	regs, err := f.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return int64(len(regs)), nil
}

func (f *fakeRegistrationRepo) HasActiveByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, reg := range f.byID {
		if reg.EventID == eventID && reg.AttendeeID == attendeeID && isActive(reg.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) HasAttended(ctx context.Context, eventID, attendeeID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, reg := range f.byID {
		if reg.EventID == eventID && reg.AttendeeID == attendeeID && reg.Status == domain.RegistrationAttended {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRegistrationRepo) filter(keep func(*domain.Registration) bool) ([]*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Registration, 0)
	for _, reg := range f.byID {
		if keep(reg) {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakePaymentRepo is an in-memory PaymentRepository for tests.
type fakePaymentRepo struct {
	byID      map[string]*domain.Payment
	nextID    int
	err       error
	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		byID:   make(map[string]*domain.Payment),
		nextID: 1,
	}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.RegistrationID == p.RegistrationID || existing.TransactionRef == p.TransactionRef {
			return domain.ErrConflict
		}
	}
	p.ID = fmt.Sprintf("pay-%d", f.nextID)
	f.nextID++
	f.byID[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentRepo) GetByRegistration(ctx context.Context, registrationID string) (*domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.byID {
		if p.RegistrationID == registrationID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentRepo) GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.byID {
		if p.TransactionRef == ref {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentRepo) List(ctx context.Context) ([]*domain.Payment, error) {
	return f.filter(func(*domain.Payment) bool { return true })
}

func (f *fakePaymentRepo) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	return f.filter(func(p *domain.Payment) bool { return p.Status == status })
}

func (f *fakePaymentRepo) ListByMethod(ctx context.Context, method domain.PaymentMethod) ([]*domain.Payment, error) {
	return f.filter(func(p *domain.Payment) bool { return p.Method == method })
}

func (f *fakePaymentRepo) ListByStatusAndMethod(ctx context.Context, status domain.PaymentStatus, method domain.PaymentMethod) ([]*domain.Payment, error) {
	return f.filter(func(p *domain.Payment) bool { return p.Status == status && p.Method == method })
}

func (f *fakePaymentRepo) ListByPaidBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	return f.filter(func(p *domain.Payment) bool {
		return !p.PaidAt.Before(from) && !p.PaidAt.After(to)
	})
}

func (f *fakePaymentRepo) ListByAmountGreaterThan(ctx context.Context, amount float64) ([]*domain.Payment, error) {
	return f.filter(func(p *domain.Payment) bool { return p.Amount > amount })
}

func (f *fakePaymentRepo) SumCompleted(ctx context.Context) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var total float64
	for _, p := range f.byID {
		if p.Status == domain.PaymentCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentRepo) CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	payments, err := f.ListByStatus(ctx, status)
	if err != nil {
		return 0, err
	}
	return int64(len(payments)), nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePaymentRepo) filter(keep func(*domain.Payment) bool) ([]*domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Payment, 0)
	for _, p := range f.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeRatingRepo is an in-memory RatingRepository for tests.
type fakeRatingRepo struct {
	byID      map[string]*domain.Rating
	nextID    int
	err       error
	createErr error
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		byID:   make(map[string]*domain.Rating),
		nextID: 1,
	}
}

func (f *fakeRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.EventID == rating.EventID && existing.AttendeeID == rating.AttendeeID {
			return domain.ErrConflict
		}
	}
	rating.ID = fmt.Sprintf("rat-%d", f.nextID)
	f.nextID++
	f.byID[rating.ID] = rating
	return nil
}

func (f *fakeRatingRepo) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rt, ok := f.byID[id]; ok {
		return rt, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRatingRepo) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*domain.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, rt := range f.byID {
		if rt.EventID == eventID && rt.AttendeeID == attendeeID {
			return rt, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRatingRepo) List(ctx context.Context) ([]*domain.Rating, error) {
	return f.filter(func(*domain.Rating) bool { return true })
}

func (f *fakeRatingRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Rating, error) {
	return f.filter(func(rt *domain.Rating) bool { return rt.EventID == eventID })
}

func (f *fakeRatingRepo) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Rating, error) {
	return f.filter(func(rt *domain.Rating) bool { return rt.AttendeeID == attendeeID })
}

func (f *fakeRatingRepo) ListByScore(ctx context.Context, score int) ([]*domain.Rating, error) {
	return f.filter(func(rt *domain.Rating) bool { return rt.Score == score })
}

func (f *fakeRatingRepo) ListByMinScore(ctx context.Context, score int) ([]*domain.Rating, error) {
	return f.filter(func(rt *domain.Rating) bool { return rt.Score >= score })
}

func (f *fakeRatingRepo) ListCommentedByEvent(ctx context.Context, eventID string) ([]*domain.Rating, error) {
	return f.filter(func(rt *domain.Rating) bool { return rt.EventID == eventID && rt.Comment != nil })
}

func (f *fakeRatingRepo) AverageByEvent(ctx context.Context, eventID string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var sum, n float64
	for _, rt := range f.byID {
		if rt.EventID == eventID {
			sum += float64(rt.Score)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

func (f *fakeRatingRepo) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	ratings, err := f.ListByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return int64(len(ratings)), nil
}

func (f *fakeRatingRepo) Update(ctx context.Context, rating *domain.Rating) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[rating.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[rating.ID] = rating
	return nil
}

func (f *fakeRatingRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRatingRepo) filter(keep func(*domain.Rating) bool) ([]*domain.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Rating, 0)
	for _, rt := range f.byID {
		if keep(rt) {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeMailer records sent emails and can be made to fail.
type fakeMailer struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to      string
	subject string
	text    string
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, text: text})
	return nil
}
