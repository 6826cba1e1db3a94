package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID    = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	testAttendeeID = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
	testRegID      = "6ba7b812-9dad-11d1-80b4-00c04fd430c8"
	testPaymentID  = "6ba7b813-9dad-11d1-80b4-00c04fd430c8"
	testRatingID   = "6ba7b814-9dad-11d1-80b4-00c04fd430c8"
)

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	registerErr        error
	registerResult     *domain.Registration
	lastRegisterEvent  string
	lastRegisterAtt    string
	lastRegisterAmount *float64

	checkInErr    error
	checkInResult *domain.Registration
	lastCheckInID string

	checkInByCodeErr error
	lastCheckInCode  string

	cancelErr    error
	cancelResult *domain.Registration

	markNoShowErr    error
	markNoShowResult *domain.Registration

	deleteErr    error
	lastDeleteID string

	getByIDErr    error
	getByIDResult *domain.Registration

	getByCodeErr    error
	getByCodeResult *domain.Registration
	lastGetByCode   string

	listResult   []*domain.Registration
	listErr      error
	lastListBy   string // which list method was called
	lastStatus   domain.RegistrationStatus
	lastEventID  string
	lastAttendee string

	countResult int64
	countErr    error
}

func (f *fakeRegistrationService) Register(ctx context.Context, eventID, attendeeID string, amountPaid *float64) (*domain.Registration, error) {
	f.lastRegisterEvent = eventID
	f.lastRegisterAtt = attendeeID
	f.lastRegisterAmount = amountPaid
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerResult, nil
}

func (f *fakeRegistrationService) CheckIn(ctx context.Context, id string) (*domain.Registration, error) {
	f.lastCheckInID = id
	if f.checkInErr != nil {
		return nil, f.checkInErr
	}
	return f.checkInResult, nil
}

func (f *fakeRegistrationService) CheckInByCode(ctx context.Context, code string) (*domain.Registration, error) {
	f.lastCheckInCode = code
	if f.checkInByCodeErr != nil {
		return nil, f.checkInByCodeErr
	}
	return f.checkInResult, nil
}

func (f *fakeRegistrationService) Cancel(ctx context.Context, id string) (*domain.Registration, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return f.cancelResult, nil
}

func (f *fakeRegistrationService) MarkNoShow(ctx context.Context, id string) (*domain.Registration, error) {
	if f.markNoShowErr != nil {
		return nil, f.markNoShowErr
	}
	return f.markNoShowResult, nil
}

func (f *fakeRegistrationService) Delete(ctx context.Context, id string) error {
	f.lastDeleteID = id
	return f.deleteErr
}

func (f *fakeRegistrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDResult, nil
}

func (f *fakeRegistrationService) GetByCode(ctx context.Context, code string) (*domain.Registration, error) {
	f.lastGetByCode = code
	if f.getByCodeErr != nil {
		return nil, f.getByCodeErr
	}
	return f.getByCodeResult, nil
}

func (f *fakeRegistrationService) List(ctx context.Context) ([]*domain.Registration, error) {
	f.lastListBy = "all"
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.lastListBy = "event"
	f.lastEventID = eventID
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Registration, error) {
	f.lastListBy = "attendee"
	f.lastAttendee = attendeeID
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	f.lastListBy = "status"
	f.lastStatus = status
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) ListByEventAndStatus(ctx context.Context, eventID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	f.lastListBy = "event+status"
	f.lastEventID = eventID
	f.lastStatus = status
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) ListByAttendeeAndStatus(ctx context.Context, attendeeID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	f.lastListBy = "attendee+status"
	f.lastAttendee = attendeeID
	f.lastStatus = status
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) ListActiveByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.lastListBy = "active"
	f.lastEventID = eventID
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) CountConfirmedByEvent(ctx context.Context, eventID string) (int64, error) {
	f.lastEventID = eventID
	return f.countResult, f.countErr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	return envelope
}

func TestRegistrationController_Create(t *testing.T) {
	created := &domain.Registration{
		ID:             testRegID,
		EventID:        testEventID,
		AttendeeID:     testAttendeeID,
		Status:         domain.RegistrationConfirmed,
		AmountPaid:     49.90,
		AttendanceCode: "A1B2C3D4E5",
		RegisteredAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantErrCode    string
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       fmt.Sprintf(`{"event_id":%q,"attendee_id":%q}`, testEventID, testAttendeeID),
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantErrCode:    helpers.ErrCodeBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "non-uuid event id",
			body:           fmt.Sprintf(`{"event_id":"not-a-uuid","attendee_id":%q}`, testAttendeeID),
			wantStatus:     http.StatusBadRequest,
			wantErrCode:    helpers.ErrCodeBadRequest,
			wantBodySubstr: "event_id must be a valid UUID",
		},
		{
			name:           "negative amount",
			body:           fmt.Sprintf(`{"event_id":%q,"attendee_id":%q,"amount_paid":-1}`, testEventID, testAttendeeID),
			wantStatus:     http.StatusBadRequest,
			wantErrCode:    helpers.ErrCodeBadRequest,
			wantBodySubstr: "amount_paid cannot be negative",
		},
		{
			name:           "unknown field rejected",
			body:           fmt.Sprintf(`{"event_id":%q,"attendee_id":%q,"status":"attended"}`, testEventID, testAttendeeID),
			wantStatus:     http.StatusBadRequest,
			wantErrCode:    helpers.ErrCodeBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:        "event not found",
			body:        fmt.Sprintf(`{"event_id":%q,"attendee_id":%q}`, testEventID, testAttendeeID),
			fakeErr:     fmt.Errorf("get event: %w", domain.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantErrCode: helpers.ErrCodeNotFound,
		},
		{
			name:        "event full",
			body:        fmt.Sprintf(`{"event_id":%q,"attendee_id":%q}`, testEventID, testAttendeeID),
			fakeErr:     fmt.Errorf("event is full: %w", domain.ErrCapacityExceeded),
			wantStatus:  http.StatusConflict,
			wantErrCode: helpers.ErrCodeCapacityExceeded,
		},
		{
			name:        "duplicate registration",
			body:        fmt.Sprintf(`{"event_id":%q,"attendee_id":%q}`, testEventID, testAttendeeID),
			fakeErr:     fmt.Errorf("attendee already registered: %w", domain.ErrConflict),
			wantStatus:  http.StatusConflict,
			wantErrCode: helpers.ErrCodeConflict,
		},
		{
			name:        "event already started",
			body:        fmt.Sprintf(`{"event_id":%q,"attendee_id":%q}`, testEventID, testAttendeeID),
			fakeErr:     fmt.Errorf("event already started: %w", domain.ErrInvalidState),
			wantStatus:  http.StatusUnprocessableEntity,
			wantErrCode: helpers.ErrCodeInvalidState,
		},
		{
			name:        "service error",
			body:        fmt.Sprintf(`{"event_id":%q,"attendee_id":%q}`, testEventID, testAttendeeID),
			fakeErr:     errors.New("db error"),
			wantStatus:  http.StatusInternalServerError,
			wantErrCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistrationService{registerErr: tt.fakeErr, registerResult: created}
			ctrl := NewRegistrationController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/registrations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var reg domain.Registration
				require.NoError(t, json.Unmarshal(dataBytes, &reg))
				assert.Equal(t, testRegID, reg.ID)
				assert.Equal(t, "A1B2C3D4E5", reg.AttendanceCode)
				assert.Equal(t, testEventID, fake.lastRegisterEvent)
				assert.Equal(t, testAttendeeID, fake.lastRegisterAtt)
				assert.Nil(t, fake.lastRegisterAmount)
				return
			}
			require.NotNil(t, envelope.Error, "error response must have error set")
			assert.Equal(t, tt.wantErrCode, envelope.Error.Code, "error code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestRegistrationController_Get(t *testing.T) {
	reg := &domain.Registration{ID: testRegID, EventID: testEventID, AttendeeID: testAttendeeID, Status: domain.RegistrationConfirmed}

	tests := []struct {
		name        string
		id          string
		fakeErr     error
		wantStatus  int
		wantErrCode string
	}{
		{name: "success", id: testRegID, wantStatus: http.StatusOK},
		{name: "not found", id: testRegID, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantErrCode: helpers.ErrCodeNotFound},
		{name: "invalid id", id: "not-a-uuid", wantStatus: http.StatusBadRequest, wantErrCode: helpers.ErrCodeBadRequest},
		{name: "missing id", id: "", wantStatus: http.StatusBadRequest, wantErrCode: helpers.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistrationService{getByIDErr: tt.fakeErr, getByIDResult: reg}
			ctrl := NewRegistrationController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/registrations/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rr := httptest.NewRecorder()

			ctrl.Get(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
		})
	}
}

func TestRegistrationController_List(t *testing.T) {
	regs := []*domain.Registration{
		{ID: testRegID, Status: domain.RegistrationConfirmed},
	}

	t.Run("all", func(t *testing.T) {
		fake := &fakeRegistrationService{listResult: regs}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "all", fake.lastListBy)
	})

	t.Run("filtered by status", func(t *testing.T) {
		fake := &fakeRegistrationService{listResult: regs}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/registrations?status=cancelled", nil)
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "status", fake.lastListBy)
		assert.Equal(t, domain.RegistrationCancelled, fake.lastStatus)
	})

	t.Run("invalid status", func(t *testing.T) {
		fake := &fakeRegistrationService{}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/registrations?status=bogus", nil)
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Message, "invalid status")
	})
}

func TestRegistrationController_ListByEvent(t *testing.T) {
	t.Run("with status filter", func(t *testing.T) {
		fake := &fakeRegistrationService{listResult: []*domain.Registration{}}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/registrations?status=attended", nil)
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()

		ctrl.ListByEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "event+status", fake.lastListBy)
		assert.Equal(t, testEventID, fake.lastEventID)
		assert.Equal(t, domain.RegistrationAttended, fake.lastStatus)
	})

	t.Run("without filter", func(t *testing.T) {
		fake := &fakeRegistrationService{listResult: []*domain.Registration{}}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/registrations", nil)
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()

		ctrl.ListByEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "event", fake.lastListBy)
	})
}

func TestRegistrationController_CountByEvent(t *testing.T) {
	fake := &fakeRegistrationService{countResult: 7}
	ctrl := NewRegistrationController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/registrations/count", nil)
	req.SetPathValue("eventID", testEventID)
	rr := httptest.NewRecorder()

	ctrl.CountByEvent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.Nil(t, envelope.Error)
	dataMap, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "data must be object")
	assert.Equal(t, testEventID, dataMap["event_id"])
	assert.Equal(t, float64(7), dataMap["count"])
}

func TestRegistrationController_CheckIn(t *testing.T) {
	checkedIn := time.Date(2026, 3, 1, 19, 5, 0, 0, time.UTC)
	attended := &domain.Registration{ID: testRegID, Status: domain.RegistrationAttended, CheckedInAt: &checkedIn}

	tests := []struct {
		name        string
		fakeErr     error
		wantStatus  int
		wantErrCode string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "not found", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantErrCode: helpers.ErrCodeNotFound},
		{name: "already attended", fakeErr: fmt.Errorf("registration is attended: %w", domain.ErrInvalidState), wantStatus: http.StatusUnprocessableEntity, wantErrCode: helpers.ErrCodeInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistrationService{checkInErr: tt.fakeErr, checkInResult: attended}
			ctrl := NewRegistrationController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPatch, "/registrations/"+testRegID+"/checkin", nil)
			req.SetPathValue("id", testRegID)
			rr := httptest.NewRecorder()

			ctrl.CheckIn(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, testRegID, fake.lastCheckInID)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var reg domain.Registration
				require.NoError(t, json.Unmarshal(dataBytes, &reg))
				assert.Equal(t, domain.RegistrationAttended, reg.Status)
				require.NotNil(t, reg.CheckedInAt)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
		})
	}
}

func TestRegistrationController_CheckInByCode(t *testing.T) {
	attended := &domain.Registration{ID: testRegID, Status: domain.RegistrationAttended}

	t.Run("success", func(t *testing.T) {
		fake := &fakeRegistrationService{checkInResult: attended}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "/registrations/code/A1B2C3D4E5/checkin", nil)
		req.SetPathValue("code", "A1B2C3D4E5")
		rr := httptest.NewRecorder()

		ctrl.CheckInByCode(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "A1B2C3D4E5", fake.lastCheckInCode)
	})

	t.Run("missing code", func(t *testing.T) {
		fake := &fakeRegistrationService{}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "/registrations/code//checkin", nil)
		req.SetPathValue("code", "")
		rr := httptest.NewRecorder()

		ctrl.CheckInByCode(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Message, "missing code")
	})

	t.Run("unknown code", func(t *testing.T) {
		fake := &fakeRegistrationService{checkInByCodeErr: domain.ErrNotFound}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "/registrations/code/ZZZZZZZZZZ/checkin", nil)
		req.SetPathValue("code", "ZZZZZZZZZZ")
		rr := httptest.NewRecorder()

		ctrl.CheckInByCode(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRegistrationController_Cancel(t *testing.T) {
	cancelledAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cancelled := &domain.Registration{ID: testRegID, Status: domain.RegistrationCancelled, CancelledAt: &cancelledAt}

	t.Run("success", func(t *testing.T) {
		fake := &fakeRegistrationService{cancelResult: cancelled}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "/registrations/"+testRegID+"/cancel", nil)
		req.SetPathValue("id", testRegID)
		rr := httptest.NewRecorder()

		ctrl.Cancel(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("already attended", func(t *testing.T) {
		fake := &fakeRegistrationService{cancelErr: fmt.Errorf("registration is attended: %w", domain.ErrInvalidState)}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "/registrations/"+testRegID+"/cancel", nil)
		req.SetPathValue("id", testRegID)
		rr := httptest.NewRecorder()

		ctrl.Cancel(rr, req)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeInvalidState, envelope.Error.Code)
	})
}

func TestRegistrationController_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeRegistrationService{}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "/registrations/"+testRegID, nil)
		req.SetPathValue("id", testRegID)
		rr := httptest.NewRecorder()

		ctrl.Delete(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, testRegID, fake.lastDeleteID)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		fake := &fakeRegistrationService{deleteErr: domain.ErrNotFound}
		ctrl := NewRegistrationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "/registrations/"+testRegID, nil)
		req.SetPathValue("id", testRegID)
		rr := httptest.NewRecorder()

		ctrl.Delete(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
