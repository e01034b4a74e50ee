package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
)

type fakeUseCase struct {
	got *createAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*domain.Appointment, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Appointment{
		ID:            uuid.New(),
		TenantID:      req.TenantID,
		ClientID:      req.ClientID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		StartTime:     req.StartTime,
		EndTime:       req.StartTime.Add(time.Hour),
		Status:        domain.StatusPending,
		DepositAmount: decimal.NewFromInt(15),
		TotalPrice:    decimal.NewFromInt(60),
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, h *Handler, tenantID *uuid.UUID, body string) (*httptest.ResponseRecorder, handlers.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if tenantID != nil {
		req = req.WithContext(middleware.WithTenantID(req.Context(), *tenantID))
	}
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	var resp handlers.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func validBody() string {
	return fmt.Sprintf(`{"clientId":%q,"staffId":%q,"serviceId":%q,"startTime":"2025-10-15T10:00:00Z","notes":"first visit"}`,
		uuid.NewString(), uuid.NewString(), uuid.NewString())
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})
	tenantID := uuid.New()

	rec, resp := doRequest(t, h, &tenantID, validBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, uc.got)
	assert.Equal(t, tenantID, uc.got.TenantID)
	assert.Nil(t, uc.got.EndTime)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), uc.got.StartTime.UTC())

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "15.00", data["depositAmount"])
	assert.Equal(t, "60.00", data["totalPrice"])
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation failure",
			err:        validate_appointment.NewValidationError(domain.ReasonScheduleNotAvailable),
			wantStatus: http.StatusBadRequest,
		},
		{name: "invalid input", err: fmt.Errorf("%w: staffId is required", createAppointment.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "client not found", err: createAppointment.ErrClientNotFound, wantStatus: http.StatusNotFound},
		{name: "concurrent booking", err: createAppointment.ErrConcurrentUpdate, wantStatus: http.StatusConflict},
		{name: "internal", err: createAppointment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})
			tenantID := uuid.New()

			rec, resp := doRequest(t, h, &tenantID, validBody())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestHandle_ValidationReasons(t *testing.T) {
	err := validate_appointment.NewValidationError(domain.ReasonStaffLacksSpecialty, domain.ReasonScheduleNotAvailable)
	h := NewHandler(&fakeUseCase{err: err}, nopLogger{})
	tenantID := uuid.New()

	_, resp := doRequest(t, h, &tenantID, validBody())

	assert.Equal(t, []string{domain.ReasonStaffLacksSpecialty, domain.ReasonScheduleNotAvailable}, resp.Reasons)
}

func TestHandle_BadRequest(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})
	tenantID := uuid.New()

	t.Run("malformed body", func(t *testing.T) {
		rec, _ := doRequest(t, h, &tenantID, `{"clientId":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing tenant", func(t *testing.T) {
		rec, _ := doRequest(t, h, nil, validBody())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Nil(t, uc.got)
}
