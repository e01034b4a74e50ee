package get_staff_commissions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/payments"
	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
)

type fakeService struct {
	gotMonth time.Time
	err      error
}

func (f *fakeService) StaffCommissions(_ context.Context, _, staffID uuid.UUID, month time.Time) (*models.CommissionsResponse, error) {
	f.gotMonth = month
	if f.err != nil {
		return nil, f.err
	}
	return &models.CommissionsResponse{StaffID: staffID, Period: month.Format("2006-01"), TotalCommissions: "20.00"}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, staffID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/"+staffID+"/commissions"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"staffId": staffID})
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}

	rec := serve(NewHandler(svc, nopLogger{}), uuid.NewString(), "?month=2025-10")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), svc.gotMonth)
	assert.Contains(t, rec.Body.String(), `"totalCommissions":"20.00"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		staffID    string
		query      string
		err        error
		wantStatus int
	}{
		{name: "invalid staff id", staffID: "abc", query: "?month=2025-10", wantStatus: http.StatusBadRequest},
		{name: "missing month", staffID: uuid.NewString(), query: "", wantStatus: http.StatusBadRequest},
		{name: "invalid month", staffID: uuid.NewString(), query: "?month=10-2025", wantStatus: http.StatusBadRequest},
		{name: "unknown staff", staffID: uuid.NewString(), query: "?month=2025-10", err: payments.ErrStaffNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", staffID: uuid.NewString(), query: "?month=2025-10", err: payments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, nopLogger{}), tt.staffID, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
