package get_cash_close

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/payments"
	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
)

type fakeService struct {
	gotDate time.Time
	err     error
}

func (f *fakeService) CashCloseSummary(_ context.Context, _ uuid.UUID, date time.Time) (*models.CashCloseResponse, error) {
	f.gotDate = date
	if f.err != nil {
		return nil, f.err
	}
	return &models.CashCloseResponse{Date: date.Format("2006-01-02")}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/cash-close"+query, nil)
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestParseDay(t *testing.T) {
	now := time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC)

	t.Run("explicit date in zone", func(t *testing.T) {
		day, err := ParseDay("2025-10-14", "Europe/Madrid", now)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Madrid", day.Location().String())
		assert.Equal(t, 14, day.Day())
	})

	t.Run("today in zone", func(t *testing.T) {
		day, err := ParseDay("", "Europe/Madrid", now)
		require.NoError(t, err)
		assert.Equal(t, 16, day.Day())
	})

	t.Run("today utc", func(t *testing.T) {
		day, err := ParseDay("", "", now)
		require.NoError(t, err)
		assert.Equal(t, 15, day.Day())
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := ParseDay("2025-10-14", "Mars/Olympus", now)
		assert.Error(t, err)
	})
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})

	rec := serve(h, "?date=2025-10-14")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), svc.gotDate)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(NewHandler(&fakeService{}, nopLogger{}), "?date=14/10/2025")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(NewHandler(&fakeService{err: payments.ErrInternal}, nopLogger{}), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
