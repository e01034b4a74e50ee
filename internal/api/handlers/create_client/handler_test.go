package create_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/clients"
	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
)

type fakeService struct {
	got *models.CreateClientRequest
	err error
}

func (f *fakeService) Create(_ context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ClientResponse{
		ID:          uuid.New(),
		TenantID:    req.TenantID,
		QRCode:      "qr-token",
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Allergies:   []string{},
		LoyaltyTier: "BRONZE",
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, handlers.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(body))
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	var resp handlers.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})

	rec, resp := doRequest(t, h, `{"firstName":"Lucia","lastName":"Fernandez","phone":"+34 612 345 678","allergies":["latex"]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, svc.got)
	assert.NotEqual(t, uuid.Nil, svc.got.TenantID)
	assert.Equal(t, []string{"latex"}, svc.got.Allergies)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "qr-token", data["qrCode"])
}

func TestHandle_InvalidInput(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: invalid email %q", clients.ErrInvalidInput, "nope")}
	h := NewHandler(svc, nopLogger{})

	rec, resp := doRequest(t, h, `{"firstName":"Lucia","lastName":"Fernandez","email":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `некорректные данные клиента: invalid email "nope"`, resp.Message)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "unknown field", body: `{"firstName":"A","lastName":"B","vip":true}`, wantStatus: http.StatusBadRequest},
		{name: "internal", body: `{"firstName":"A","lastName":"B"}`, err: clients.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})

			rec, resp := doRequest(t, h, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}
