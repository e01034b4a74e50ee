package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"Lucia"}`},
		{name: "unknown field", body: `{"name":"Lucia","age":30}`, wantErr: true},
		{name: "two objects", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload

			err := DecodeJSON(r, &dst)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Lucia", dst.Name)
		})
	}
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusCreated, map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"42"}}`, rec.Body.String())
}

func TestRespondValidationFailed(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondValidationFailed(rec, "запись невозможна", []string{"schedule not available"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, []string{"schedule not available"}, body.Reasons)
}

func TestRespondInternalError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondInternalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal Server Error","message":"внутренняя ошибка сервера"}`, rec.Body.String())
}

func TestErrorDetail(t *testing.T) {
	sentinel := errors.New("policy: invalid input data")

	assert.Equal(t, "slotStepMinutes must be positive",
		ErrorDetail(fmt.Errorf("%w: slotStepMinutes must be positive", sentinel), sentinel))
	assert.Equal(t, "policy: invalid input data", ErrorDetail(sentinel, sentinel))
}
