package get_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date (YYYY-MM-DD) - сокращение для периода в одни сутки UTC, не сочетается с from/to
func ToServiceRequest(tenantID uuid.UUID, r *http.Request) (*models.ListRequest, error) {
	req := &models.ListRequest{
		TenantID: tenantID,
		Status:   handlers.QueryString(r, "status"),
	}

	var err error
	if req.StaffID, err = handlers.QueryUUID(r, "staffId"); err != nil {
		return nil, err
	}
	if req.ClientID, err = handlers.QueryUUID(r, "clientId"); err != nil {
		return nil, err
	}
	if req.From, err = handlers.QueryTime(r, "from"); err != nil {
		return nil, err
	}
	if req.To, err = handlers.QueryTime(r, "to"); err != nil {
		return nil, err
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		if req.From != nil || req.To != nil {
			return nil, errors.New("date cannot be combined with from/to")
		}
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		next := date.AddDate(0, 0, 1)
		req.From = &date
		req.To = &next
	}

	return req, nil
}
