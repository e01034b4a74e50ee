package get_clients

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(tenantID uuid.UUID, r *http.Request) (*models.ListRequest, error) {
	limit, err := handlers.QueryUint(r, "limit", defaultLimit)
	if err != nil {
		return nil, err
	}
	if limit == 0 || limit > maxLimit {
		return nil, fmt.Errorf("limit must be in 1..%d", maxLimit)
	}

	offset, err := handlers.QueryUint(r, "offset", 0)
	if err != nil {
		return nil, err
	}

	return &models.ListRequest{
		TenantID: tenantID,
		Search:   handlers.QueryString(r, "search"),
		Tier:     handlers.QueryString(r, "tier"),
		Limit:    limit,
		Offset:   offset,
	}, nil
}
