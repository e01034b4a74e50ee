package set_business_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/service/policy/models"
)

type PolicyService interface {
	SetBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []models.BusinessHoursDTO) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
