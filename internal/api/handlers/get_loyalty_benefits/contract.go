package get_loyalty_benefits

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

type LoyaltyService interface {
	GetClientBenefits(ctx context.Context, tenantID, clientID uuid.UUID) (*models.BenefitsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
