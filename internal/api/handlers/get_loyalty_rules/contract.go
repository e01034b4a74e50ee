package get_loyalty_rules

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

type LoyaltyService interface {
	GetTierRules(ctx context.Context, tenantID uuid.UUID) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
