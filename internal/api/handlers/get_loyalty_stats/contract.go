package get_loyalty_stats

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

type LoyaltyService interface {
	GetStats(ctx context.Context, tenantID uuid.UUID) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
