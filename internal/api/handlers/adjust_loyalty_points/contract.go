package adjust_loyalty_points

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

type LoyaltyService interface {
	AddPoints(ctx context.Context, tenantID, clientID uuid.UUID, points int) (*models.ClientLoyaltyResponse, error)
	RedeemPoints(ctx context.Context, tenantID, clientID uuid.UUID, points int) (*models.ClientLoyaltyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
