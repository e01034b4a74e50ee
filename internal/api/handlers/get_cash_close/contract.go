package get_cash_close

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
)

type PaymentService interface {
	CashCloseSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.CashCloseResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
