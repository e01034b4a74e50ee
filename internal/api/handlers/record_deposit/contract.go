package record_deposit

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
)

type PaymentService interface {
	RecordDeposit(ctx context.Context, req *models.RecordDepositRequest) (*models.DepositResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
