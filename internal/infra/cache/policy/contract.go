package policy

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Repository интерфейс хранилища политик, поверх которого работает кэш
type Repository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*domain.TenantPolicy, error)
	Update(ctx context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error)
	ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []domain.BusinessHours) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
