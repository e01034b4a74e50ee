package policy

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// PolicyRepository интерфейс хранилища политик салона
// Реализуется репозиторием и кэшем Redis поверх него
type PolicyRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*domain.TenantPolicy, error)
	Update(ctx context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error)
	ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []domain.BusinessHours) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
