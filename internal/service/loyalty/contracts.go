package loyalty

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов (баллы и уровень)
type ClientRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error)
	UpdateLoyalty(ctx context.Context, client *domain.Client) (*domain.Client, error)
	LoyaltyStats(ctx context.Context, tenantID uuid.UUID) (*domain.LoyaltyStats, error)
}

// RuleRepository интерфейс репозитория правил уровней
type RuleRepository interface {
	GetRules(ctx context.Context, tenantID uuid.UUID) ([]*domain.LoyaltyRule, error)
	Upsert(ctx context.Context, rule *domain.LoyaltyRule) (*domain.LoyaltyRule, error)
}

// PolicyProvider интерфейс получения действующей политики салона
type PolicyProvider interface {
	Effective(ctx context.Context, tenantID uuid.UUID) (domain.BookingPolicy, error)
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
