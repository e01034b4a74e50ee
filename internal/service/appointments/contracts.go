package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/events"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// AvailabilityChecker интерфейс проверки занятости сотрудника
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, in *validate_appointment.Input, policy domain.BookingPolicy) (bool, error)
}

// PolicyProvider интерфейс получения действующей политики салона
type PolicyProvider interface {
	Effective(ctx context.Context, tenantID uuid.UUID) (domain.BookingPolicy, error)
}

// EventPublisher интерфейс публикации событий записи
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncAppointmentTransition(status string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxHook выполняется в транзакции перехода, после проверок и до сохранения статуса
// Ошибка хука откатывает переход и возвращается вызывающему без изменений
type TxHook func(ctx context.Context, appt *domain.Appointment) error

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
