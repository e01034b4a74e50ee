package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// List получает записи по фильтру (сотрудник, статусы, окно времени)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс репозитория сотрудников и услуг
type CatalogRepository interface {
	GetStaff(ctx context.Context, tenantID, staffID uuid.UUID) (*domain.Staff, error)
	GetService(ctx context.Context, tenantID, serviceID uuid.UUID) (*domain.Service, error)
}

// PolicyProvider интерфейс получения политики и часов работы салона
type PolicyProvider interface {
	Effective(ctx context.Context, tenantID uuid.UUID) (domain.BookingPolicy, error)
	BusinessHours(ctx context.Context, tenantID uuid.UUID, day time.Weekday) (domain.BusinessHours, bool, error)
}

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
