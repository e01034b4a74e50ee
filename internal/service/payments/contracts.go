package payments

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	apptModels "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// StaffRepository интерфейс получения сотрудника (ставка комиссии)
type StaffRepository interface {
	GetStaff(ctx context.Context, tenantID, staffID uuid.UUID) (*domain.Staff, error)
}

// AppointmentLifecycle интерфейс подтверждения записи
// Хуки выполняются в транзакции подтверждения
type AppointmentLifecycle interface {
	Confirm(ctx context.Context, tenantID, id uuid.UUID, hooks ...appointments.TxHook) (*apptModels.AppointmentResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
