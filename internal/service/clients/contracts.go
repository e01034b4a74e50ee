package clients

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	apptModels "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error)
	GetByQRCode(ctx context.Context, tenantID uuid.UUID, qrCode string) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error)
	UpdateMedicalInfo(ctx context.Context, client *domain.Client) (*domain.Client, error)
}

// AppointmentRepository интерфейс репозитория записей (запись на сегодня и история визитов)
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// NoteRepository интерфейс репозитория заметок мастеров
type NoteRepository interface {
	Create(ctx context.Context, note *domain.ServiceNote) (*domain.ServiceNote, error)
	ListByAppointments(ctx context.Context, tenantID uuid.UUID, appointmentIDs []uuid.UUID) ([]*domain.ServiceNote, error)
}

// StaffRepository интерфейс проверки автора заметки
type StaffRepository interface {
	GetStaff(ctx context.Context, tenantID, staffID uuid.UUID) (*domain.Staff, error)
}

// AppointmentLifecycle интерфейс перехода записи в CHECK_IN
type AppointmentLifecycle interface {
	CheckIn(ctx context.Context, tenantID, id uuid.UUID) (*apptModels.AppointmentResponse, error)
}

// TokenGenerator интерфейс генерации QR-токенов клиентов
type TokenGenerator interface {
	Generate() (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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

// UUIDTokenGenerator генерирует токен из случайного UUID v4 (32 hex символа)
type UUIDTokenGenerator struct{}

// Generate возвращает новый токен
func (UUIDTokenGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}
