package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Типы событий жизненного цикла записи (используются как routing key)
const (
	AppointmentCreated   = "appointment.created"
	AppointmentConfirmed = "appointment.confirmed"
	AppointmentCancelled = "appointment.cancelled"
	AppointmentCheckedIn = "appointment.checked_in"
	AppointmentCompleted = "appointment.completed"
)

// Event событие изменения записи
type Event struct {
	ID            uuid.UUID                `json:"id"`
	Type          string                   `json:"type"`
	TenantID      uuid.UUID                `json:"tenant_id"`
	AppointmentID uuid.UUID                `json:"appointment_id"`
	ClientID      uuid.UUID                `json:"client_id"`
	StaffID       uuid.UUID                `json:"staff_id"`
	Status        domain.AppointmentStatus `json:"status"`
	StartTime     time.Time                `json:"start_time"`
	EndTime       time.Time                `json:"end_time"`
	TotalPrice    decimal.Decimal          `json:"total_price"`
	DepositPaid   bool                     `json:"deposit_paid"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// TypeForStatus возвращает тип события для статуса, в который перешла запись
func TypeForStatus(status domain.AppointmentStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return AppointmentConfirmed
	case domain.StatusCancelled:
		return AppointmentCancelled
	case domain.StatusCheckIn:
		return AppointmentCheckedIn
	case domain.StatusCompleted:
		return AppointmentCompleted
	default:
		return AppointmentCreated
	}
}

// NewAppointmentEvent создает событие по текущему состоянию записи
// У каждого события свой ID, он же MessageId в брокере
func NewAppointmentEvent(eventType string, appt *domain.Appointment, now time.Time) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		TenantID:      appt.TenantID,
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		StaffID:       appt.StaffID,
		Status:        appt.Status,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		TotalPrice:    appt.TotalPrice,
		DepositPaid:   appt.DepositPaid,
		OccurredAt:    now.UTC(),
	}
}
