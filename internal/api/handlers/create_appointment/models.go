package create_appointment

import (
	"time"

	"github.com/google/uuid"

	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID  uuid.UUID  `json:"clientId"`
	StaffID   uuid.UUID  `json:"staffId"`
	ServiceID uuid.UUID  `json:"serviceId"`
	StartTime time.Time  `json:"startTime"`         // RFC3339, "2025-10-15T10:00:00+02:00"
	EndTime   *time.Time `json:"endTime,omitempty"` // По умолчанию start + длительность услуги
	Notes     *string    `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(tenantID uuid.UUID) *createAppointment.Request {
	return &createAppointment.Request{
		TenantID:  tenantID,
		ClientID:  r.ClientID,
		StaffID:   r.StaffID,
		ServiceID: r.ServiceID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Notes:     r.Notes,
	}
}
