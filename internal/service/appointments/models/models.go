package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Request модели

// ListRequest запрос на получение записей салона
type ListRequest struct {
	TenantID uuid.UUID  `json:"tenantId"`
	StaffID  *uuid.UUID `json:"staffId,omitempty"`  // Фильтр по сотруднику (опционально)
	ClientID *uuid.UUID `json:"clientId,omitempty"` // Фильтр по клиенту (опционально)
	Status   *string    `json:"status,omitempty"`   // Фильтр по статусу (опционально)
	From     *time.Time `json:"from,omitempty"`     // Начало периода (опционально)
	To       *time.Time `json:"to,omitempty"`       // Конец периода (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		TenantID: r.TenantID,
		StaffID:  r.StaffID,
		ClientID: r.ClientID,
		From:     r.From,
		To:       r.To,
	}

	if r.Status != nil {
		status, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenantId"`
	ClientID      uuid.UUID `json:"clientId"`
	StaffID       uuid.UUID `json:"staffId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	DepositPaid   bool      `json:"depositPaid"`
	DepositAmount string    `json:"depositAmount"` // "15.00"
	TotalPrice    string    `json:"totalPrice"`    // "60.00"
	Notes         *string   `json:"notes,omitempty"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:            a.ID,
		TenantID:      a.TenantID,
		ClientID:      a.ClientID,
		StaffID:       a.StaffID,
		ServiceID:     a.ServiceID,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		DepositPaid:   a.DepositPaid,
		DepositAmount: a.DepositAmount.StringFixed(2),
		TotalPrice:    a.TotalPrice.StringFixed(2),
		Notes:         a.Notes,
		CancelledAt:   a.CancelledAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if resp := FromDomainAppointment(a); resp != nil {
			result.Appointments = append(result.Appointments, *resp)
		}
	}

	return result
}
