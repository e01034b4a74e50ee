package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	apptModels "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// Request модели

// CreateClientRequest запрос на создание клиента
type CreateClientRequest struct {
	TenantID     uuid.UUID `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"` // Любой формат, сохраняется в E.164
	MedicalNotes *string   `json:"medicalNotes,omitempty"`
	Allergies    []string  `json:"allergies,omitempty"`
}

// ListRequest запрос на получение клиентов салона
type ListRequest struct {
	TenantID uuid.UUID
	Search   *string // Поиск по имени, фамилии, email и телефону
	Tier     *string // Фильтр по уровню лояльности
	Limit    uint64
	Offset   uint64
}

// UpdateMedicalRequest запрос на изменение медицинской информации
// nil - поле не меняется
type UpdateMedicalRequest struct {
	TenantID     uuid.UUID `json:"-"`
	ClientID     uuid.UUID `json:"-"`
	MedicalNotes *string   `json:"medicalNotes,omitempty"`
	Allergies    []string  `json:"allergies,omitempty"`
}

// AddServiceNoteRequest запрос на добавление заметки мастера к записи
type AddServiceNoteRequest struct {
	TenantID      uuid.UUID  `json:"-"`
	AppointmentID uuid.UUID  `json:"-"`
	StaffID       *uuid.UUID `json:"staffId,omitempty"` // По умолчанию мастер записи
	Content       string     `json:"content"`
}

// Response модели

// AlertResponse предупреждение для персонала
type AlertResponse struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ClientResponse ответ с данными клиента
type ClientResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenantId"`
	QRCode        string          `json:"qrCode"`
	Email         *string         `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	MedicalNotes  *string         `json:"medicalNotes,omitempty"`
	Allergies     []string        `json:"allergies"`
	LoyaltyPoints int             `json:"loyaltyPoints"`
	LoyaltyTier   string          `json:"loyaltyTier"`
	Alerts        []AlertResponse `json:"alerts"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ClientListResponse ответ со списком клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// CheckInResponse результат check-in по QR
// Appointment отсутствует, если на сегодня нет подтвержденной записи
type CheckInResponse struct {
	Client      ClientResponse                  `json:"client"`
	Appointment *apptModels.AppointmentResponse `json:"appointment,omitempty"`
}

// ServiceNoteResponse ответ с заметкой мастера
type ServiceNoteResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	StaffID       uuid.UUID `json:"staffId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ServiceHistoryItem завершенный визит с заметками
type ServiceHistoryItem struct {
	Appointment apptModels.AppointmentResponse `json:"appointment"`
	Notes       []ServiceNoteResponse          `json:"notes"`
}

// ServiceHistoryResponse история визитов клиента
type ServiceHistoryResponse struct {
	Visits []ServiceHistoryItem `json:"visits"`
}

// Методы конвертации

// FromDomainAlerts конвертирует предупреждения в DTO
func FromDomainAlerts(alerts []domain.ClientAlert) []AlertResponse {
	result := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		result = append(result, AlertResponse{
			Type:     a.Type,
			Message:  a.Message,
			Severity: string(a.Severity),
		})
	}
	return result
}

// FromDomainClient конвертирует domain модель в DTO
func FromDomainClient(c *domain.Client) *ClientResponse {
	if c == nil {
		return nil
	}

	allergies := c.Allergies
	if allergies == nil {
		allergies = []string{}
	}

	return &ClientResponse{
		ID:            c.ID,
		TenantID:      c.TenantID,
		QRCode:        c.QRCode,
		Email:         c.Email,
		Phone:         c.Phone,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		MedicalNotes:  c.MedicalNotes,
		Allergies:     allergies,
		LoyaltyPoints: c.LoyaltyPoints,
		LoyaltyTier:   string(c.LoyaltyTier),
		Alerts:        FromDomainAlerts(c.Alerts()),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromDomainClientList конвертирует список domain моделей в DTO
func FromDomainClientList(clients []*domain.Client) *ClientListResponse {
	result := &ClientListResponse{
		Clients: make([]ClientResponse, 0, len(clients)),
	}

	for _, c := range clients {
		if resp := FromDomainClient(c); resp != nil {
			result.Clients = append(result.Clients, *resp)
		}
	}

	return result
}

// FromDomainServiceNote конвертирует заметку в DTO
func FromDomainServiceNote(n *domain.ServiceNote) *ServiceNoteResponse {
	if n == nil {
		return nil
	}

	return &ServiceNoteResponse{
		ID:            n.ID,
		AppointmentID: n.AppointmentID,
		StaffID:       n.StaffID,
		Content:       n.Content,
		CreatedAt:     n.CreatedAt,
	}
}

// FromDomainServiceHistory конвертирует историю визитов в DTO
func FromDomainServiceHistory(entries []domain.ServiceHistoryEntry) *ServiceHistoryResponse {
	result := &ServiceHistoryResponse{
		Visits: make([]ServiceHistoryItem, 0, len(entries)),
	}

	for _, e := range entries {
		appt := apptModels.FromDomainAppointment(e.Appointment)
		if appt == nil {
			continue
		}

		notes := make([]ServiceNoteResponse, 0, len(e.Notes))
		for _, n := range e.Notes {
			notes = append(notes, *FromDomainServiceNote(n))
		}

		result.Visits = append(result.Visits, ServiceHistoryItem{Appointment: *appt, Notes: notes})
	}

	return result
}
